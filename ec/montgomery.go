package ec

import (
	"fmt"

	"github.com/go-errors/errors"
)

// MontgomeryTrick replaces zs[off:off+n] by their inverses using a single
// field inversion and 3(n-1) multiplications.
func MontgomeryTrick(zs []*FieldElement, off, n int) error {
	if n == 0 {
		return nil
	}
	if off < 0 || n < 0 || off+n > len(zs) {
		return errors.WrapPrefix(ErrInvalidArguments, fmt.Sprintf("range [%d, %d) of %d elements", off, off+n, len(zs)), 0)
	}

	// c[i] = zs[off] * ... * zs[off+i]
	c := make([]*FieldElement, n)
	c[0] = zs[off]
	for i := 1; i < n; i++ {
		c[i] = c[i-1].Multiply(zs[off+i])
	}

	u, err := c[n-1].Invert()
	if err != nil {
		return errors.WrapPrefix(ErrZeroInverse, "product of elements is not invertible", 0)
	}

	for i := n - 1; i > 0; i-- {
		j := off + i
		z := zs[j]
		zs[j] = c[i-1].Multiply(u)
		u = u.Multiply(z)
	}
	zs[off] = u
	return nil
}

// BatchInvert returns the inverses of zs without modifying it.
func BatchInvert(zs []*FieldElement) ([]*FieldElement, error) {
	out := make([]*FieldElement, len(zs))
	copy(out, zs)
	if err := MontgomeryTrick(out, 0, len(out)); err != nil {
		return nil, err
	}
	return out, nil
}
