package nat

import (
	"math/bits"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
)

// Invert sets z = x^-1 mod p using the extended binary GCD, which needs no
// long division. p must be odd and 0 < x < p; p, x and z have equal length.
//
// Each of u and v is paired with a coefficient (a resp. b) such that
// a·x ≡ u and b·x ≡ v (mod p). The coefficients are signed: ac and bc hold
// the words above the fixed width.
func Invert(p, x, z []uint32) error {
	n := len(p)
	if n == 0 || p[0]&1 == 0 {
		return errors.WrapPrefix(ErrInvalidInput, "modulus must be odd", 0)
	}
	if IsZero(x) {
		return errors.WrapPrefix(ErrInvalidInput, "cannot invert 0", 0)
	}
	if Gte(x, p) {
		return errors.WrapPrefix(ErrInvalidInput, "value must be reduced", 0)
	}
	if IsOne(x) {
		copy(z, x)
		return nil
	}

	u := Copy(x)
	a := Create(n)
	a[0] = 1
	ac := 0

	if u[0]&1 == 0 {
		ac = inversionStep(p, u, n, a, ac)
	}
	if IsOne(u) {
		inversionResult(p, ac, a, z)
		return nil
	}

	v := Copy(p)
	b := Create(n)
	bc := 0

	uvLen := n
	for {
		for u[uvLen-1] == 0 && v[uvLen-1] == 0 {
			uvLen--
		}

		if Gte(u, v) {
			Sub(u, v, u)
			if IsZero(u) {
				return errors.WrapPrefix(ErrInvalidInput, "value is not invertible", 0)
			}
			ac += Sub(a, b, a) - bc
			ac = inversionStep(p, u, uvLen, a, ac)
			if IsOne(u) {
				inversionResult(p, ac, a, z)
				return nil
			}
		} else {
			Sub(v, u, v)
			bc += Sub(b, a, b) - ac
			bc = inversionStep(p, v, uvLen, b, bc)
			if IsOne(v) {
				inversionResult(p, bc, b, z)
				return nil
			}
		}
	}
}

// inversionStep strips the factors of two from u[:uLen] and halves the
// coefficient (xc, x) modulo p once for every factor removed.
func inversionStep(p, u []uint32, uLen int, x []uint32, xc int) int {
	count := 0
	for u[0] == 0 {
		ShiftDownWord(u[:uLen], 0)
		count += 32
	}
	if zeroes := bits.TrailingZeros32(u[0]); zeroes > 0 {
		ShiftDownBits(u[:uLen], uint(zeroes), 0)
		count += zeroes
	}

	for i := 0; i < count; i++ {
		if x[0]&1 != 0 {
			if xc < 0 {
				xc += int(Add(x, p, x))
			} else {
				xc += Sub(x, p, x)
			}
		}
		ShiftDownBit(x, uint32(xc))
		xc >>= 1
	}
	return xc
}

func inversionResult(p []uint32, ac int, a, z []uint32) {
	if ac < 0 {
		Add(a, p, z)
	} else {
		copy(z, a)
	}
}

// InvertBig returns x^-1 mod p for odd p and 0 < x < p.
func InvertBig(p, x *big.Int) (*big.Int, error) {
	n := (p.BitLen() + 31) >> 5
	pw, err := FromBig(n, p)
	if err != nil {
		return nil, err
	}
	xw, err := FromBig(n, x)
	if err != nil {
		return nil, err
	}
	z := Create(n)
	if err = Invert(pw, xw, z); err != nil {
		return nil, err
	}
	return ToBig(z), nil
}
