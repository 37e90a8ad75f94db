package uprove

import (
	"crypto/rand"
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/internal/common"
	"github.com/privacybydesign/uprove/internal/nat"
)

// FieldZq is the field of integers modulo the prime order q of a group. It is
// read-only after construction.
type FieldZq struct {
	q       *big.Int
	red     *common.Reducer
	byteLen int

	zero, one, negativeOne *FieldZqElement
}

// NewFieldZq returns the integers modulo q. Primality of q is not checked;
// q must be odd and larger than 2.
func NewFieldZq(q *big.Int) (*FieldZq, error) {
	if q == nil || q.Cmp(big.NewInt(3)) < 0 || q.Bit(0) == 0 {
		return nil, errors.WrapPrefix(ErrInvalidField, "modulus must be odd and larger than 2", 0)
	}
	f := &FieldZq{
		q:       new(big.Int).Set(q),
		red:     common.NewReducer(q),
		byteLen: (q.BitLen() + 7) / 8,
	}
	f.zero = &FieldZqElement{field: f, x: big.NewInt(0)}
	f.one = &FieldZqElement{field: f, x: big.NewInt(1)}
	f.negativeOne = &FieldZqElement{field: f, x: new(big.Int).Sub(f.q, big.NewInt(1))}
	return f, nil
}

// Q returns the modulus.
func (f *FieldZq) Q() *big.Int { return new(big.Int).Set(f.q) }

// ByteLen returns the length of the fixed-size element encoding.
func (f *FieldZq) ByteLen() int { return f.byteLen }

func (f *FieldZq) Zero() *FieldZqElement        { return f.zero }
func (f *FieldZq) One() *FieldZqElement         { return f.one }
func (f *FieldZq) NegativeOne() *FieldZqElement { return f.negativeOne }

// Equal reports whether both fields have the same modulus.
func (f *FieldZq) Equal(o *FieldZq) bool {
	return f == o || (o != nil && f.q.Cmp(o.q) == 0)
}

// Element returns x mod q. Negative values wrap around.
func (f *FieldZq) Element(x *big.Int) *FieldZqElement {
	return &FieldZqElement{field: f, x: f.red.Mod(new(big.Int), x)}
}

// ElementInt returns x mod q.
func (f *FieldZq) ElementInt(x int64) *FieldZqElement {
	return f.Element(big.NewInt(x))
}

// ElementBytes interprets b as a big-endian unsigned integer and reduces it.
func (f *FieldZq) ElementBytes(b []byte) *FieldZqElement {
	return f.Element(new(big.Int).SetBytes(b))
}

// IsElement reports whether x is reduced, i.e. 0 <= x < q.
func (f *FieldZq) IsElement(x *big.Int) bool {
	return x.Sign() >= 0 && x.Cmp(f.q) < 0
}

// RandomElement returns a uniformly random element, or a uniformly random
// nonzero element if nonZero is set.
func (f *FieldZq) RandomElement(nonZero bool) (*FieldZqElement, error) {
	if !nonZero {
		x, err := big.RandInt(rand.Reader, f.q)
		if err != nil {
			return nil, err
		}
		return &FieldZqElement{field: f, x: x}, nil
	}
	x, err := big.RandInt(rand.Reader, new(big.Int).Sub(f.q, big.NewInt(1)))
	if err != nil {
		return nil, err
	}
	return &FieldZqElement{field: f, x: x.Add(x, big.NewInt(1))}, nil
}

// RandomElements returns n random elements, see RandomElement.
func (f *FieldZq) RandomElements(n int, nonZero bool) ([]*FieldZqElement, error) {
	r := make([]*FieldZqElement, n)
	for i := range r {
		var err error
		if r[i], err = f.RandomElement(nonZero); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (f *FieldZq) String() string {
	return fmt.Sprintf("Z_%v", f.q)
}

// FieldZqElement is an immutable element of a FieldZq. Combining elements of
// different fields panics with ErrFieldMismatch.
type FieldZqElement struct {
	field *FieldZq
	x     *big.Int
}

func (e *FieldZqElement) Field() *FieldZq { return e.field }

// BigInt returns the value in [0, q).
func (e *FieldZqElement) BigInt() *big.Int { return new(big.Int).Set(e.x) }

func (e *FieldZqElement) IsZero() bool { return e.x.Sign() == 0 }

func (e *FieldZqElement) check(b *FieldZqElement) {
	if !e.field.Equal(b.field) {
		panic(ErrFieldMismatch)
	}
}

func (e *FieldZqElement) wrap(x *big.Int) *FieldZqElement {
	return &FieldZqElement{field: e.field, x: x}
}

func (e *FieldZqElement) Add(b *FieldZqElement) *FieldZqElement {
	e.check(b)
	x := new(big.Int).Add(e.x, b.x)
	if x.Cmp(e.field.q) >= 0 {
		x.Sub(x, e.field.q)
	}
	return e.wrap(x)
}

func (e *FieldZqElement) Subtract(b *FieldZqElement) *FieldZqElement {
	e.check(b)
	x := new(big.Int).Sub(e.x, b.x)
	if x.Sign() < 0 {
		x.Add(x, e.field.q)
	}
	return e.wrap(x)
}

func (e *FieldZqElement) Multiply(b *FieldZqElement) *FieldZqElement {
	e.check(b)
	x := new(big.Int).Mul(e.x, b.x)
	return e.wrap(e.field.red.Mod(x, x))
}

func (e *FieldZqElement) Negate() *FieldZqElement {
	if e.x.Sign() == 0 {
		return e
	}
	return e.wrap(new(big.Int).Sub(e.field.q, e.x))
}

// Exponentiate returns e^k mod q for k >= 0.
func (e *FieldZqElement) Exponentiate(k *big.Int) *FieldZqElement {
	return e.wrap(new(big.Int).Exp(e.x, k, e.field.q))
}

// Invert returns the multiplicative inverse of e, failing with ErrZeroInverse
// for zero.
func (e *FieldZqElement) Invert() (*FieldZqElement, error) {
	if e.x.Sign() == 0 {
		return nil, ErrZeroInverse
	}
	x, err := nat.InvertBig(e.field.q, e.x)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to invert field element", 0)
	}
	return e.wrap(x), nil
}

// Divide returns e / b, failing with ErrZeroInverse if b is zero.
func (e *FieldZqElement) Divide(b *FieldZqElement) (*FieldZqElement, error) {
	e.check(b)
	inv, err := b.Invert()
	if err != nil {
		return nil, err
	}
	return e.Multiply(inv), nil
}

func (e *FieldZqElement) Equal(b *FieldZqElement) bool {
	if e == b {
		return true
	}
	return b != nil && e.field.Equal(b.field) && e.x.Cmp(b.x) == 0
}

// Bytes returns the big-endian encoding of e, left-padded to the byte length
// of q.
func (e *FieldZqElement) Bytes() []byte {
	b, err := e.x.FixedBytes(e.field.byteLen)
	if err != nil {
		// elements are reduced, so they always fit
		panic(err)
	}
	return b
}

func (e *FieldZqElement) String() string {
	return e.x.String()
}
