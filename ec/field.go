package ec

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/internal/common"
	"github.com/privacybydesign/uprove/internal/nat"
)

var (
	bigOne   = big.NewInt(1)
	bigTwo   = big.NewInt(2)
	bigThree = big.NewInt(3)
)

// PrimeField describes the integers modulo an odd prime p. It is read-only
// after construction and shared by all elements of the field.
type PrimeField struct {
	p   *big.Int
	red *common.Reducer

	byteLen   int
	zero, one *FieldElement

	// 2^((p-1)/4), a square root of -1, when p ≡ 5 (mod 8)
	sqrtMinusOne *big.Int
}

// NewPrimeField returns the field of integers modulo p. Primality of p is not
// checked; p must be odd.
func NewPrimeField(p *big.Int) (*PrimeField, error) {
	if p == nil || p.Sign() <= 0 || p.BitLen() < 2 {
		return nil, errors.WrapPrefix(ErrInvalidCurveParameters, "modulus must be positive with at least 2 bits", 0)
	}
	if p.Bit(0) == 0 {
		return nil, errors.WrapPrefix(ErrInvalidCurveParameters, "modulus must be odd", 0)
	}

	f := &PrimeField{
		p:       new(big.Int).Set(p),
		red:     common.NewReducer(p),
		byteLen: (p.BitLen() + 7) / 8,
	}
	f.zero = &FieldElement{field: f, x: big.NewInt(0)}
	f.one = &FieldElement{field: f, x: big.NewInt(1)}
	if p.Bit(1) == 0 && p.Bit(2) == 1 {
		f.sqrtMinusOne = new(big.Int).Exp(bigTwo, new(big.Int).Rsh(p, 2), p)
	}
	return f, nil
}

// Modulus returns a copy of p.
func (f *PrimeField) Modulus() *big.Int { return new(big.Int).Set(f.p) }

// Residue returns the fast reduction constant of p, or nil if reduction uses
// plain remainders.
func (f *PrimeField) Residue() *big.Int { return f.red.Residue() }

// BitLen returns the bit length of p.
func (f *PrimeField) BitLen() int { return f.p.BitLen() }

// ByteLen returns the length of the fixed-width encoding of elements.
func (f *PrimeField) ByteLen() int { return f.byteLen }

func (f *PrimeField) Zero() *FieldElement { return f.zero }
func (f *PrimeField) One() *FieldElement  { return f.one }

// Equal reports whether both fields have the same modulus.
func (f *PrimeField) Equal(o *PrimeField) bool {
	return f == o || (o != nil && f.p.Cmp(o.p) == 0)
}

// Element returns x as an element of the field. x must satisfy 0 <= x < p.
func (f *PrimeField) Element(x *big.Int) (*FieldElement, error) {
	if x == nil || x.Sign() < 0 || x.Cmp(f.p) >= 0 {
		return nil, errors.WrapPrefix(ErrValueOutOfRange, fmt.Sprintf("%v", x), 0)
	}
	return f.element(new(big.Int).Set(x)), nil
}

// element wraps an already reduced value without copying it.
func (f *PrimeField) element(x *big.Int) *FieldElement {
	return &FieldElement{field: f, x: x}
}

func (f *PrimeField) reduce(x *big.Int) *FieldElement {
	return f.element(f.red.Mod(x, x))
}

// FieldElement is an immutable element of a PrimeField.
type FieldElement struct {
	field *PrimeField
	x     *big.Int
}

func (e *FieldElement) Field() *PrimeField { return e.field }

// BigInt returns the value of e as an integer in [0, p).
func (e *FieldElement) BigInt() *big.Int { return new(big.Int).Set(e.x) }

func (e *FieldElement) BitLen() int { return e.x.BitLen() }

func (e *FieldElement) IsZero() bool { return e.x.Sign() == 0 }

func (e *FieldElement) IsOne() bool { return e.x.IsInt64() && e.x.Int64() == 1 }

// TestBitZero returns the lowest bit of the value, which is its parity.
func (e *FieldElement) TestBitZero() bool { return e.x.Bit(0) == 1 }

func (e *FieldElement) check(b *FieldElement) {
	if e.field != b.field && !e.field.Equal(b.field) {
		panic(ErrFieldMismatch)
	}
}

func (e *FieldElement) Add(b *FieldElement) *FieldElement {
	e.check(b)
	z := new(big.Int).Add(e.x, b.x)
	if z.Cmp(e.field.p) >= 0 {
		z.Sub(z, e.field.p)
	}
	return e.field.element(z)
}

func (e *FieldElement) AddOne() *FieldElement {
	z := new(big.Int).Add(e.x, bigOne)
	if z.Cmp(e.field.p) == 0 {
		z.SetInt64(0)
	}
	return e.field.element(z)
}

func (e *FieldElement) Subtract(b *FieldElement) *FieldElement {
	e.check(b)
	z := new(big.Int).Sub(e.x, b.x)
	if z.Sign() < 0 {
		z.Add(z, e.field.p)
	}
	return e.field.element(z)
}

func (e *FieldElement) Multiply(b *FieldElement) *FieldElement {
	e.check(b)
	return e.field.reduce(new(big.Int).Mul(e.x, b.x))
}

// multiplyMinusProduct returns e·b - x·y.
func (e *FieldElement) multiplyMinusProduct(b, x, y *FieldElement) *FieldElement {
	e.check(b)
	x.check(y)
	ab := new(big.Int).Mul(e.x, b.x)
	return e.field.reduce(ab.Sub(ab, new(big.Int).Mul(x.x, y.x)))
}

func (e *FieldElement) Square() *FieldElement {
	return e.field.reduce(new(big.Int).Mul(e.x, e.x))
}

func (e *FieldElement) Negate() *FieldElement {
	if e.IsZero() {
		return e
	}
	return e.field.element(new(big.Int).Sub(e.field.p, e.x))
}

// Invert returns the multiplicative inverse of e.
func (e *FieldElement) Invert() (*FieldElement, error) {
	if e.IsZero() {
		return nil, ErrZeroInverse
	}
	z, err := nat.InvertBig(e.field.p, e.x)
	if err != nil {
		return nil, errors.WrapPrefix(err, "field inversion", 0)
	}
	return e.field.element(z), nil
}

// inverse is Invert for callers that have excluded zero.
func (e *FieldElement) inverse() *FieldElement {
	z, err := e.Invert()
	if err != nil {
		panic(err)
	}
	return z
}

// Divide returns e·b⁻¹.
func (e *FieldElement) Divide(b *FieldElement) (*FieldElement, error) {
	e.check(b)
	inv, err := b.Invert()
	if err != nil {
		return nil, err
	}
	return e.Multiply(inv), nil
}

func (e *FieldElement) divide(b *FieldElement) *FieldElement {
	return e.Multiply(b.inverse())
}

// Equal reports whether e and b are the same value of the same field.
func (e *FieldElement) Equal(b *FieldElement) bool {
	if e == b {
		return true
	}
	if e == nil || b == nil {
		return false
	}
	return e.field.Equal(b.field) && e.x.Cmp(b.x) == 0
}

// FixedBytes returns the big-endian encoding of e left-padded to n bytes.
func (e *FieldElement) FixedBytes(n int) ([]byte, error) {
	bts, err := e.x.FixedBytes(n)
	if err != nil {
		return nil, errors.WrapPrefix(ErrEncodingTooLong, fmt.Sprintf("%d bytes", n), 0)
	}
	return bts, nil
}

// Bytes returns the encoding of e in ByteLen bytes.
func (e *FieldElement) Bytes() []byte {
	return e.x.Go().FillBytes(make([]byte, e.field.byteLen))
}

func (e *FieldElement) String() string {
	return e.x.Text(16)
}

func (e *FieldElement) two() *FieldElement   { return e.Add(e) }
func (e *FieldElement) three() *FieldElement { return e.two().Add(e) }
func (e *FieldElement) four() *FieldElement  { return e.two().two() }
func (e *FieldElement) eight() *FieldElement { return e.four().two() }
