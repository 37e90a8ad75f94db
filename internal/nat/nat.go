// Package nat implements arithmetic on fixed-width unsigned integers stored as
// little-endian slices of 32-bit words. All binary operations expect operands
// of equal length; shorter views are expressed by slicing.
package nat

import (
	"encoding/binary"
	"math/bits"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
)

// ErrInvalidInput is returned for values that cannot be represented or inverted.
var ErrInvalidInput = errors.New("invalid input for fixed-width arithmetic")

// Create returns a zero value of n words.
func Create(n int) []uint32 {
	return make([]uint32, n)
}

func Copy(x []uint32) []uint32 {
	z := make([]uint32, len(x))
	copy(z, x)
	return z
}

func IsZero(x []uint32) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

func IsOne(x []uint32) bool {
	if len(x) == 0 || x[0] != 1 {
		return false
	}
	return IsZero(x[1:])
}

// Gte reports whether x >= y.
func Gte(x, y []uint32) bool {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			return x[i] > y[i]
		}
	}
	return true
}

// Add sets z = x + y and returns the carry (0 or 1).
func Add(x, y, z []uint32) uint32 {
	var c uint32
	for i := range x {
		z[i], c = bits.Add32(x[i], y[i], c)
	}
	return c
}

// Sub sets z = x - y and returns the borrow as 0 or -1.
func Sub(x, y, z []uint32) int {
	var b uint32
	for i := range x {
		z[i], b = bits.Sub32(x[i], y[i], b)
	}
	return -int(b)
}

// ShiftDownWord shifts z down by one word, shifting c in at the top, and
// returns the word shifted out.
func ShiftDownWord(z []uint32, c uint32) uint32 {
	for i := len(z) - 1; i >= 0; i-- {
		next := z[i]
		z[i] = c
		c = next
	}
	return c
}

// ShiftDownBits shifts z down by 0 < n < 32 bits, shifting in the low n bits of
// c at the top, and returns the bits shifted out in the high part of the result.
func ShiftDownBits(z []uint32, n uint, c uint32) uint32 {
	for i := len(z) - 1; i >= 0; i-- {
		next := z[i]
		z[i] = next>>n | c<<(32-n)
		c = next
	}
	return c << (32 - n)
}

// ShiftDownBit shifts z down by one bit, shifting in the low bit of c.
func ShiftDownBit(z []uint32, c uint32) uint32 {
	for i := len(z) - 1; i >= 0; i-- {
		next := z[i]
		z[i] = next>>1 | c<<31
		c = next
	}
	return c << 31
}

// FromBig converts a non-negative x into n words.
func FromBig(n int, x *big.Int) ([]uint32, error) {
	if x.Sign() < 0 || x.BitLen() > 32*n {
		return nil, errors.WrapPrefix(ErrInvalidInput, "value does not fit", 0)
	}
	buf, err := x.FixedBytes(4 * n)
	if err != nil {
		return nil, err
	}
	z := Create(n)
	for i := range z {
		z[i] = binary.BigEndian.Uint32(buf[len(buf)-4*(i+1):])
	}
	return z, nil
}

// ToBig converts x into a big.Int.
func ToBig(x []uint32) *big.Int {
	buf := make([]byte, 4*len(x))
	for i, w := range x {
		binary.BigEndian.PutUint32(buf[len(buf)-4*(i+1):], w)
	}
	return new(big.Int).SetBytes(buf)
}
