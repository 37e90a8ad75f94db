package ec

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
)

// Point encodings (SEC 1, 2.3.3): B = ByteLen of the field.
//
//	0x00                 the point at infinity
//	0x02 | parity(y), X  compressed, 1+B bytes
//	0x04, X, Y           uncompressed, 1+2B bytes
//	0x06 | parity(y), X, Y  hybrid, 1+2B bytes
const (
	prefixInfinity     = 0x00
	prefixCompressed   = 0x02
	prefixUncompressed = 0x04
	prefixHybrid       = 0x06
)

// Encode returns the compressed or uncompressed encoding of p.
func (p *Point) Encode(compressed bool) []byte {
	if p.IsInfinity() {
		return []byte{prefixInfinity}
	}

	n := p.Normalize()
	x := n.x.Bytes()
	if compressed {
		out := make([]byte, 1, 1+len(x))
		out[0] = prefixCompressed
		if n.y.TestBitZero() {
			out[0] |= 1
		}
		return append(out, x...)
	}

	out := make([]byte, 1, 1+2*len(x))
	out[0] = prefixUncompressed
	out = append(out, x...)
	return append(out, n.y.Bytes()...)
}

// DecodePoint parses any of the encodings produced by Encode, as well as the
// hybrid encoding.
func (c *Curve) DecodePoint(encoded []byte) (*Point, error) {
	if len(encoded) == 0 {
		return nil, errors.WrapPrefix(ErrInvalidEncoding, "empty encoding", 0)
	}

	expectedLength := c.field.byteLen
	switch encoded[0] {
	case prefixInfinity:
		if len(encoded) != 1 {
			return nil, errors.WrapPrefix(ErrInvalidEncoding, "incorrect length for infinity encoding", 0)
		}
		return c.infinity, nil

	case prefixCompressed, prefixCompressed | 1:
		if len(encoded) != expectedLength+1 {
			return nil, errors.WrapPrefix(ErrInvalidEncoding, "incorrect length for compressed encoding", 0)
		}
		yTilde := encoded[0]&1 == 1
		x := new(big.Int).SetBytes(encoded[1:])
		return c.decompressPoint(yTilde, x)

	case prefixUncompressed, prefixHybrid, prefixHybrid | 1:
		if len(encoded) != 2*expectedLength+1 {
			return nil, errors.WrapPrefix(ErrInvalidEncoding, "incorrect length for uncompressed/hybrid encoding", 0)
		}
		x := new(big.Int).SetBytes(encoded[1 : 1+expectedLength])
		y := new(big.Int).SetBytes(encoded[1+expectedLength:])
		p, err := c.CreatePoint(x, y)
		if err != nil {
			return nil, errors.WrapPrefix(ErrInvalidEncoding, err.Error(), 0)
		}
		if encoded[0] != prefixUncompressed && (encoded[0]&1 == 1) != p.y.TestBitZero() {
			return nil, errors.WrapPrefix(ErrInvalidEncoding, "inconsistent hybrid point encoding", 0)
		}
		return p, nil
	}

	return nil, errors.WrapPrefix(ErrInvalidEncoding, fmt.Sprintf("invalid point encoding 0x%02x", encoded[0]), 0)
}

// decompressPoint recovers y from x and its parity.
func (c *Curve) decompressPoint(yTilde bool, x1 *big.Int) (*Point, error) {
	x, err := c.field.Element(x1)
	if err != nil {
		return nil, errors.WrapPrefix(ErrInvalidEncoding, err.Error(), 0)
	}

	alpha := x.Square().Add(c.a).Multiply(x).Add(c.b)
	beta, ok := alpha.Sqrt()
	if !ok {
		return nil, ErrInvalidPointCompression
	}
	if beta.TestBitZero() != yTilde {
		beta = beta.Negate()
	}
	return c.createRawPoint(x, beta), nil
}
