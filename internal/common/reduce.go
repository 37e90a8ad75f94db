package common

import (
	"math"

	"github.com/privacybydesign/uprove/big"
)

// Modular reduction for a fixed odd modulus p of bit length L. Three strategies:
//
//   - r > 0: p = 2^L - r with the top 64 bits of p set; the high part is folded
//     back in as (x >> L)·r + (x mod 2^L).
//   - r < 0: L is a multiple of 8 and r = -floor(2^2L / p); a Barrett quotient
//     estimate replaces the division.
//   - r == nil: plain remainder.

// Residue returns the fast reduction constant for p, or nil when neither fast
// strategy applies.
func Residue(p *big.Int) *big.Int {
	bitLength := p.BitLen()
	if bitLength < 96 {
		return nil
	}
	firstWord := new(big.Int).Rsh(p, uint(bitLength-64))
	if firstWord.IsUint64() && firstWord.Uint64() == math.MaxUint64 {
		return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bitLength)), p)
	}
	if bitLength%8 == 0 {
		r := new(big.Int).Lsh(big.NewInt(1), uint(bitLength<<1))
		r.Quo(r, p)
		return r.Neg(r)
	}
	return nil
}

// Reducer reduces integers modulo p using one of the strategies above.
// It is read-only after construction and may be shared.
type Reducer struct {
	p    big.Int
	r    *big.Int
	bits uint
	mask big.Int // (1 << bits) - 1

	// Barrett only
	mu        big.Int // -r
	d         uint
	blockMask big.Int // (1 << (bits + d)) - 1
}

// NewReducer creates a reducer for p, computing its residue.
func NewReducer(p *big.Int) *Reducer {
	return NewReducerWithResidue(p, Residue(p))
}

// NewReducerWithResidue creates a reducer for p with a precomputed residue r
// (see Residue); a nil r selects the plain remainder.
func NewReducerWithResidue(p, r *big.Int) *Reducer {
	m := &Reducer{bits: uint(p.BitLen())}
	m.p.Set(p)
	one := big.NewInt(1)
	m.mask.Sub(new(big.Int).Lsh(one, m.bits), one)
	if r != nil {
		m.r = new(big.Int).Set(r)
		if r.Sign() < 0 {
			m.mu.Neg(r)
			m.d = ((m.bits - 1) & 31) + 1
			m.blockMask.Sub(new(big.Int).Lsh(one, m.bits+m.d), one)
		}
	}
	return m
}

func (m *Reducer) Modulus() *big.Int {
	return new(big.Int).Set(&m.p)
}

// Residue returns a copy of the reduction constant, nil if there is none.
func (m *Reducer) Residue() *big.Int {
	if m.r == nil {
		return nil
	}
	return new(big.Int).Set(m.r)
}

// Mod sets ret to x mod p, in [0, p), and returns ret. ret and x may alias.
func (m *Reducer) Mod(ret, x *big.Int) *big.Int {
	if m.r == nil || (m.r.Sign() < 0 && uint(x.BitLen()) > m.bits<<1) {
		return ret.Mod(x, &m.p)
	}

	negative := x.Sign() < 0
	cur := new(big.Int).Abs(x)

	if m.r.Sign() > 0 {
		m.fold(cur)
	} else {
		m.barrett(cur)
	}

	for cur.Cmp(&m.p) >= 0 {
		cur.Sub(cur, &m.p)
	}
	if negative && cur.Sign() != 0 {
		cur.Sub(&m.p, cur)
	}
	return ret.Set(cur)
}

func (m *Reducer) fold(x *big.Int) {
	var u, v big.Int
	isOne := m.r.IsInt64() && m.r.Int64() == 1
	for uint(x.BitLen()) > m.bits+1 {
		u.Rsh(x, m.bits)
		v.And(x, &m.mask)
		if !isOne {
			u.Mul(&u, m.r)
		}
		x.Add(&u, &v)
	}
}

func (m *Reducer) barrett(x *big.Int) {
	var u, v big.Int
	u.Rsh(x, m.bits-m.d)
	u.Mul(&u, &m.mu)
	u.Rsh(&u, m.bits+m.d)
	v.Mul(&u, &m.p)
	v.And(&v, &m.blockMask)
	x.And(x, &m.blockMask)
	x.Sub(x, &v)
	if x.Sign() < 0 {
		x.Add(x, &m.blockMask)
		x.Add(x, big.NewInt(1))
	}
}
