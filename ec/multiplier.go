package ec

import (
	"math/bits"

	"github.com/privacybydesign/uprove/big"
)

// Multiplier computes scalar multiples of points. Implementations return the
// curve's point at infinity for a zero scalar or the point at infinity, and
// -(|k|·p) for negative k.
type Multiplier interface {
	Multiply(p *Point, k *big.Int) *Point
}

type positiveMultiplier interface {
	multiplyPositive(p *Point, k *big.Int) *Point
}

func multiply(m positiveMultiplier, p *Point, k *big.Int) *Point {
	sign := k.Sign()
	if sign == 0 || p.IsInfinity() {
		return p.curve.infinity
	}
	r := m.multiplyPositive(p, new(big.Int).Abs(k))
	if sign < 0 {
		return r.Negate()
	}
	return r
}

// WNafL2RMultiplier multiplies using the compact windowed NAF of the scalar,
// processed from the most significant digit down. Tables of odd multiples are
// kept in the curve's PrecompCache, so repeated multiplications of the same
// point only pay for the table once.
type WNafL2RMultiplier struct {
	cutoffs []int
}

// NewWNafL2RMultiplier returns a multiplier using DefaultWindowSizeCutoffs.
func NewWNafL2RMultiplier() *WNafL2RMultiplier {
	return &WNafL2RMultiplier{cutoffs: DefaultWindowSizeCutoffs}
}

// NewWNafL2RMultiplierWithCutoffs returns a multiplier choosing window widths
// from the given ascending bit length cutoffs.
func NewWNafL2RMultiplierWithCutoffs(cutoffs []int) *WNafL2RMultiplier {
	return &WNafL2RMultiplier{cutoffs: append([]int(nil), cutoffs...)}
}

func (m *WNafL2RMultiplier) Multiply(p *Point, k *big.Int) *Point {
	return multiply(m, p, k)
}

func (m *WNafL2RMultiplier) multiplyPositive(p *Point, k *big.Int) *Point {
	minWidth := windowSize(k.BitLen(), m.cutoffs, maxWindowWidth)
	info := precompute(p, minWidth)
	width := info.Width
	preComp, preCompNeg := info.PreComp, info.PreCompNeg

	naf := GenerateCompactWindowNaf(width, k)
	r := p.curve.infinity

	i := len(naf)
	if i > 1 {
		i--
		d := naf[i]
		n, table := abs(d.Digit), preComp
		if d.Digit < 0 {
			table = preCompNeg
		}
		zeroes := d.Zeroes

		// Fold a small leading digit into the first window: n·2^scale is
		// written as the sum of two table entries.
		if n<<2 < 1<<width {
			highest := bits.Len(uint(n))
			scale := width - highest
			lowBits := n ^ (1 << (highest - 1))

			i1 := 1<<(width-1) - 1
			i2 := lowBits<<scale + 1
			r = table[i1>>1].Add(table[i2>>1])
			zeroes -= scale
		} else {
			r = table[n>>1]
		}
		r = r.TimesPow2(zeroes)
	}

	for i > 0 {
		i--
		d := naf[i]
		table := preComp
		if d.Digit < 0 {
			table = preCompNeg
		}
		r = r.TwicePlus(table[abs(d.Digit)>>1])
		r = r.TimesPow2(d.Zeroes)
	}
	return r
}

// DoubleAddMultiplier is the textbook left-to-right double-and-add method.
type DoubleAddMultiplier struct{}

func (m DoubleAddMultiplier) Multiply(p *Point, k *big.Int) *Point {
	return multiply(m, p, k)
}

func (DoubleAddMultiplier) multiplyPositive(p *Point, k *big.Int) *Point {
	r := p.curve.infinity
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = r.Twice()
		if k.Bit(i) == 1 {
			r = r.Add(p)
		}
	}
	return r
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
