package ec

import (
	"fmt"

	"github.com/privacybydesign/uprove/big"
)

// DefaultWindowSizeCutoffs are the scalar bit lengths from which the next wNAF
// window width pays off: scalars shorter than DefaultWindowSizeCutoffs[i] use
// width i+2.
var DefaultWindowSizeCutoffs = []int{13, 41, 121, 337, 897, 2305}

const (
	minWindowWidth = 2
	maxWindowWidth = 16

	// widest tables used by the multi-scalar algorithms
	maxShamirWidth = 8
)

// WindowSize returns the wNAF width for scalars of the given bit length using
// DefaultWindowSizeCutoffs.
func WindowSize(bits int) int {
	return windowSize(bits, DefaultWindowSizeCutoffs, maxWindowWidth)
}

func windowSize(bits int, cutoffs []int, maxWidth int) int {
	w := 0
	for ; w < len(cutoffs); w++ {
		if bits < cutoffs[w] {
			break
		}
	}
	return max(minWindowWidth, min(maxWidth, w+2))
}

// WNafDigit is a nonzero digit of a compact windowed NAF, preceded (towards
// the less significant end) by Zeroes zero digits.
type WNafDigit struct {
	Digit  int
	Zeroes int
}

// JsfDigit is one column of a joint sparse form; both digits are in {-1, 0, 1}.
type JsfDigit struct {
	K, L int
}

func lowWord(k *big.Int) uint {
	ws := k.Bits()
	if len(ws) == 0 {
		return 0
	}
	return uint(ws[0])
}

func checkWidth(width int) {
	if width < minWindowWidth || width > maxWindowWidth {
		panic(fmt.Sprintf("window width %d out of range [%d, %d]", width, minWindowWidth, maxWindowWidth))
	}
}

// GenerateCompactWindowNaf returns the nonzero digits of the width-w NAF of
// k >= 0, least significant first. For the first digit Zeroes is its bit
// position; for later digits it is the number of zero digits between it and
// its predecessor, minus one.
func GenerateCompactWindowNaf(width int, k *big.Int) []WNafDigit {
	checkWidth(width)
	if k.Sign() == 0 {
		return nil
	}
	if width == 2 {
		return generateCompactNaf(k)
	}

	pow2 := 1 << width
	mask, sign := pow2-1, pow2>>1

	var naf []WNafDigit
	carry := false
	for pos := 0; pos <= k.BitLen(); {
		if (k.Bit(pos) == 1) == carry {
			pos++
			continue
		}

		k = new(big.Int).Rsh(k, uint(pos))
		digit := int(lowWord(k)) & mask
		if carry {
			digit++
		}
		carry = digit&sign != 0
		if carry {
			digit -= pow2
		}

		zeroes := pos
		if len(naf) > 0 {
			zeroes--
		}
		naf = append(naf, WNafDigit{Digit: digit, Zeroes: zeroes})
		pos = width
	}
	return naf
}

// generateCompactNaf computes the width-2 NAF from the bits of 3k XOR k.
func generateCompactNaf(k *big.Int) []WNafDigit {
	threeK := new(big.Int).Add(new(big.Int).Lsh(k, 1), k)
	highBit := threeK.BitLen() - 1
	diff := new(big.Int).Xor(threeK, k)

	var naf []WNafDigit
	zeroes := 0
	for i := 1; i < highBit; i++ {
		if diff.Bit(i) == 0 {
			zeroes++
			continue
		}
		digit := 1
		if k.Bit(i) == 1 {
			digit = -1
		}
		naf = append(naf, WNafDigit{Digit: digit, Zeroes: zeroes})
		zeroes = 1
		i++
	}
	return append(naf, WNafDigit{Digit: 1, Zeroes: zeroes})
}

// GenerateWindowNaf returns the width-w NAF of k >= 0 with one digit per bit
// position, least significant first. Every nonzero digit is odd, below
// 2^(w-1) in absolute value, and followed by at least w-1 zeros.
func GenerateWindowNaf(width int, k *big.Int) []int {
	checkWidth(width)
	if k.Sign() == 0 {
		return nil
	}
	if width == 2 {
		return generateNaf(k)
	}

	pow2 := 1 << width
	mask, sign := pow2-1, pow2>>1

	naf := make([]int, k.BitLen()+1)
	length := 0
	carry := false
	for pos := 0; pos <= k.BitLen(); {
		if (k.Bit(pos) == 1) == carry {
			pos++
			continue
		}

		k = new(big.Int).Rsh(k, uint(pos))
		digit := int(lowWord(k)) & mask
		if carry {
			digit++
		}
		carry = digit&sign != 0
		if carry {
			digit -= pow2
		}

		if length > 0 {
			length += pos - 1
		} else {
			length += pos
		}
		naf[length] = digit
		length++
		pos = width
	}
	return naf[:length]
}

func generateNaf(k *big.Int) []int {
	threeK := new(big.Int).Add(new(big.Int).Lsh(k, 1), k)
	digits := threeK.BitLen() - 1
	diff := new(big.Int).Xor(threeK, k)

	naf := make([]int, digits)
	for i := 1; i < digits; i++ {
		if diff.Bit(i) == 1 {
			naf[i-1] = 1
			if k.Bit(i) == 1 {
				naf[i-1] = -1
			}
			i++
		}
	}
	naf[digits-1] = 1
	return naf
}

// GenerateJsf returns the joint sparse form of k, l >= 0, least significant
// column first. Of any three consecutive columns at least one is zero, and
// adjacent digits of a row never have opposite signs.
func GenerateJsf(k, l *big.Int) []JsfDigit {
	jsf := make([]JsfDigit, 0, max(k.BitLen(), l.BitLen())+1)

	d0, d1 := 0, 0
	offset := 0
	for d0|d1 != 0 || k.BitLen() > offset || l.BitLen() > offset {
		n0 := (int(lowWord(k)>>offset) + d0) & 7
		n1 := (int(lowWord(l)>>offset) + d1) & 7

		u0 := n0 & 1
		if u0 != 0 {
			u0 -= n0 & 2
			if (n0 == 3 || n0 == 5) && n1&3 == 2 {
				u0 = -u0
			}
		}
		u1 := n1 & 1
		if u1 != 0 {
			u1 -= n1 & 2
			if (n1 == 3 || n1 == 5) && n0&3 == 2 {
				u1 = -u1
			}
		}

		if d0<<1 == 1+u0 {
			d0 ^= 1
		}
		if d1<<1 == 1+u1 {
			d1 ^= 1
		}

		offset++
		if offset == 30 {
			offset = 0
			k = new(big.Int).Rsh(k, 30)
			l = new(big.Int).Rsh(l, 30)
		}
		jsf = append(jsf, JsfDigit{K: u0, L: u1})
	}
	return jsf
}

// precompute returns a wNAF table of p of width at least minWidth, building
// and caching it on first use.
func precompute(p *Point, minWidth int) *WNafPrecompInfo {
	width := max(minWindowWidth, min(maxWindowWidth, minWidth))
	info := p.curve.precomp.Compute(p, PrecompWNaf, func(existing PrecompInfo) PrecompInfo {
		if e, ok := existing.(*WNafPrecompInfo); ok && e.Width >= width {
			return e
		}
		return buildWNafTable(p, width)
	})
	return info.(*WNafPrecompInfo)
}

func buildWNafTable(p *Point, width int) *WNafPrecompInfo {
	n := 1 << (width - 2)
	table := make([]*Point, n)

	base := p.Normalize()
	if base == p {
		base = p.detached()
	}
	table[0] = base

	var twice *Point
	switch {
	case n == 2:
		table[1] = base.ThreeTimes()
	case n > 2:
		twice = base.Twice()
		cur := base
		for i := 1; i < n; i++ {
			cur = cur.Add(twice)
			table[i] = cur
		}
	}
	if err := p.curve.NormalizeAll(table); err != nil {
		panic(err)
	}

	neg := make([]*Point, n)
	for i, q := range table {
		neg[i] = q.Negate()
	}

	Logger.WithField("width", width).Trace("built wNAF precomputation table")
	return &WNafPrecompInfo{Width: width, PreComp: table, PreCompNeg: neg, Twice: twice}
}
