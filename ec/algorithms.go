package ec

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
)

// ShamirsTrick returns k·p + l·q using the joint sparse form of k and l, which
// needs a single shared chain of doublings. q is imported into p's curve.
func ShamirsTrick(p *Point, k *big.Int, q *Point, l *big.Int) (*Point, error) {
	q, err := p.curve.ImportPoint(q)
	if err != nil {
		return nil, err
	}
	return shamirsTrickJsf(p, k, q, l), nil
}

// ShamirsTrickWNaf returns k·p + l·q by interleaving the windowed NAFs of k
// and l. q is imported into p's curve.
func ShamirsTrickWNaf(p *Point, k *big.Int, q *Point, l *big.Int) (*Point, error) {
	q, err := p.curve.ImportPoint(q)
	if err != nil {
		return nil, err
	}
	return sumOfMultipliesWNaf([]*Point{p, q}, []*big.Int{k, l}), nil
}

// SumOfTwoMultiplies returns k·p + l·q using the algorithm selected by the
// ShamirStrategy of p's curve.
func SumOfTwoMultiplies(p *Point, k *big.Int, q *Point, l *big.Int) (*Point, error) {
	q, err := p.curve.ImportPoint(q)
	if err != nil {
		return nil, err
	}
	return sumOfTwoMultiplies(p, k, q, l), nil
}

func sumOfTwoMultiplies(p *Point, k *big.Int, q *Point, l *big.Int) *Point {
	switch p.curve.config.ShamirStrategy {
	case ShamirJSF:
		return shamirsTrickJsf(p, k, q, l)
	case ShamirWNaf:
		return sumOfMultipliesWNaf([]*Point{p, q}, []*big.Int{k, l})
	}
	short := DefaultWindowSizeCutoffs[0]
	if k.BitLen() < short || l.BitLen() < short {
		return shamirsTrickJsf(p, k, q, l)
	}
	return sumOfMultipliesWNaf([]*Point{p, q}, []*big.Int{k, l})
}

// SumOfMultiplies returns Σ ks[i]·ps[i]. All points are imported into the curve
// of ps[0] before any arithmetic takes place.
func SumOfMultiplies(ps []*Point, ks []*big.Int) (*Point, error) {
	if len(ps) == 0 || len(ps) != len(ks) {
		return nil, ErrInvalidArguments
	}
	for i := range ps {
		if ps[i] == nil || ks[i] == nil {
			return nil, errors.WrapPrefix(ErrInvalidArguments, fmt.Sprintf("nil entry %d", i), 0)
		}
	}

	c := ps[0].curve
	imported := make([]*Point, len(ps))
	for i, p := range ps {
		q, err := c.ImportPoint(p)
		if err != nil {
			return nil, errors.WrapPrefix(err, fmt.Sprintf("point %d", i), 0)
		}
		imported[i] = q
	}

	switch len(imported) {
	case 1:
		return imported[0].Multiply(ks[0]), nil
	case 2:
		return sumOfTwoMultiplies(imported[0], ks[0], imported[1], ks[1]), nil
	}
	return sumOfMultipliesWNaf(imported, ks), nil
}

func shamirsTrickJsf(p *Point, k *big.Int, q *Point, l *big.Int) *Point {
	if k.Sign() < 0 {
		p, k = p.Negate(), new(big.Int).Neg(k)
	}
	if l.Sign() < 0 {
		q, l = q.Negate(), new(big.Int).Neg(l)
	}

	c := p.curve
	points := []*Point{q, p.Subtract(q), p, p.Add(q)}
	if err := c.NormalizeAll(points); err != nil {
		panic(err)
	}

	// indexed by 4 + 3·kDigit + lDigit
	table := [9]*Point{
		points[3].Negate(), points[2].Negate(), points[1].Negate(), points[0].Negate(),
		c.infinity,
		points[0], points[1], points[2], points[3],
	}

	jsf := GenerateJsf(k, l)
	r := c.infinity
	for i := len(jsf) - 1; i >= 0; i-- {
		d := jsf[i]
		r = r.TwicePlus(table[4+3*d.K+d.L])
	}
	return r
}

// sumOfMultipliesWNaf evaluates Σ ks[i]·ps[i] with one shared chain of
// doublings over the windowed NAFs of all scalars. All points belong to the
// same curve.
func sumOfMultipliesWNaf(ps []*Point, ks []*big.Int) *Point {
	n := len(ps)
	c := ps[0].curve

	type operand struct {
		preComp, preCompNeg []*Point
		naf                 []int
	}
	ops := make([]operand, n)
	length := 0
	for i, p := range ps {
		k := new(big.Int).Abs(ks[i])
		info := precompute(p, windowSize(k.BitLen(), DefaultWindowSizeCutoffs, maxShamirWidth))
		width := min(maxShamirWidth, info.Width)

		op := operand{preComp: info.PreComp, preCompNeg: info.PreCompNeg}
		if ks[i].Sign() < 0 {
			op.preComp, op.preCompNeg = op.preCompNeg, op.preComp
		}
		op.naf = GenerateWindowNaf(width, k)
		ops[i] = op
		length = max(length, len(op.naf))
	}

	r := c.infinity
	zeroes := 0
	for i := length - 1; i >= 0; i-- {
		s := c.infinity
		for _, op := range ops {
			if i >= len(op.naf) || op.naf[i] == 0 {
				continue
			}
			wi := op.naf[i]
			table := op.preComp
			if wi < 0 {
				table = op.preCompNeg
			}
			s = s.Add(table[abs(wi)>>1])
		}

		if s.IsInfinity() {
			zeroes++
			continue
		}
		if zeroes > 0 {
			r = r.TimesPow2(zeroes)
			zeroes = 0
		}
		r = r.TwicePlus(s)
	}
	if zeroes > 0 {
		r = r.TimesPow2(zeroes)
	}
	return r
}
