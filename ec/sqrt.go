package ec

import (
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/internal/common"
)

// Sqrt returns a square root of e. The second return value is false when e is
// a quadratic non-residue.
//
// For p ≡ 1 (mod 8) the root is found with a randomized Lucas sequence search
// (IEEE P1363 A.2.5), which is expected to finish after a couple of draws but
// has no bound on the number of attempts.
func (e *FieldElement) Sqrt() (*FieldElement, bool) {
	if e.IsZero() || e.IsOne() {
		return e, true
	}

	p := e.field.p
	switch {
	case p.Bit(1) == 1:
		// p ≡ 3 (mod 4): x^((p+1)/4)
		exp := new(big.Int).Rsh(p, 2)
		exp.Add(exp, bigOne)
		return e.checkRoot(new(big.Int).Exp(e.x, exp, p))

	case e.field.sqrtMinusOne != nil:
		// p ≡ 5 (mod 8): x^((p+3)/8), times sqrt(-1) if that squares to -x
		exp := new(big.Int).Rsh(p, 3)
		exp.Add(exp, bigOne)
		r := new(big.Int).Exp(e.x, exp, p)
		if root, ok := e.checkRoot(r); ok {
			return root, true
		}
		return e.checkRoot(r.Mul(r, e.field.sqrtMinusOne))

	default:
		return e.lucasSqrt()
	}
}

// checkRoot returns r as a field element if r² = e.
func (e *FieldElement) checkRoot(r *big.Int) (*FieldElement, bool) {
	root := e.field.reduce(r)
	if root.Square().Equal(e) {
		return root, true
	}
	return nil, false
}

func (e *FieldElement) lucasSqrt() (*FieldElement, bool) {
	f := e.field
	p := f.p

	legendreExponent := new(big.Int).Rsh(p, 1)
	if new(big.Int).Exp(e.x, legendreExponent, p).Cmp(bigOne) != 0 {
		return nil, false
	}

	x := e.x
	fourX := f.red.Mod(new(big.Int), new(big.Int).Lsh(x, 2))
	k := new(big.Int).Add(legendreExponent, bigOne)
	pMinusOne := new(big.Int).Sub(p, bigOne)

	for draws := 1; ; draws++ {
		// P is chosen such that P² - 4x is a quadratic non-residue
		P := common.SampleBelow(p)
		d := new(big.Int).Mul(P, P)
		d.Sub(d, fourX)
		f.red.Mod(d, d)
		if new(big.Int).Exp(d, legendreExponent, p).Cmp(pMinusOne) != 0 {
			continue
		}

		U, V := f.lucasSequence(P, x, k)

		if f.modMult(V, V).Cmp(fourX) == 0 {
			// V/2 mod p
			if V.Bit(0) == 1 {
				V.Add(V, p)
			}
			V.Rsh(V, 1)
			return f.element(V), true
		}

		if U.Cmp(bigOne) != 0 && U.Cmp(pMinusOne) != 0 {
			return nil, false
		}
		Logger.Tracef("sqrt: Lucas sequence degenerate after %d draws, retrying", draws)
	}
}

func (f *PrimeField) modMult(x, y *big.Int) *big.Int {
	z := new(big.Int).Mul(x, y)
	return f.red.Mod(z, z)
}

// modMultMinus returns a·b - c·d mod p.
func (f *PrimeField) modMultMinus(a, b, c, d *big.Int) *big.Int {
	z := new(big.Int).Mul(a, b)
	z.Sub(z, new(big.Int).Mul(c, d))
	return f.red.Mod(z, z)
}

// modSquareMinusTwice returns a² - 2c mod p.
func (f *PrimeField) modSquareMinusTwice(a, c *big.Int) *big.Int {
	z := new(big.Int).Mul(a, a)
	z.Sub(z, new(big.Int).Lsh(c, 1))
	return f.red.Mod(z, z)
}

// lucasSequence returns (U_k, V_k) of the Lucas sequences with parameters P
// and Q modulo p.
func (f *PrimeField) lucasSequence(P, Q, k *big.Int) (*big.Int, *big.Int) {
	n := k.BitLen()
	s := int(k.TrailingZeroBits())

	Uh := big.NewInt(1)
	Vl := big.NewInt(2)
	Vh := new(big.Int).Set(P)
	Ql := big.NewInt(1)
	Qh := big.NewInt(1)

	for j := n - 1; j >= s+1; j-- {
		Ql = f.modMult(Ql, Qh)

		if k.Bit(j) == 1 {
			Qh = f.modMult(Ql, Q)
			Uh = f.modMult(Uh, Vh)
			Vl = f.modMultMinus(Vh, Vl, P, Ql)
			Vh = f.modSquareMinusTwice(Vh, Qh)
		} else {
			Qh = Ql
			Uh = f.modMultMinus(Uh, Vl, bigOne, Ql)
			Vh = f.modMultMinus(Vh, Vl, P, Ql)
			Vl = f.modSquareMinusTwice(Vl, Ql)
		}
	}

	Ql = f.modMult(Ql, Qh)
	Qh = f.modMult(Ql, Q)
	Uh = f.modMultMinus(Uh, Vl, bigOne, Ql)
	Vl = f.modMultMinus(Vh, Vl, P, Ql)
	Ql = f.modMult(Ql, Qh)

	for j := 1; j <= s; j++ {
		Uh = f.modMult(Uh, Vl)
		Vl = f.modSquareMinusTwice(Vl, Ql)
		Ql = f.modMult(Ql, Ql)
	}

	return Uh, Vl
}
