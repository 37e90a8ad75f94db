package ec

import (
	"fmt"

	"github.com/privacybydesign/uprove/big"
)

// Point is an immutable point of a Curve in the curve's coordinate system.
// The point at infinity has no coordinates.
type Point struct {
	curve *Curve
	x, y  *FieldElement
	zs    []*FieldElement
}

func (p *Point) Curve() *Curve { return p.curve }

func (p *Point) IsInfinity() bool { return p.x == nil }

// IsNormalized reports whether the raw coordinates of p are its affine
// coordinates.
func (p *Point) IsNormalized() bool {
	return p.IsInfinity() || p.curve.config.Coordinates == Affine || p.zs[0].IsOne()
}

// RawX returns the X coordinate in the curve's coordinate system.
func (p *Point) RawX() *FieldElement { return p.x }

// RawY returns the Y coordinate in the curve's coordinate system.
func (p *Point) RawY() *FieldElement { return p.y }

// Z returns the i-th projective coordinate, or nil.
func (p *Point) Z(i int) *FieldElement {
	if i < 0 || i >= len(p.zs) {
		return nil
	}
	return p.zs[i]
}

// Normalize returns p with affine raw coordinates (Z = 1).
func (p *Point) Normalize() *Point {
	if p.IsNormalized() {
		return p
	}
	return p.normalizeWith(p.zs[0].inverse())
}

// normalizeWith scales p given the inverse of its Z coordinate.
func (p *Point) normalizeWith(zInv *FieldElement) *Point {
	switch p.curve.config.Coordinates {
	case Homogeneous:
		return p.curve.createRawPoint(p.x.Multiply(zInv), p.y.Multiply(zInv))
	case Jacobian, JacobianModified:
		zInv2 := zInv.Square()
		zInv3 := zInv2.Multiply(zInv)
		return p.curve.createRawPoint(p.x.Multiply(zInv2), p.y.Multiply(zInv3))
	}
	return p
}

// AffineX returns the affine x coordinate, or nil for the point at infinity.
func (p *Point) AffineX() *FieldElement {
	return p.Normalize().x
}

// AffineY returns the affine y coordinate, or nil for the point at infinity.
func (p *Point) AffineY() *FieldElement {
	return p.Normalize().y
}

// Coordinates returns the affine coordinates of p as integers. Both are nil
// for the point at infinity.
func (p *Point) Coordinates() (x, y *big.Int) {
	if p.IsInfinity() {
		return nil, nil
	}
	n := p.Normalize()
	return n.x.BigInt(), n.y.BigInt()
}

// Equal reports whether p and q are the same point of equal curves.
func (p *Point) Equal(q *Point) bool {
	if p == q {
		return true
	}
	if q == nil || !p.curve.Equal(q.curve) {
		return false
	}
	if p.IsInfinity() || q.IsInfinity() {
		return p.IsInfinity() && q.IsInfinity()
	}

	imported, err := p.curve.ImportPoint(q)
	if err != nil {
		return false
	}
	points := []*Point{p, imported}
	if err = p.curve.NormalizeAll(points); err != nil {
		return false
	}
	return points[0].x.Equal(points[1].x) && points[0].y.Equal(points[1].y)
}

// IsValid reports whether p satisfies the curve equation.
func (p *Point) IsValid() bool {
	if p.IsInfinity() {
		return true
	}
	n := p.Normalize()
	lhs := n.y.Square()
	rhs := n.x.Square().Add(p.curve.a).Multiply(n.x).Add(p.curve.b)
	return lhs.Equal(rhs)
}

// Multiply returns k·p using the curve's multiplier.
func (p *Point) Multiply(k *big.Int) *Point {
	return p.curve.config.Multiplier.Multiply(p, k)
}

// detached returns a copy of p at a different address, for storage in tables
// that must not keep p itself reachable.
func (p *Point) detached() *Point {
	q := *p
	return &q
}

func (p *Point) checkCurve(q *Point) {
	if p.curve != q.curve {
		panic(ErrCurveMismatch)
	}
}

func (p *Point) String() string {
	if p.IsInfinity() {
		return "INF"
	}
	n := p.Normalize()
	return fmt.Sprintf("(%v,%v)", n.x, n.y)
}
