package ec

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
)

// Curve is the elliptic curve y² = x³ + ax + b over a prime field. All points
// of the curve use the coordinate system chosen at construction.
type Curve struct {
	field    *PrimeField
	a, b     *FieldElement
	order    *big.Int
	cofactor *big.Int
	config   Config

	infinity *Point
	precomp  *PrecompCache
}

// NewCurve returns the curve y² = x³ + ax + b over the integers modulo q using
// DefaultConfig. The order and cofactor may be nil when unknown.
func NewCurve(q, a, b, order, cofactor *big.Int) (*Curve, error) {
	return NewCurveWithConfig(q, a, b, order, cofactor, DefaultConfig())
}

// NewCurveWithConfig is NewCurve with an explicit configuration.
func NewCurveWithConfig(q, a, b, order, cofactor *big.Int, conf Config) (*Curve, error) {
	if !SupportsCoordinateSystem(conf.Coordinates) {
		return nil, errors.WrapPrefix(ErrUnsupportedCoordinates, conf.Coordinates.String(), 0)
	}
	field, err := NewPrimeField(q)
	if err != nil {
		return nil, err
	}
	fa, err := field.Element(a)
	if err != nil {
		return nil, errors.WrapPrefix(err, "coefficient a", 0)
	}
	fb, err := field.Element(b)
	if err != nil {
		return nil, errors.WrapPrefix(err, "coefficient b", 0)
	}
	if conf.Multiplier == nil {
		conf.Multiplier = NewWNafL2RMultiplier()
	}

	c := &Curve{
		field:   field,
		a:       fa,
		b:       fb,
		config:  conf,
		precomp: NewPrecompCache(),
	}
	if order != nil {
		c.order = new(big.Int).Set(order)
	}
	if cofactor != nil {
		c.cofactor = new(big.Int).Set(cofactor)
	}
	c.infinity = &Point{curve: c}
	return c, nil
}

// SupportsCoordinateSystem reports whether prime curves can use coordinates c.
func SupportsCoordinateSystem(c CoordinateSystem) bool {
	switch c {
	case Affine, Homogeneous, Jacobian, JacobianModified:
		return true
	}
	return false
}

func (c *Curve) SupportsCoordinateSystem(cs CoordinateSystem) bool {
	return SupportsCoordinateSystem(cs)
}

func (c *Curve) Field() *PrimeField                 { return c.field }
func (c *Curve) A() *FieldElement                   { return c.a }
func (c *Curve) B() *FieldElement                   { return c.b }
func (c *Curve) CoordinateSystem() CoordinateSystem { return c.config.Coordinates }
func (c *Curve) Config() Config                     { return c.config }
func (c *Curve) Multiplier() Multiplier             { return c.config.Multiplier }
func (c *Curve) Precomp() *PrecompCache             { return c.precomp }

// FieldSize returns the bit length of the field modulus.
func (c *Curve) FieldSize() int { return c.field.BitLen() }

// Infinity returns the point at infinity, which is unique per curve.
func (c *Curve) Infinity() *Point { return c.infinity }

// Order returns the order of the group generated by the base point, or nil.
func (c *Curve) Order() *big.Int {
	if c.order == nil {
		return nil
	}
	return new(big.Int).Set(c.order)
}

// Cofactor returns the cofactor of the curve, or nil.
func (c *Curve) Cofactor() *big.Int {
	if c.cofactor == nil {
		return nil
	}
	return new(big.Int).Set(c.cofactor)
}

// Equal reports whether both curves have the same field and coefficients.
// Order, cofactor and coordinate system are not compared.
func (c *Curve) Equal(o *Curve) bool {
	if c == o {
		return true
	}
	return o != nil && c.field.Equal(o.field) && c.a.Equal(o.a) && c.b.Equal(o.b)
}

func (c *Curve) FromBigInt(x *big.Int) (*FieldElement, error) {
	return c.field.Element(x)
}

// CreatePoint returns the affine point (x, y). Only field membership is
// checked; use Point.IsValid to validate the point.
func (c *Curve) CreatePoint(x, y *big.Int) (*Point, error) {
	fx, err := c.field.Element(x)
	if err != nil {
		return nil, errors.WrapPrefix(err, "x coordinate", 0)
	}
	fy, err := c.field.Element(y)
	if err != nil {
		return nil, errors.WrapPrefix(err, "y coordinate", 0)
	}
	return c.createRawPoint(fx, fy), nil
}

// createRawPoint creates a normalized point in the curve's coordinate system.
func (c *Curve) createRawPoint(x, y *FieldElement) *Point {
	var zs []*FieldElement
	switch c.config.Coordinates {
	case Homogeneous, Jacobian:
		zs = []*FieldElement{c.field.one}
	case JacobianModified:
		zs = []*FieldElement{c.field.one, c.a}
	}
	return &Point{curve: c, x: x, y: y, zs: zs}
}

// retag returns e as an element of this curve's field. The fields must be equal.
func (c *Curve) retag(e *FieldElement) *FieldElement {
	if e == nil || e.field == c.field {
		return e
	}
	return c.field.element(e.x)
}

// ImportPoint returns p as a point of c. The curves must be equal. Points in
// the same (Jacobian family of) coordinate systems keep their projective
// coordinates; other points are normalized first.
func (c *Curve) ImportPoint(p *Point) (*Point, error) {
	if p.curve == c {
		return p, nil
	}
	if !c.Equal(p.curve) {
		return nil, ErrCurveMismatch
	}
	if p.IsInfinity() {
		return c.infinity, nil
	}

	src, dst := p.curve.config.Coordinates, c.config.Coordinates
	if src != Affine && (src == dst || (src.isJacobian() && dst.isJacobian())) {
		z := c.retag(p.zs[0])
		zs := []*FieldElement{z}
		if dst == JacobianModified {
			var w *FieldElement
			if src == JacobianModified {
				w = c.retag(p.zs[1])
			}
			if w == nil {
				w = c.jacobianModifiedW(z, nil)
			}
			zs = append(zs, w)
		}
		return &Point{curve: c, x: c.retag(p.x), y: c.retag(p.y), zs: zs}, nil
	}

	n := p.Normalize()
	return c.createRawPoint(c.retag(n.x), c.retag(n.y)), nil
}

// ImportPoint returns p as a point of c, failing with ErrCurveMismatch if the
// curves differ.
func ImportPoint(c *Curve, p *Point) (*Point, error) {
	return c.ImportPoint(p)
}

// NormalizeAll normalizes the points in place using a single field inversion.
// Nil entries are skipped; all other entries must be points of c.
func (c *Curve) NormalizeAll(points []*Point) error {
	var zs []*FieldElement
	var indices []int
	for i, p := range points {
		if p == nil {
			continue
		}
		if p.curve != c {
			return errors.WrapPrefix(ErrCurveMismatch, fmt.Sprintf("entry %d", i), 0)
		}
		if p.IsNormalized() {
			continue
		}
		zs = append(zs, p.zs[0])
		indices = append(indices, i)
	}
	if len(zs) == 0 {
		return nil
	}

	if err := MontgomeryTrick(zs, 0, len(zs)); err != nil {
		return err
	}
	for j, i := range indices {
		points[i] = points[i].normalizeWith(zs[j])
	}
	return nil
}

func (c *Curve) String() string {
	return fmt.Sprintf("y^2 = x^3 + %v*x + %v mod %v (%v)", c.a, c.b, c.field.p.Text(16), c.config.Coordinates)
}
