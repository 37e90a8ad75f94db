package uprove

import (
	"fmt"
	"strconv"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/ec"
	"github.com/privacybydesign/uprove/ecparams"
	"github.com/privacybydesign/uprove/internal/common"
)

// maxDerivationCounter bounds the number of candidates DeriveElement tries.
const maxDerivationCounter = 1 << 16

// ECGroup is the group of points generated by a base point of prime order q on
// an elliptic curve.
type ECGroup struct {
	name  string
	oid   string
	named bool

	curve    *ec.Curve
	q        *big.Int
	zq       *FieldZq
	g        *ECElement
	identity *ECElement
}

// NewECGroup returns the group generated by generator, which is imported into
// curve. The curve must know its order.
func NewECGroup(name string, curve *ec.Curve, generator *ec.Point) (*ECGroup, error) {
	q := curve.Order()
	if q == nil {
		return nil, errors.WrapPrefix(ErrInvalidGroup, "curve order unknown", 0)
	}
	g, err := curve.ImportPoint(generator)
	if err != nil {
		return nil, errors.WrapPrefix(err, "generator", 0)
	}
	zq, err := NewFieldZq(q)
	if err != nil {
		return nil, err
	}
	grp := &ECGroup{name: name, curve: curve, q: q, zq: zq}
	grp.g = &ECElement{group: grp, p: g}
	grp.identity = &ECElement{group: grp, p: curve.Infinity()}
	return grp, nil
}

// NewECGroupFromDescriptor builds the group of the curve described by d.
func NewECGroupFromDescriptor(d *ecparams.Descriptor, conf ec.Config) (*ECGroup, error) {
	curve, g, err := d.Curve(conf)
	if err != nil {
		return nil, err
	}
	grp, err := NewECGroup(d.Name, curve, g)
	if err != nil {
		return nil, err
	}
	grp.oid = d.OID
	return grp, nil
}

func (grp *ECGroup) Type() GroupType        { return ECType }
func (grp *ECGroup) Name() string           { return grp.name }
func (grp *ECGroup) OID() string            { return grp.oid }
func (grp *ECGroup) Curve() *ec.Curve       { return grp.curve }
func (grp *ECGroup) Q() *big.Int            { return new(big.Int).Set(grp.q) }
func (grp *ECGroup) FieldZq() *FieldZq      { return grp.zq }
func (grp *ECGroup) G() GroupElement        { return grp.g }
func (grp *ECGroup) Identity() GroupElement { return grp.identity }

// Element wraps a point of the group's curve.
func (grp *ECGroup) Element(p *ec.Point) (*ECElement, error) {
	imported, err := grp.curve.ImportPoint(p)
	if err != nil {
		return nil, err
	}
	if imported.IsInfinity() {
		return grp.identity, nil
	}
	return &ECElement{group: grp, p: imported}, nil
}

func (grp *ECGroup) CreateElement(value []byte) (GroupElement, error) {
	p, err := grp.curve.DecodePoint(value)
	if err != nil {
		return nil, errors.WrapPrefix(err, "invalid group element", 0)
	}
	e, err := grp.Element(p)
	if err != nil {
		return nil, err
	}
	if err = grp.ValidateElement(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ValidateElement checks that e is a point of the curve, and of the subgroup
// of order q if the curve has a cofactor.
func (grp *ECGroup) ValidateElement(e GroupElement) error {
	ece, ok := e.(*ECElement)
	if !ok || !grp.curve.Equal(ece.group.curve) {
		return ErrGroupMismatch
	}
	if !ece.p.IsValid() {
		return errors.WrapPrefix(ErrInvalidElement, "point not on curve", 0)
	}
	if h := grp.curve.Cofactor(); h != nil && h.Cmp(big.NewInt(1)) != 0 {
		if !ece.p.Multiply(grp.q).IsInfinity() {
			return errors.WrapPrefix(ErrInvalidElement, "point not in subgroup", 0)
		}
	}
	return nil
}

// Verify checks that the generator is a point of prime order q.
func (grp *ECGroup) Verify() error {
	if !grp.q.ProbablyPrime(20) {
		return errors.WrapPrefix(ErrInvalidGroup, "q is not prime", 0)
	}
	g := grp.g.p
	if g.IsInfinity() {
		return errors.WrapPrefix(ErrInvalidGroup, "generator is the identity", 0)
	}
	if !g.IsValid() {
		return errors.WrapPrefix(ErrInvalidGroup, "generator not on curve", 0)
	}
	if !g.Multiply(grp.q).IsInfinity() {
		return errors.WrapPrefix(ErrInvalidGroup, "generator order is not q", 0)
	}
	return nil
}

// DeriveElement implements the point derivation of the U-Prove recommended
// parameters profile. For counter = 0, 1, ... the x coordinate is taken as
//
//	SHA-256(context ‖ index ‖ counter ‖ 0) ‖ SHA-256(context ‖ index ‖ counter ‖ 1) ‖ ...  mod p
//
// with the integers written in decimal, using as many hashes as needed to
// cover the byte length of p. The first x for which x³ + ax + b is a square
// gives the point, with the smaller of the two roots as y.
func (grp *ECGroup) DeriveElement(context []byte, index byte) (GroupElement, int, error) {
	field := grp.curve.Field()
	p := field.Modulus()
	// the byte count is truncated before rounding up, as in the U-Prove
	// parameter generator: a 8m+1 bit prime gets ⌈m/32⌉ hashes, not ⌈bits/256⌉
	iterations := (p.BitLen()/8 + 31) / 32
	idx := []byte(strconv.Itoa(int(index)))

	for counter := 0; counter < maxDerivationCounter; counter++ {
		ctr := []byte(strconv.Itoa(counter))
		digest := make([]byte, 0, 32*iterations)
		for i := 0; i < iterations; i++ {
			digest = append(digest, common.DigestSHA256(context, idx, ctr, []byte(strconv.Itoa(i)))...)
		}
		x, err := field.Element(new(big.Int).Mod(new(big.Int).SetBytes(digest), p))
		if err != nil {
			return nil, 0, err
		}

		z := x.Square().Add(grp.curve.A()).Multiply(x).Add(grp.curve.B())
		y := z
		if !z.IsZero() {
			var ok bool
			if y, ok = z.Sqrt(); !ok {
				continue
			}
		}
		if neg := y.Negate(); neg.BigInt().Cmp(y.BigInt()) < 0 {
			y = neg
		}

		pt, err := grp.curve.CreatePoint(x.BigInt(), y.BigInt())
		if err != nil {
			return nil, 0, err
		}
		Logger.WithField("group", grp.name).Tracef("derived element %d at counter %d", index, counter)
		return &ECElement{group: grp, p: pt}, counter, nil
	}
	return nil, 0, errors.WrapPrefix(ErrDerivationLimit, fmt.Sprintf("index %d", index), 0)
}

// MultiExponentiate computes the product with ec.SumOfMultiplies after
// importing the bases into the curve of the group.
func (grp *ECGroup) MultiExponentiate(bases []GroupElement, exponents []*FieldZqElement) (GroupElement, error) {
	if err := checkLengths(bases, exponents); err != nil {
		return nil, err
	}
	points := make([]*ec.Point, len(bases))
	ks := make([]*big.Int, len(bases))
	for i, b := range bases {
		e, ok := b.(*ECElement)
		if !ok {
			return nil, errors.WrapPrefix(ErrGroupMismatch, fmt.Sprintf("base %d", i), 0)
		}
		if !grp.zq.Equal(exponents[i].field) {
			return nil, errors.WrapPrefix(ErrFieldMismatch, fmt.Sprintf("exponent %d", i), 0)
		}
		p, err := grp.curve.ImportPoint(e.p)
		if err != nil {
			return nil, errors.WrapPrefix(ErrGroupMismatch, fmt.Sprintf("base %d", i), 0)
		}
		points[i] = p
		ks[i] = exponents[i].x
	}
	r, err := ec.SumOfMultiplies(points, ks)
	if err != nil {
		return nil, err
	}
	return grp.Element(r)
}

func (grp *ECGroup) Description() *GroupDescription {
	if grp.named {
		return &GroupDescription{Type: namedGroupType, Name: grp.name}
	}
	return &GroupDescription{
		Type: ECType.String(),
		Name: grp.name,
		P:    grp.curve.Field().Modulus(),
		A:    grp.curve.A().BigInt(),
		B:    grp.curve.B().BigInt(),
		Q:    grp.Q(),
		G:    grp.g.p.Encode(false),
	}
}

func (grp *ECGroup) String() string {
	return fmt.Sprintf("ECGroup(%s)", grp.name)
}

// ECElement is a point of an ECGroup.
type ECElement struct {
	group *ECGroup
	p     *ec.Point
}

func (e *ECElement) Group() Group     { return e.group }
func (e *ECElement) Point() *ec.Point { return e.p }
func (e *ECElement) IsIdentity() bool { return e.p.IsInfinity() }

// operand returns the point of b on the curve of e.
func (e *ECElement) operand(b GroupElement) *ec.Point {
	o, ok := b.(*ECElement)
	if !ok {
		panic(ErrGroupMismatch)
	}
	if o.group == e.group {
		return o.p
	}
	p, err := e.group.curve.ImportPoint(o.p)
	if err != nil {
		panic(ErrGroupMismatch)
	}
	return p
}

// Multiply returns the group product, which is point addition.
func (e *ECElement) Multiply(b GroupElement) GroupElement {
	return &ECElement{group: e.group, p: e.p.Add(e.operand(b))}
}

// Exponentiate returns k·P.
func (e *ECElement) Exponentiate(k *FieldZqElement) GroupElement {
	if !e.group.zq.Equal(k.field) {
		panic(ErrFieldMismatch)
	}
	return &ECElement{group: e.group, p: e.p.Multiply(k.x)}
}

func (e *ECElement) Equal(b GroupElement) bool {
	o, ok := b.(*ECElement)
	return ok && e.p.Equal(o.p)
}

// Bytes returns the uncompressed point encoding.
func (e *ECElement) Bytes() []byte {
	return e.p.Encode(false)
}

func (e *ECElement) String() string {
	return e.p.String()
}
