package uprove

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/cbor"
)

// GroupType distinguishes the group constructions.
type GroupType int

const (
	// SubgroupType groups are prime-order subgroups of Z_p*.
	SubgroupType GroupType = iota
	// ECType groups are prime-order elliptic curve groups.
	ECType
)

func (t GroupType) String() string {
	switch t {
	case SubgroupType:
		return "subgroup"
	case ECType:
		return "ec"
	}
	return fmt.Sprintf("GroupType(%d)", int(t))
}

// Group is a cyclic group of prime order q, written multiplicatively.
// Implementations are immutable.
type Group interface {
	Type() GroupType
	Name() string

	// Q returns the order of the group.
	Q() *big.Int
	// FieldZq returns the exponent field of the group; every call returns the
	// same instance.
	FieldZq() *FieldZq
	// G returns the generator.
	G() GroupElement
	Identity() GroupElement

	// CreateElement decodes and validates an element.
	CreateElement(value []byte) (GroupElement, error)
	// ValidateElement checks that e is an element of this group.
	ValidateElement(e GroupElement) error
	// Verify checks the group parameters.
	Verify() error

	// DeriveElement deterministically derives an element from an optional
	// context and an index. It also returns the counter value at which the
	// derivation succeeded. Different contexts or indices give different
	// elements.
	DeriveElement(context []byte, index byte) (GroupElement, int, error)

	// MultiExponentiate returns the product of bases[i]^exponents[i].
	MultiExponentiate(bases []GroupElement, exponents []*FieldZqElement) (GroupElement, error)

	// Description returns the serializable description of the group.
	Description() *GroupDescription
}

// GroupElement is an immutable element of a Group. Combining elements of
// different groups panics with ErrGroupMismatch.
type GroupElement interface {
	Group() Group
	Multiply(b GroupElement) GroupElement
	Exponentiate(e *FieldZqElement) GroupElement
	Equal(b GroupElement) bool
	IsIdentity() bool
	// Bytes returns the canonical encoding, accepted by Group.CreateElement.
	Bytes() []byte
	String() string
}

// GroupDescription identifies a group. Named groups are identified by their
// name only; other groups carry their parameters.
type GroupDescription struct {
	Type string   `json:"type" cbor:"type"`
	Name string   `json:"name,omitempty" cbor:"name,omitempty"`
	P    *big.Int `json:"p,omitempty" cbor:"p,omitempty"`
	A    *big.Int `json:"a,omitempty" cbor:"a,omitempty"`
	B    *big.Int `json:"b,omitempty" cbor:"b,omitempty"`
	Q    *big.Int `json:"q,omitempty" cbor:"q,omitempty"`
	G    []byte   `json:"g,omitempty" cbor:"g,omitempty"`
}

const namedGroupType = "named"

// Fingerprint returns the multihash of the deterministic CBOR encoding of the
// description of g.
func Fingerprint(g Group) (multihash.Multihash, error) {
	return cbor.Fingerprint(g.Description())
}

// RandomElement returns G^r for a random exponent r, nonzero if nonIdentity is set.
func RandomElement(g Group, nonIdentity bool) (GroupElement, error) {
	r, err := g.FieldZq().RandomElement(nonIdentity)
	if err != nil {
		return nil, err
	}
	return g.G().Exponentiate(r), nil
}

// RandomElements returns n random elements, see RandomElement.
func RandomElements(g Group, n int, nonIdentity bool) ([]GroupElement, error) {
	r := make([]GroupElement, n)
	for i := range r {
		var err error
		if r[i], err = RandomElement(g, nonIdentity); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// MultiExponentiate2 returns b1^e1 · b2^e2.
func MultiExponentiate2(g Group, b1, b2 GroupElement, e1, e2 *FieldZqElement) (GroupElement, error) {
	return g.MultiExponentiate([]GroupElement{b1, b2}, []*FieldZqElement{e1, e2})
}

// Invert returns e^-1.
func Invert(g Group, e GroupElement) GroupElement {
	return e.Exponentiate(g.FieldZq().NegativeOne())
}

// Divide returns numerator / denominator.
func Divide(g Group, numerator, denominator GroupElement) GroupElement {
	return numerator.Multiply(Invert(g, denominator))
}

// DivideAll returns the product of the numerators divided by the product of
// the denominators. Empty products are the identity.
func DivideAll(g Group, numerators, denominators []GroupElement) GroupElement {
	numerator := g.Identity()
	for _, e := range numerators {
		numerator = numerator.Multiply(e)
	}
	denominator := g.Identity()
	for _, e := range denominators {
		denominator = denominator.Multiply(e)
	}
	return Divide(g, numerator, denominator)
}

func checkLengths(bases []GroupElement, exponents []*FieldZqElement) error {
	if len(bases) == 0 || len(bases) != len(exponents) {
		return errors.WrapPrefix(ErrLengthMismatch, fmt.Sprintf("%d bases, %d exponents", len(bases), len(exponents)), 0)
	}
	for i := range bases {
		if bases[i] == nil || exponents[i] == nil {
			return errors.WrapPrefix(ErrLengthMismatch, fmt.Sprintf("nil entry %d", i), 0)
		}
	}
	return nil
}
