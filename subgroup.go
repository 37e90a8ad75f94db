package uprove

import (
	"crypto/rand"
	"fmt"
	"sync"

	"github.com/bwesterb/go-exptable"
	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/internal/common"
	"github.com/privacybydesign/uprove/safeprime"
)

// generatorTableWidth is the window width of the fixed-base table of g.
const generatorTableWidth = 7

// SubgroupGroup is the subgroup of prime order q of Z_p*, generated by g.
type SubgroupGroup struct {
	name    string
	p, q    *big.Int
	byteLen int

	g        *SubgroupElement
	identity *SubgroupElement

	// lazily built, so that invalid parameters can still be verified
	once  sync.Once
	zq    *FieldZq
	table *exptable.Table
}

// NewSubgroupGroup returns the group with the given parameters. Only their
// presence is checked here; see Verify.
func NewSubgroupGroup(name string, p, q, g *big.Int) (*SubgroupGroup, error) {
	if p == nil || q == nil || g == nil || p.Sign() <= 0 || q.Sign() <= 0 || g.Sign() < 0 {
		return nil, errors.WrapPrefix(ErrInvalidGroup, "p, q and g must be set and positive", 0)
	}
	grp := &SubgroupGroup{
		name:    name,
		p:       new(big.Int).Set(p),
		q:       new(big.Int).Set(q),
		byteLen: (p.BitLen() + 7) / 8,
	}
	grp.g = &SubgroupElement{group: grp, v: new(big.Int).Set(g), generator: true}
	grp.identity = &SubgroupElement{group: grp, v: big.NewInt(1)}
	return grp, nil
}

// GenerateSubgroupGroup returns a fresh group of quadratic residues modulo a
// safe prime p = 2q+1 of the given bit size.
func GenerateSubgroupGroup(name string, bits int) (*SubgroupGroup, error) {
	p, err := safeprime.GenerateConcurrent(bits, nil)
	if err != nil {
		return nil, err
	}
	q := new(big.Int).Rsh(p, 1)

	// h ∉ {1, p-1}, so h² ≠ 1 generates the quadratic residues
	h, err := big.RandInt(rand.Reader, new(big.Int).Sub(p, big.NewInt(3)))
	if err != nil {
		return nil, err
	}
	h.Add(h, big.NewInt(2))
	g := new(big.Int).Exp(h, big.NewInt(2), p)
	Logger.WithField("bits", bits).Debug("generated subgroup group")
	return NewSubgroupGroup(name, p, q, g)
}

func (grp *SubgroupGroup) init() {
	grp.once.Do(func() {
		zq, err := NewFieldZq(grp.q)
		if err != nil {
			Logger.WithField("group", grp.name).Warn("group order does not define an exponent field: ", err)
			return
		}
		grp.zq = zq
		grp.table = &exptable.Table{}
		grp.table.Compute(grp.g.v.Go(), grp.p.Go(), generatorTableWidth)
	})
}

func (grp *SubgroupGroup) Type() GroupType        { return SubgroupType }
func (grp *SubgroupGroup) Name() string           { return grp.name }
func (grp *SubgroupGroup) P() *big.Int            { return new(big.Int).Set(grp.p) }
func (grp *SubgroupGroup) Q() *big.Int            { return new(big.Int).Set(grp.q) }
func (grp *SubgroupGroup) G() GroupElement        { return grp.g }
func (grp *SubgroupGroup) Identity() GroupElement { return grp.identity }

// FieldZq returns the exponent field, or nil if q is not an odd integer above 2.
func (grp *SubgroupGroup) FieldZq() *FieldZq {
	grp.init()
	return grp.zq
}

// Element returns v as an element without validating it.
func (grp *SubgroupGroup) Element(v *big.Int) *SubgroupElement {
	return &SubgroupElement{group: grp, v: new(big.Int).Set(v)}
}

func (grp *SubgroupGroup) CreateElement(value []byte) (GroupElement, error) {
	if len(value) != grp.byteLen {
		return nil, errors.WrapPrefix(ErrInvalidElement, fmt.Sprintf("expected %d bytes, got %d", grp.byteLen, len(value)), 0)
	}
	e := grp.Element(new(big.Int).SetBytes(value))
	if err := grp.ValidateElement(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ValidateElement checks that 0 < e < p and e^q = 1 mod p.
func (grp *SubgroupGroup) ValidateElement(e GroupElement) error {
	se, ok := e.(*SubgroupElement)
	if !ok || !grp.sameParameters(se.group) {
		return ErrGroupMismatch
	}
	if se.v.Sign() <= 0 || se.v.Cmp(grp.p) >= 0 {
		return errors.WrapPrefix(ErrInvalidElement, "value not in range", 0)
	}
	if new(big.Int).Exp(se.v, grp.q, grp.p).Cmp(big.NewInt(1)) != 0 {
		return errors.WrapPrefix(ErrInvalidElement, "value not in subgroup", 0)
	}
	return nil
}

func (grp *SubgroupGroup) sameParameters(o *SubgroupGroup) bool {
	return grp == o || (grp.p.Cmp(o.p) == 0 && grp.q.Cmp(o.q) == 0 && grp.g.v.Cmp(o.g.v) == 0)
}

// Verify checks that p and q are odd primes with q | p-1, and that g is an
// element of order q.
func (grp *SubgroupGroup) Verify() error {
	one := big.NewInt(1)
	if grp.p.Bit(0) == 0 || !grp.p.ProbablyPrime(40) {
		return errors.WrapPrefix(ErrInvalidGroup, "p is not an odd prime", 0)
	}
	if grp.q.Bit(0) == 0 || !grp.q.ProbablyPrime(40) {
		return errors.WrapPrefix(ErrInvalidGroup, "q is not an odd prime", 0)
	}
	pm1 := new(big.Int).Sub(grp.p, one)
	if new(big.Int).Mod(pm1, grp.q).Sign() != 0 {
		return errors.WrapPrefix(ErrInvalidGroup, "q does not divide p-1", 0)
	}
	g := grp.g.v
	if g.Cmp(one) <= 0 || g.Cmp(grp.p) >= 0 {
		return errors.WrapPrefix(ErrInvalidGroup, "g not in (1, p)", 0)
	}
	if new(big.Int).Exp(g, grp.q, grp.p).Cmp(one) != 0 {
		return errors.WrapPrefix(ErrInvalidGroup, "g does not have order q", 0)
	}
	return nil
}

// DeriveElement implements the verifiable generator derivation of FIPS 186-3,
// appendix A.2.3, using SHA-256 and context as domain parameter seed: for
// count = 1, 2, ... it computes
//
//	W = SHA-256(context ‖ "ggen" ‖ index ‖ count),  g = W^((p-1)/q) mod p
//
// with count as 16-bit big-endian integer, until g >= 2.
func (grp *SubgroupGroup) DeriveElement(context []byte, index byte) (GroupElement, int, error) {
	e := new(big.Int).Sub(grp.p, big.NewInt(1))
	e.Div(e, grp.q)
	two := big.NewInt(2)
	for count := 1; count < maxDerivationCounter; count++ {
		u := []byte{'g', 'g', 'e', 'n', index, byte(count >> 8), byte(count)}
		w := new(big.Int).SetBytes(common.DigestSHA256(context, u))
		g := w.Exp(w, e, grp.p)
		if g.Cmp(two) >= 0 {
			Logger.WithField("group", grp.name).Tracef("derived element %d at count %d", index, count)
			return &SubgroupElement{group: grp, v: g}, count, nil
		}
	}
	return nil, 0, errors.WrapPrefix(ErrDerivationLimit, fmt.Sprintf("index %d", index), 0)
}

// MultiExponentiate multiplies the individual powers; the generator uses its
// fixed-base table.
func (grp *SubgroupGroup) MultiExponentiate(bases []GroupElement, exponents []*FieldZqElement) (GroupElement, error) {
	if err := checkLengths(bases, exponents); err != nil {
		return nil, err
	}
	zq := grp.FieldZq()
	acc := big.NewInt(1)
	for i, b := range bases {
		se, ok := b.(*SubgroupElement)
		if !ok || !grp.sameParameters(se.group) {
			return nil, errors.WrapPrefix(ErrGroupMismatch, fmt.Sprintf("base %d", i), 0)
		}
		if !zq.Equal(exponents[i].field) {
			return nil, errors.WrapPrefix(ErrFieldMismatch, fmt.Sprintf("exponent %d", i), 0)
		}
		acc.Mul(acc, se.exp(exponents[i].x))
		acc.Mod(acc, grp.p)
	}
	return &SubgroupElement{group: grp, v: acc}, nil
}

func (grp *SubgroupGroup) Description() *GroupDescription {
	return &GroupDescription{
		Type: SubgroupType.String(),
		Name: grp.name,
		P:    grp.P(),
		Q:    grp.Q(),
		G:    grp.g.Bytes(),
	}
}

func (grp *SubgroupGroup) String() string {
	return fmt.Sprintf("SubgroupGroup(%s, %d bits)", grp.name, grp.p.BitLen())
}

// SubgroupElement is an integer modulo p.
type SubgroupElement struct {
	group     *SubgroupGroup
	v         *big.Int
	generator bool
}

func (e *SubgroupElement) Group() Group     { return e.group }
func (e *SubgroupElement) Value() *big.Int  { return new(big.Int).Set(e.v) }
func (e *SubgroupElement) IsIdentity() bool { return e.v.Cmp(big.NewInt(1)) == 0 }

func (e *SubgroupElement) operand(b GroupElement) *SubgroupElement {
	o, ok := b.(*SubgroupElement)
	if !ok || !e.group.sameParameters(o.group) {
		panic(ErrGroupMismatch)
	}
	return o
}

func (e *SubgroupElement) Multiply(b GroupElement) GroupElement {
	o := e.operand(b)
	v := new(big.Int).Mul(e.v, o.v)
	return &SubgroupElement{group: e.group, v: v.Mod(v, e.group.p)}
}

// exp returns e^k mod p for 0 <= k < q.
func (e *SubgroupElement) exp(k *big.Int) *big.Int {
	ret := new(big.Int)
	if e.generator {
		e.group.init()
		if e.group.table != nil {
			e.group.table.Exp(ret.Go(), k.Go())
			return ret
		}
	}
	return ret.Exp(e.v, k, e.group.p)
}

func (e *SubgroupElement) Exponentiate(k *FieldZqElement) GroupElement {
	if !e.group.FieldZq().Equal(k.field) {
		panic(ErrFieldMismatch)
	}
	return &SubgroupElement{group: e.group, v: e.exp(k.x)}
}

func (e *SubgroupElement) Equal(b GroupElement) bool {
	o, ok := b.(*SubgroupElement)
	return ok && e.group.sameParameters(o.group) && e.v.Cmp(o.v) == 0
}

// Bytes returns the big-endian value, left-padded to the byte length of p.
func (e *SubgroupElement) Bytes() []byte {
	b, err := e.v.FixedBytes(e.group.byteLen)
	if err != nil {
		panic(err)
	}
	return b
}

func (e *SubgroupElement) String() string {
	return e.v.Text(16)
}
