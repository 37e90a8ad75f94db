// Package ecparams contains the domain parameters of named prime curves, their
// JSON and CBOR encodings and their conversion into ec curves.
package ecparams

import (
	"crypto/elliptic"
	"encoding/json"
	"fmt"
	gobig "math/big"
	"sort"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/cbor"
	"github.com/privacybydesign/uprove/ec"
)

// Descriptor holds the parameters of the curve y² = x³ + ax + b over the
// integers modulo P, with generator (Gx, Gy) of prime order N and cofactor H.
type Descriptor struct {
	Name string   `json:"name" cbor:"name"`
	OID  string   `json:"oid,omitempty" cbor:"oid,omitempty"`
	P    *big.Int `json:"p" cbor:"p"`
	A    *big.Int `json:"a" cbor:"a"`
	B    *big.Int `json:"b" cbor:"b"`
	N    *big.Int `json:"n" cbor:"n"`
	H    *big.Int `json:"h" cbor:"h"`
	Gx   *big.Int `json:"gx" cbor:"gx"`
	Gy   *big.Int `json:"gy" cbor:"gy"`
}

// Object identifiers of the U-Prove recommended curves.
const (
	OIDUProveP256 = "1.3.6.1.4.1.311.75.1.2.1"
	OIDUProveP384 = "1.3.6.1.4.1.311.75.1.2.2"
	OIDUProveP521 = "1.3.6.1.4.1.311.75.1.2.3"

	OIDSecP224r1 = "1.3.132.0.33"
	OIDSecP256k1 = "1.3.132.0.10"
)

// DefaultCurves holds the descriptors of the supported named curves by name.
// The entries must not be modified; ByName and ByOID return copies.
var DefaultCurves = map[string]*Descriptor{
	"P-224":     fromCurveParams("P-224", OIDSecP224r1, elliptic.P224().Params(), nil),
	"P-256":     fromCurveParams("P-256", OIDUProveP256, elliptic.P256().Params(), nil),
	"P-384":     fromCurveParams("P-384", OIDUProveP384, elliptic.P384().Params(), nil),
	"P-521":     fromCurveParams("P-521", OIDUProveP521, elliptic.P521().Params(), nil),
	"secp256k1": fromCurveParams("secp256k1", OIDSecP256k1, secp256k1.S256().Params(), big.NewInt(0)),
}

// fromCurveParams converts Go curve parameters, which leave a implicit. NIST
// curves have a = p - 3.
func fromCurveParams(name, oid string, params *elliptic.CurveParams, a *big.Int) *Descriptor {
	p := big.Convert(new(gobig.Int).Set(params.P))
	if a == nil {
		a = new(big.Int).Sub(p, big.NewInt(3))
	}
	return &Descriptor{
		Name: name,
		OID:  oid,
		P:    p,
		A:    a,
		B:    big.Convert(new(gobig.Int).Set(params.B)),
		N:    big.Convert(new(gobig.Int).Set(params.N)),
		H:    big.NewInt(1),
		Gx:   big.Convert(new(gobig.Int).Set(params.Gx)),
		Gy:   big.Convert(new(gobig.Int).Set(params.Gy)),
	}
}

// Names returns the names of the curves in DefaultCurves, sorted.
func Names() []string {
	names := make([]string, 0, len(DefaultCurves))
	for name := range DefaultCurves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns a copy of the named descriptor.
func ByName(name string) (*Descriptor, error) {
	d, ok := DefaultCurves[name]
	if !ok {
		return nil, errors.WrapPrefix(ErrUnknownCurve, name, 0)
	}
	return d.Copy(), nil
}

// ByOID returns a copy of the descriptor with the given object identifier.
func ByOID(oid string) (*Descriptor, error) {
	for _, d := range DefaultCurves {
		if d.OID == oid {
			return d.Copy(), nil
		}
	}
	return nil, errors.WrapPrefix(ErrUnknownCurve, oid, 0)
}

// Copy returns a deep copy of d.
func (d *Descriptor) Copy() *Descriptor {
	cp := func(x *big.Int) *big.Int {
		if x == nil {
			return nil
		}
		return new(big.Int).Set(x)
	}
	return &Descriptor{
		Name: d.Name,
		OID:  d.OID,
		P:    cp(d.P),
		A:    cp(d.A),
		B:    cp(d.B),
		N:    cp(d.N),
		H:    cp(d.H),
		Gx:   cp(d.Gx),
		Gy:   cp(d.Gy),
	}
}

func invalid(format string, args ...interface{}) error {
	return errors.WrapPrefix(ErrInvalidDescriptor, fmt.Sprintf(format, args...), 0)
}

// Validate checks that d describes a non-singular curve over a prime field
// whose generator lies on the curve and has prime order N.
func (d *Descriptor) Validate() error {
	for _, f := range []struct {
		name string
		v    *big.Int
	}{{"p", d.P}, {"a", d.A}, {"b", d.B}, {"n", d.N}, {"h", d.H}, {"gx", d.Gx}, {"gy", d.Gy}} {
		if f.v == nil {
			return invalid("%s missing", f.name)
		}
		if f.v.Sign() < 0 {
			return invalid("%s negative", f.name)
		}
	}
	if d.P.Cmp(big.NewInt(3)) <= 0 || d.P.Bit(0) == 0 || !d.P.ProbablyPrime(20) {
		return invalid("p is not an odd prime")
	}
	for _, f := range []struct {
		name string
		v    *big.Int
	}{{"a", d.A}, {"b", d.B}, {"gx", d.Gx}, {"gy", d.Gy}} {
		if f.v.Cmp(d.P) >= 0 {
			return invalid("%s not below p", f.name)
		}
	}
	if !d.N.ProbablyPrime(20) {
		return invalid("n is not prime")
	}
	if d.H.Sign() == 0 {
		return invalid("h is zero")
	}

	// 4a³ + 27b² ≠ 0
	disc := new(big.Int).Exp(d.A, big.NewInt(3), d.P)
	disc.Mul(disc, big.NewInt(4))
	b2 := new(big.Int).Exp(d.B, big.NewInt(2), d.P)
	disc.Add(disc, b2.Mul(b2, big.NewInt(27)))
	if disc.Mod(disc, d.P).Sign() == 0 {
		return invalid("singular curve")
	}

	c, err := ec.NewCurve(d.P, d.A, d.B, d.N, d.H)
	if err != nil {
		return errors.WrapPrefix(err, "invalid curve descriptor", 0)
	}
	g, err := c.CreatePoint(d.Gx, d.Gy)
	if err != nil {
		return errors.WrapPrefix(err, "invalid curve descriptor", 0)
	}
	if !g.IsValid() {
		return invalid("generator not on curve")
	}
	if !g.Multiply(d.N).IsInfinity() {
		return invalid("generator order is not n")
	}
	return nil
}

// Curve returns the curve of d using conf, and its generator.
func (d *Descriptor) Curve(conf ec.Config) (*ec.Curve, *ec.Point, error) {
	c, err := ec.NewCurveWithConfig(d.P, d.A, d.B, d.N, d.H, conf)
	if err != nil {
		return nil, nil, err
	}
	g, err := c.CreatePoint(d.Gx, d.Gy)
	if err != nil {
		return nil, nil, err
	}
	if !g.IsValid() {
		return nil, nil, invalid("generator not on curve")
	}
	Logger.WithField("curve", d.Name).Tracef("constructed curve using %v coordinates", conf.Coordinates)
	return c, g, nil
}

// CBOR returns the deterministic CBOR encoding of d.
func (d *Descriptor) CBOR() ([]byte, error) {
	return cbor.Marshal(d)
}

// Fingerprint returns the multihash of the deterministic CBOR encoding of d.
func (d *Descriptor) Fingerprint() (multihash.Multihash, error) {
	return cbor.Fingerprint(d)
}

// DecodeJSON parses and validates a JSON descriptor.
func DecodeJSON(data []byte) (*Descriptor, error) {
	d := &Descriptor{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, errors.WrapPrefix(err, "failed to parse curve descriptor", 0)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// DecodeCBOR parses and validates a CBOR descriptor.
func DecodeCBOR(data []byte) (*Descriptor, error) {
	d := &Descriptor{}
	if err := cbor.Unmarshal(data, d); err != nil {
		return nil, errors.WrapPrefix(err, "failed to parse curve descriptor", 0)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
