package uprove

import (
	"testing"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
	"github.com/privacybydesign/uprove/ec"
	"github.com/privacybydesign/uprove/ecparams"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type derivationVector struct {
	curve   string
	index   byte
	counter int
	x, y    string
}

var derivationVectors = []derivationVector{
	{"P-256", 1, 5,
		"f1b986d5d11f43483ae736e886af750e870d7f0c2312aad8db5c8a3e34f5391e",
		"64347b7f493187a53b370894b8f8e38fd22cb99302393d79dce225918eba61ee"},
	{"P-256", 2, 1,
		"1554cf983e0b060c78705ed7d14a4941b02e608cdb78f6a75a52345978141fd3",
		"62540e690c8fa9fe107e2141dfc6907f74f5feebdf5b12d7153b4635a2df6a76"},
	{"P-256", IndexGt, 4,
		"e2ab81def593e999c975a8a48668b9a07e5594cfd68fac29f17a811cb26b3e10",
		"756311f896c503ecdb2f608a1ccbfa378a95eb4578e65f190f1a8b544d20b082"},
	{"P-256", IndexGd, 0,
		"4ca625118d0a05d04d275dae1ff096361ebeba345c31270982f796639b1ca574",
		"142d150c855ba9aa7dcc71821a538edb544836df8050912679ccd7233fbba636"},
	{"P-384", 1, 2,
		"4aae579dd56d78090b9921f31bf729f074121a3adffa2d31d01215beee1dc4df9df463fd5e2b8f6c6b0a4216258ac844",
		"3c3b8a23c5d66aa2f0964521190a9281451e9ae3ace4b7376e02d7b3949e2274e8448cadef7e51991720b49a45b05805"},
	{"P-384", 2, 0,
		"32f086eac7beb55a0c95e5ad996e39dde74b3b66dfbc2b8f12529d9df4a2cb84aa54ce69ab1fb22cd7fd79967d261c2",
		"16bbf078654e391680bdb57495018cc8fe05130abfdaa84ab4af90d0d2d6c01ffda8bc96cfcb0016f3db13d80ae8a2d0"},
	{"P-384", IndexGt, 0,
		"ae141e91578a2667f7b79061e0a0f5b9e459de3038c697753d2f7ee1c08a662316da0d04c5d2115cfcbed003e51b8e38",
		"4d4d60f7665183483c8bfb466c36bf1e14837a7753a0dd1dcc036d91af53c10cfe765ac6190847d2f6683b78e1e09f0c"},
	{"P-384", IndexGd, 2,
		"ed14ac907cadcededdbb772a2c209604fad1b43bd85acf2df50e848bd9aa5b99b65b6a87dbeac90f3301e8c9d45b037f",
		"60448878dc34ae65673d982ef300a565ac0b46510bb962f1a00c459dc969e049add211210607db5a06f102505067f598"},
	{"P-521", 1, 3,
		"1675b76e4f21cefb11ffe81f3137c19e69992d144033f23f3930d1d5b013ca81698a155f2298500caeee36b13cef52ca1c421286ae59f68684c8578628ba1273b65",
		"c631e60abcbd970136201e5a8e4359f8cd3169cc396456b9a12d04317b3bee9aa27ac8fd84e67a61934c63d1d95cd3f89003fdb57bfcbb71f811feb596daed7e3a"},
	{"P-521", 2, 4,
		"1e565ee2801f3d822664777b08b43f2e50b60aa669eaf9870b37fe8f73773b8f92ebe0c0519f494bf938d55072dbea59395036e5c0ba68b885ad2abb47c6402b463",
		"7233dbf746dd2c2bf62a860f36450caf295d88d395521d7356c960f65578fcc82c29d6c066f2c4a0f548f86cc1bc7ea12ea7d34ce241d198f954d98c4f667878bd"},
	{"P-521", IndexGt, 1,
		"d0bfc69d957f2fc38e5170ac3aae81110dcc7a077c0094ddd29ff12057fcaf56e8d014d016998e44710db3fdf72da65e31cd665abcb35308a6b0ac5f18b3ffb6f7",
		"bfaba1b7ea54552b938ce89d0907797f5f55dd081ca3fb5cf01f2606d464e36e3a37e050cfa0fb9ceee03536707c6d117665b3b1e8344d66939b29792004475053"},
	{"P-521", IndexGd, 2,
		"15f3ae2ee57671e1bdc87047f34cbe0aabc693f463b13d42df6fd10f86cc7b4b4b999c9c38bdefa8e13c70174f1be79f8e934a3a01803073b34046b8d8ffc799342",
		"f0984ac43d1a34d52143f09abd1746bcd11e5495a096e307d1ab21648b1118c29c201f29d085d6a8a4da6cf760c818dcdc4ede01b411065cac92eea1cc51bdafb2"},
}

func TestECDeriveElement(t *testing.T) {
	for _, v := range derivationVectors {
		grp := DefaultGroups[v.curve]
		e, counter, err := grp.DeriveElement(RecommendedContext(v.curve), v.index)
		require.NoError(t, err)
		assert.Equal(t, v.counter, counter, "%s index %d", v.curve, v.index)

		x, y := e.(*ECElement).Point().Coordinates()
		assert.Equal(t, v.x, x.Text(16), "%s index %d", v.curve, v.index)
		assert.Equal(t, v.y, y.Text(16), "%s index %d", v.curve, v.index)
		require.NoError(t, grp.ValidateElement(e))

		again, againCounter, err := grp.DeriveElement(RecommendedContext(v.curve), v.index)
		require.NoError(t, err)
		assert.Equal(t, counter, againCounter)
		requireGroupElementEqual(t, e, again)
	}
}

// A 257 bit prime uses a single hash per candidate.
func TestECDeriveElementHashCount(t *testing.T) {
	p := big.MustHex("1ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffa3")
	curve, err := ec.NewCurve(p, new(big.Int).Sub(p, big.NewInt(3)), big.NewInt(7), big.NewInt(3), nil)
	require.NoError(t, err)
	grp, err := NewECGroup("p257", curve, curve.Infinity())
	require.NoError(t, err)

	e, counter, err := grp.DeriveElement([]byte("short hash"), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, counter)
	x, y := e.(*ECElement).Point().Coordinates()
	assert.Equal(t, "1d063acd39d9d4ab8977ec19fccfc9715e2d2aa2ffeec006973a67a0db1e95a5", x.Text(16))
	assert.Equal(t, "df4d8dbf6ac71dfb0040a632f6fcf0f96a17d4bc36a9c233a11ce4e70c4c03a6", y.Text(16))
	assert.True(t, e.(*ECElement).Point().IsValid())
}

func TestECDeriveElementContext(t *testing.T) {
	grp := DefaultGroups["P-256"]
	a, _, err := grp.DeriveElement(nil, 1)
	require.NoError(t, err)
	b, _, err := grp.DeriveElement([]byte("other context"), 1)
	require.NoError(t, err)
	c, _, err := grp.DeriveElement(nil, 2)
	require.NoError(t, err)
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, b.Equal(c))
}

func TestDeriveRecommendedGenerators(t *testing.T) {
	gens, err := DeriveRecommendedGenerators(DefaultGroups["P-256"])
	require.NoError(t, err)
	require.Len(t, gens.G, NumberOfRecommendedGenerators)
	require.Len(t, gens.Counters, NumberOfRecommendedGenerators)
	assert.Equal(t, 5, gens.Counters[0])
	assert.Equal(t, 1, gens.Counters[1])
	assert.Equal(t, 4, gens.CounterT)
	assert.Equal(t, 0, gens.CounterD)

	seen := map[string]bool{}
	for _, g := range append(gens.G, gens.Gt, gens.Gd) {
		require.NoError(t, DefaultGroups["P-256"].ValidateElement(g))
		assert.False(t, g.IsIdentity())
		assert.False(t, seen[string(g.Bytes())])
		seen[string(g.Bytes())] = true
	}

	_, err = DeriveGenerators(DefaultGroups["P-256"], nil, IndexGd)
	assert.Error(t, err)
	_, err = DeriveGenerators(DefaultGroups["P-256"], nil, -1)
	assert.Error(t, err)
	gens, err = DeriveGenerators(DefaultGroups["P-384"], nil, 0)
	require.NoError(t, err)
	assert.Empty(t, gens.G)
	assert.NotNil(t, gens.Gt)
}

func TestNamedGroup(t *testing.T) {
	assert.Equal(t, []string{"P-256", "P-384", "P-521"}, DefaultGroupNames)
	for _, name := range DefaultGroupNames {
		grp, err := NamedGroup(name)
		require.NoError(t, err)
		assert.Same(t, DefaultGroups[name], grp)
		require.NoError(t, grp.Verify())

		byOID, err := NamedGroup(grp.OID())
		require.NoError(t, err)
		assert.Same(t, grp, byOID)
	}
	grp, err := NamedGroup(ecparams.OIDUProveP384)
	require.NoError(t, err)
	assert.Equal(t, "P-384", grp.Name())

	_, err = NamedGroup("secp256k1")
	assert.True(t, errors.Is(err, ErrUnknownGroup))
}

func TestECCreateElement(t *testing.T) {
	for _, name := range DefaultGroupNames {
		grp := DefaultGroups[name]
		e, err := RandomElement(grp, true)
		require.NoError(t, err)

		decoded, err := grp.CreateElement(e.Bytes())
		require.NoError(t, err)
		requireGroupElementEqual(t, e, decoded)

		compressed, err := grp.CreateElement(e.(*ECElement).Point().Encode(true))
		require.NoError(t, err)
		requireGroupElementEqual(t, e, compressed)

		identity, err := grp.CreateElement([]byte{0})
		require.NoError(t, err)
		assert.True(t, identity.IsIdentity())

		bts := e.Bytes()
		_, err = grp.CreateElement(bts[:len(bts)-1])
		assert.True(t, errors.Is(err, ec.ErrInvalidEncoding))

		bts[len(bts)-1] ^= 1
		_, err = grp.CreateElement(bts)
		assert.True(t, errors.Is(err, ErrInvalidElement), "%s: off-curve point accepted", name)
	}
}

func TestECValidateElement(t *testing.T) {
	p256 := DefaultGroups["P-256"]
	assert.True(t, errors.Is(p256.ValidateElement(DefaultGroups["P-384"].G()), ErrGroupMismatch))
	assert.True(t, errors.Is(p256.ValidateElement(smallGroup(t).G()), ErrGroupMismatch))

	// an independently constructed P-256 group interoperates
	d, err := ecparams.ByName("P-256")
	require.NoError(t, err)
	other, err := NewECGroupFromDescriptor(d, ec.Config{Coordinates: ec.Affine})
	require.NoError(t, err)
	require.NoError(t, p256.ValidateElement(other.G()))
	requireGroupElementEqual(t, p256.G(), other.G())

	k, err := p256.FieldZq().RandomElement(true)
	require.NoError(t, err)
	requireGroupElementEqual(t, p256.G().Exponentiate(k).Multiply(p256.G()), other.G().Exponentiate(other.FieldZq().Element(k.BigInt())).Multiply(p256.G()))
}

func TestECElementArithmetic(t *testing.T) {
	grp := DefaultGroups["P-521"]
	zq := grp.FieldZq()
	g := grp.G()

	requireGroupElementEqual(t, grp.Identity(), g.Exponentiate(zq.Zero()))
	requireGroupElementEqual(t, g, g.Exponentiate(zq.One()))
	requireGroupElementEqual(t, g.Exponentiate(zq.ElementInt(2)), g.Multiply(g))
	requireGroupElementEqual(t, g, g.Multiply(grp.Identity()))
	assert.True(t, g.Multiply(Invert(grp, g)).IsIdentity())

	a, err := zq.RandomElement(false)
	require.NoError(t, err)
	b, err := zq.RandomElement(false)
	require.NoError(t, err)
	requireGroupElementEqual(t, g.Exponentiate(a.Add(b)), g.Exponentiate(a).Multiply(g.Exponentiate(b)))
	requireGroupElementEqual(t, g.Exponentiate(a.Multiply(b)), g.Exponentiate(a).Exponentiate(b))

	assert.Len(t, g.Bytes(), 1+2*66)
	assert.Equal(t, []byte{0}, grp.Identity().Bytes())
	assert.Same(t, grp, g.Group())
}

func TestECVerify(t *testing.T) {
	for _, name := range ecparams.Names() {
		d, err := ecparams.ByName(name)
		require.NoError(t, err)
		grp, err := NewECGroupFromDescriptor(d, ec.DefaultConfig())
		require.NoError(t, err)
		assert.NoError(t, grp.Verify(), name)
		assert.Equal(t, d.OID, grp.OID())
	}

	// P-256 with the order of secp256k1
	d, err := ecparams.ByName("P-256")
	require.NoError(t, err)
	k1, err := ecparams.ByName("secp256k1")
	require.NoError(t, err)
	curve, err := ec.NewCurve(d.P, d.A, d.B, k1.N, nil)
	require.NoError(t, err)
	g, err := curve.CreatePoint(d.Gx, d.Gy)
	require.NoError(t, err)
	grp, err := NewECGroup("broken", curve, g)
	require.NoError(t, err)
	assert.True(t, errors.Is(grp.Verify(), ErrInvalidGroup))

	// composite order
	curve, err = ec.NewCurve(d.P, d.A, d.B, new(big.Int).Add(d.N, big.NewInt(2)), nil)
	require.NoError(t, err)
	g, err = curve.CreatePoint(d.Gx, d.Gy)
	require.NoError(t, err)
	grp, err = NewECGroup("broken", curve, g)
	require.NoError(t, err)
	assert.True(t, errors.Is(grp.Verify(), ErrInvalidGroup))

	// off-curve generator
	curve, err = ec.NewCurve(d.P, d.A, d.B, d.N, nil)
	require.NoError(t, err)
	g, err = curve.CreatePoint(d.Gx, new(big.Int).Add(d.Gy, big.NewInt(1)))
	require.NoError(t, err)
	grp, err = NewECGroup("broken", curve, g)
	require.NoError(t, err)
	assert.True(t, errors.Is(grp.Verify(), ErrInvalidGroup))

	curve, err = ec.NewCurve(d.P, d.A, d.B, nil, nil)
	require.NoError(t, err)
	_, err = NewECGroup("unknown order", curve, curve.Infinity())
	assert.True(t, errors.Is(err, ErrInvalidGroup))
}

func TestECDescription(t *testing.T) {
	d := DefaultGroups["P-256"].Description()
	assert.Equal(t, &GroupDescription{Type: "named", Name: "P-256"}, d)

	k1, err := ecparams.ByName("secp256k1")
	require.NoError(t, err)
	grp, err := NewECGroupFromDescriptor(k1, ec.DefaultConfig())
	require.NoError(t, err)
	d = grp.Description()
	assert.Equal(t, "ec", d.Type)
	assert.Equal(t, 0, d.P.Cmp(k1.P))
	assert.Equal(t, 0, d.A.Sign())
	assert.Equal(t, 0, d.Q.Cmp(k1.N))

	restored, err := GroupFromDescription(d)
	require.NoError(t, err)
	requireGroupElementEqual(t, grp.G(), restored.G())

	d.G = d.G[:len(d.G)-1]
	_, err = GroupFromDescription(d)
	assert.True(t, errors.Is(err, ec.ErrInvalidEncoding))
	_, err = GroupFromDescription(&GroupDescription{Type: "ec", P: k1.P})
	assert.True(t, errors.Is(err, ErrInvalidGroup))
}
