package nat

import (
	"crypto/rand"
	"testing"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
	"github.com/stretchr/testify/require"
)

var testModuli = map[string]*big.Int{
	"P-256":     big.MustHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"),
	"secp256k1": big.MustHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
	"P-521":     new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 521), big.NewInt(1)),
	"small":     big.NewInt(1000003),
	"tiny":      big.NewInt(5),
}

func TestConversion(t *testing.T) {
	x := big.MustHex("0102030405060708090a0b0c")
	words, err := FromBig(4, x)
	require.NoError(t, err)
	require.Equal(t, []uint32{0x090a0b0c, 0x05060708, 0x01020304, 0}, words)
	require.Zero(t, x.Cmp(ToBig(words)))

	_, err = FromBig(2, x)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))

	_, err = FromBig(2, big.NewInt(-1))
	require.Error(t, err)
}

func TestAddSub(t *testing.T) {
	x := []uint32{0xffffffff, 0xffffffff}
	y := []uint32{1, 0}
	z := Create(2)

	require.Equal(t, uint32(1), Add(x, y, z))
	require.True(t, IsZero(z))

	require.Equal(t, -1, Sub(z, y, z))
	require.Equal(t, x, z)

	require.Equal(t, 0, Sub(x, y, z))
	require.Equal(t, []uint32{0xfffffffe, 0xffffffff}, z)

	require.True(t, Gte(x, z))
	require.False(t, Gte(z, x))
	require.True(t, Gte(x, Copy(x)))
}

func TestShifts(t *testing.T) {
	z := []uint32{0x00000003, 0x80000001}
	require.Equal(t, uint32(0x80000000), ShiftDownBit(z, 1))
	require.Equal(t, []uint32{0x80000001, 0xc0000000}, z)

	z = []uint32{0x000000ff, 0x00000001}
	require.Equal(t, uint32(0xf0000000), ShiftDownBits(z, 4, 0))
	require.Equal(t, []uint32{0x1000000f, 0}, z)

	z = []uint32{7, 8, 9}
	require.Equal(t, uint32(7), ShiftDownWord(z, 42))
	require.Equal(t, []uint32{8, 9, 42}, z)

	require.True(t, IsOne([]uint32{1, 0, 0}))
	require.False(t, IsOne([]uint32{1, 1}))
}

func TestInvert(t *testing.T) {
	for name, p := range testModuli {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				x, err := big.RandInt(rand.Reader, p)
				require.NoError(t, err)
				if x.Sign() == 0 {
					continue
				}
				inv, err := InvertBig(p, x)
				require.NoError(t, err)
				require.Zero(t, inv.Cmp(new(big.Int).ModInverse(x, p)), "inverse of %v", x)
			}
		})
	}
}

func TestInvertEdgeCases(t *testing.T) {
	p := testModuli["P-256"]

	inv, err := InvertBig(p, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, int64(1), inv.Int64())

	pm1 := new(big.Int).Sub(p, big.NewInt(1))
	inv, err = InvertBig(p, pm1)
	require.NoError(t, err)
	require.Zero(t, inv.Cmp(pm1))

	big2 := new(big.Int).Lsh(big.NewInt(1), 200)
	inv, err = InvertBig(p, big2)
	require.NoError(t, err)
	require.Zero(t, inv.Cmp(new(big.Int).ModInverse(big2, p)))

	_, err = InvertBig(p, big.NewInt(0))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInvalidInput))

	_, err = InvertBig(big.NewInt(16), big.NewInt(3))
	require.Error(t, err)

	_, err = InvertBig(big.NewInt(15), big.NewInt(5))
	require.Error(t, err)

	_, err = InvertBig(big.NewInt(7), big.NewInt(9))
	require.Error(t, err)
}

func TestInvertSmallField(t *testing.T) {
	p := big.NewInt(5)
	expected := map[int64]int64{1: 1, 2: 3, 3: 2, 4: 4}
	for x, want := range expected {
		inv, err := InvertBig(p, big.NewInt(x))
		require.NoError(t, err)
		require.Equal(t, want, inv.Int64())
	}
}

func BenchmarkInvert(b *testing.B) {
	p := testModuli["P-256"]
	x, _ := big.RandInt(rand.Reader, p)
	for i := 0; i < b.N; i++ {
		_, _ = InvertBig(p, x)
	}
}
