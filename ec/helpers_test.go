package ec

import (
	"crypto/elliptic"
	"crypto/rand"
	gobig "math/big"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/privacybydesign/uprove/big"
	"github.com/stretchr/testify/require"
)

var supportedCoordinates = []CoordinateSystem{Affine, Homogeneous, Jacobian, JacobianModified}

type namedParams struct {
	name   string
	params *elliptic.CurveParams
	curve  elliptic.Curve
	a      *big.Int
}

// testParams lists the curves with an independent implementation to compare
// against. The NIST curves have a = -3, secp256k1 has a = 0.
func testParams() []namedParams {
	minusThree := func(p *gobig.Int) *big.Int {
		return big.Convert(new(gobig.Int).Sub(p, gobig.NewInt(3)))
	}
	k1 := secp256k1.S256()
	return []namedParams{
		{"P-224", elliptic.P224().Params(), elliptic.P224(), minusThree(elliptic.P224().Params().P)},
		{"P-256", elliptic.P256().Params(), elliptic.P256(), minusThree(elliptic.P256().Params().P)},
		{"P-384", elliptic.P384().Params(), elliptic.P384(), minusThree(elliptic.P384().Params().P)},
		{"P-521", elliptic.P521().Params(), elliptic.P521(), minusThree(elliptic.P521().Params().P)},
		{"secp256k1", k1.Params(), k1, big.NewInt(0)},
	}
}

func newTestCurve(t testing.TB, np namedParams, conf Config) (*Curve, *Point) {
	c, err := NewCurveWithConfig(
		big.Convert(np.params.P), np.a, big.Convert(np.params.B),
		big.Convert(np.params.N), big.NewInt(1), conf,
	)
	require.NoError(t, err)
	g, err := c.CreatePoint(big.Convert(np.params.Gx), big.Convert(np.params.Gy))
	require.NoError(t, err)
	require.True(t, g.IsValid())
	return c, g
}

func p256(t testing.TB, coords CoordinateSystem) (*Curve, *Point) {
	return newTestCurve(t, testParams()[1], Config{Coordinates: coords})
}

func randomScalar(t testing.TB, max *big.Int) *big.Int {
	k, err := big.RandInt(rand.Reader, max)
	require.NoError(t, err)
	return k
}

// oracleMultiply computes k·(x, y) with the standard library or decred.
func oracleMultiply(np namedParams, x, y, k *big.Int) (*big.Int, *big.Int) {
	rx, ry := np.curve.ScalarMult(x.Go(), y.Go(), k.Bytes())
	return big.Convert(rx), big.Convert(ry)
}

func requirePointEqual(t *testing.T, expected, actual *Point) {
	t.Helper()
	require.True(t, expected.Equal(actual), "expected %v, got %v", expected, actual)
}
