package big

import (
	"crypto/rand"
	"encoding/json"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/require"
)

func testBase64(t *testing.T, bigint *Int) *Int {
	bts, err := json.Marshal(bigint)
	require.NoError(t, err)
	unmarshaled := new(Int)
	err = json.Unmarshal(bts, unmarshaled)
	require.NoError(t, err)
	require.Zero(t, bigint.Cmp(unmarshaled))
	return unmarshaled
}

func TestInt(t *testing.T) {
	var i int64 = 42
	bigint := NewInt(i)
	unmarshaled := testBase64(t, bigint)
	require.Equal(t, i, unmarshaled.Int64())
}

func TestZero(t *testing.T) {
	var i int64 = 0
	bigint := NewInt(i)
	unmarshaled := testBase64(t, bigint)
	require.Equal(t, i, unmarshaled.Int64())
}

func TestBigInt(t *testing.T) {
	s := "8931748931759284679376938475395713602744853768923750102"
	bigint, ok := new(Int).SetString(s, 10)
	require.True(t, ok)
	unmarshaled := testBase64(t, bigint)
	require.Equal(t, s, unmarshaled.String())
}

func TestRandom(t *testing.T) {
	max := new(Int).Lsh(NewInt(1), 100)
	bigint, err := RandInt(rand.Reader, max)
	require.NoError(t, err)
	testBase64(t, bigint)
}

func TestNegative(t *testing.T) {
	bigint := NewInt(-42)
	_, err := json.Marshal(bigint)
	require.Error(t, err)
}

func TestFixedBytes(t *testing.T) {
	bts, err := NewInt(0x0102).FixedBytes(4)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 1, 2}, bts)

	bts, err = NewInt(0).FixedBytes(2)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0}, bts)

	_, err = NewInt(0x010203).FixedBytes(2)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTooLong))

	_, err = NewInt(-1).FixedBytes(2)
	require.Error(t, err)
}

func TestBinary(t *testing.T) {
	bigint := MustHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")
	bts, err := bigint.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, bts, 32)

	unmarshaled := new(Int)
	require.NoError(t, unmarshaled.UnmarshalBinary(bts))
	require.Zero(t, bigint.Cmp(unmarshaled))
}

func TestMustHex(t *testing.T) {
	require.Equal(t, int64(255), MustHex("ff").Int64())
	require.Panics(t, func() { MustHex("not hex") })
}
