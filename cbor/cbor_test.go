package cbor

import (
	"bytes"
	"testing"

	"github.com/multiformats/go-multihash"
	"github.com/privacybydesign/uprove/big"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type descriptor struct {
	Name string   `cbor:"name"`
	P    *big.Int `cbor:"p"`
	Tags []string `cbor:"tags,omitempty"`
}

func TestRoundTrip(t *testing.T) {
	d := descriptor{Name: "P-256", P: big.MustHex("FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF")}
	bts, err := Marshal(d)
	require.NoError(t, err)

	var decoded descriptor
	require.NoError(t, Unmarshal(bts, &decoded))
	assert.Equal(t, d.Name, decoded.Name)
	assert.Equal(t, 0, d.P.Cmp(decoded.P))
}

func TestDeterministicMaps(t *testing.T) {
	a := map[string]int{"b": 2, "a": 1, "ccc": 3}
	first, err := Marshal(a)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Marshal(map[string]int{"ccc": 3, "a": 1, "b": 2})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDuplicateKeysRejected(t *testing.T) {
	// {"a": 1, "a": 2}
	data := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}
	var m map[string]int
	assert.Error(t, Unmarshal(data, &m))
}

func TestEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf).Encode(descriptor{Name: "x", P: big.NewInt(7)}))

	var d descriptor
	require.NoError(t, NewDecoder(&buf).Decode(&d))
	assert.Equal(t, "x", d.Name)
	assert.Equal(t, int64(7), d.P.Int64())
}

func TestFingerprint(t *testing.T) {
	d := descriptor{Name: "P-256", P: big.NewInt(23)}
	fp, err := Fingerprint(d)
	require.NoError(t, err)

	decoded, err := multihash.Decode(fp)
	require.NoError(t, err)
	assert.Equal(t, uint64(multihash.SHA2_256), decoded.Code)
	assert.Len(t, decoded.Digest, 32)

	again, err := Fingerprint(descriptor{Name: "P-256", P: big.NewInt(23)})
	require.NoError(t, err)
	assert.Equal(t, fp, again)

	other, err := Fingerprint(descriptor{Name: "P-256", P: big.NewInt(29)})
	require.NoError(t, err)
	assert.NotEqual(t, fp, other)

	_, err = Fingerprint(make(chan int))
	assert.Error(t, err)
}
