// Package cbor encodes curve descriptors and group descriptions with
// github.com/fxamacker/cbor using Core Deterministic Encoding (RFC 8949,
// section 4.2.1), so that equal values always have equal encodings and can be
// fingerprinted. The decoder rejects duplicate map keys and indefinite
// lengths.
package cbor

import (
	"io"

	"github.com/fxamacker/cbor/v2" // imports as cbor
	"github.com/go-errors/errors"
	"github.com/multiformats/go-multihash"
)

const MaxArrayElements = 1024 * 16
const MaxMapPairs = 1024

var (
	encOptions = cbor.EncOptions{
		InfConvert:    cbor.InfConvertFloat16,
		IndefLength:   cbor.IndefLengthForbidden,
		NaNConvert:    cbor.NaNConvert7e00,
		ShortestFloat: cbor.ShortestFloat16,
		Sort:          cbor.SortCoreDeterministic,
		TagsMd:        cbor.TagsForbidden,
	}

	decOptions = cbor.DecOptions{
		IndefLength:      cbor.IndefLengthForbidden,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxArrayElements,
		MaxMapPairs:      MaxMapPairs,
		TagsMd:           cbor.TagsForbidden,
		TimeTag:          cbor.DecTagIgnored,

		// unknown fields are allowed so that descriptors can grow
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes src deterministically.
func Marshal(src interface{}) ([]byte, error) {
	return encMode.Marshal(src)
}

// Unmarshal decodes data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	return decMode.Unmarshal(data, dst)
}

func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// Fingerprint returns the SHA-256 multihash of the deterministic encoding of
// src.
func Fingerprint(src interface{}) (multihash.Multihash, error) {
	bts, err := Marshal(src)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to encode value for fingerprint", 0)
	}
	return multihash.Sum(bts, multihash.SHA2_256, -1)
}
