package common

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/privacybydesign/uprove/big"
)

// CPRNG is AES-256 in counter mode keyed by a 32 byte seed. Readers reserve
// their blocks through an atomic counter, so concurrent reads never share
// keystream.
type CPRNG struct {
	block   cipher.Block
	counter atomic.Uint64
}

func NewCPRNG(seed *[32]byte) (*CPRNG, error) {
	block, err := aes.NewCipher(seed[:])
	if err != nil {
		return nil, err
	}
	return &CPRNG{block: block}, nil
}

// Read fills buf with keystream. Block i encrypts the little-endian counter
// value i in the first 8 bytes of an otherwise zero block.
func (c *CPRNG) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	blocks := uint64((len(buf) + aes.BlockSize - 1) / aes.BlockSize)
	ctr := c.counter.Add(blocks) - blocks

	var in, out [aes.BlockSize]byte
	for off := 0; off < len(buf); off += aes.BlockSize {
		binary.LittleEndian.PutUint64(in[:8], ctr)
		ctr++
		c.block.Encrypt(out[:], in[:])
		copy(buf[off:], out[:])
	}
	return len(buf), nil
}

var (
	samplerOnce sync.Once
	sampler     *CPRNG
)

// sampleSource returns the process-wide generator, seeded from crypto/rand on
// first use.
func sampleSource() *CPRNG {
	samplerOnce.Do(func() {
		var seed [32]byte
		if _, err := rand.Read(seed[:]); err != nil {
			panic(fmt.Sprintf("failed to seed sampler: %v", err))
		}
		var err error
		if sampler, err = NewCPRNG(&seed); err != nil {
			panic(fmt.Sprintf("failed to initialize sampler: %v", err))
		}
	})
	return sampler
}

// SampleBelow returns a uniform value in [0, limit) for draws that need not be
// secret, such as the candidates of a randomized square root search.
func SampleBelow(limit *big.Int) *big.Int {
	res, err := big.RandInt(sampleSource(), limit)
	if err != nil {
		panic(fmt.Sprintf("big.RandInt failed: %v", err))
	}
	return res
}
