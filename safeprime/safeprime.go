// Package safeprime searches for safe primes p = 2q+1, which give the
// subgroup groups of quadratic residues their prime order q.
package safeprime

import (
	"crypto/rand"
	"io"
	"runtime"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/uprove/big"
)

var (
	ErrStopped  = errors.New("safe prime search stopped")
	ErrTooSmall = errors.New("safe primes need at least 3 bits")

	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Generate returns a safe prime of exactly bitsize bits. An odd candidate q of
// bitsize-1 bits is accepted when 2^(2q) = 1 mod 2q+1 and q is prime, which
// implies that 2q+1 is prime as well. See
// https://www.ijipbangalore.org/abstracts_2(1)/p5.pdf.
//
// The search ends with ErrStopped once stop is closed or receives a value; a
// nil stop channel never ends the search.
func Generate(bitsize int, stop <-chan struct{}) (*big.Int, error) {
	return generate(rand.Reader, bitsize, stop)
}

func generate(rnd io.Reader, bitsize int, stop <-chan struct{}) (*big.Int, error) {
	if bitsize < 3 {
		return nil, ErrTooSmall
	}
	var (
		bound   = new(big.Int).Lsh(one, uint(bitsize-1))
		p       = new(big.Int)
		residue = new(big.Int)
	)
	for i := 0; ; i++ {
		if stop != nil && i%256 == 0 {
			select {
			case <-stop:
				return nil, ErrStopped
			default:
			}
		}

		q, err := big.RandInt(rnd, bound)
		if err != nil {
			return nil, errors.WrapPrefix(err, "failed to draw candidate", 0)
		}
		// force the top and bottom bits so that 2q+1 has bitsize bits
		q.SetBit(q, bitsize-2, 1)
		q.SetBit(q, 0, 1)

		p.Lsh(q, 1)
		p.Add(p, one)
		if residue.Exp(two, new(big.Int).Lsh(q, 1), p).Cmp(one) != 0 {
			continue
		}
		if q.ProbablyPrime(40) {
			break
		}
	}

	if !ProbablySafePrime(p, 40) {
		return nil, errors.New("safe prime search returned a non-safe prime")
	}
	return p, nil
}

// GenerateConcurrent searches on all cores and returns the first safe prime
// found. The other searches are stopped before it returns.
func GenerateConcurrent(bitsize int, stop <-chan struct{}) (*big.Int, error) {
	count := runtime.GOMAXPROCS(0)
	type result struct {
		p   *big.Int
		err error
	}
	results := make(chan result, count)
	done := make(chan struct{})
	defer close(done)

	// forward the caller's stop to all workers; done also releases this goroutine
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-stop:
		case <-done:
		}
	}()

	for i := 0; i < count; i++ {
		go func() {
			p, err := Generate(bitsize, stopped)
			results <- result{p, err}
		}()
	}

	r := <-results
	return r.p, r.err
}

// ProbablySafePrime reports whether x and (x-1)/2 are both probably prime,
// using n Miller-Rabin rounds each.
func ProbablySafePrime(x *big.Int, n int) bool {
	if x.Cmp(two) <= 0 || !x.ProbablyPrime(n) {
		return false
	}
	return new(big.Int).Rsh(x, 1).ProbablyPrime(n)
}
