package common

import "crypto/sha256"

// DigestSHA256 returns the SHA-256 hash of the concatenation of parts.
func DigestSHA256(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
