// Package ec implements arithmetic on elliptic curves y² = x³ + ax + b over
// prime fields: field elements, points in several coordinate systems, point
// encoding, batch inversion and scalar multiplication (windowed NAF, Shamir's
// trick and simultaneous multi-scalar multiplication).
//
// Field elements and points are immutable values and can be shared freely
// between goroutines. The only shared mutable state is the per-curve cache of
// precomputed point tables, which is safe for concurrent use.
//
// None of the algorithms are constant time.
package ec
