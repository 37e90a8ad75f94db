// Copyright 2016 Maarten Everts. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package uprove provides the prime-order groups used by the U-Prove protocol:
// the recommended elliptic curve groups on top of package ec, and subgroups of
// the multiplicative group of a prime field. Exponents live in FieldZq, the
// integers modulo the group order.
//
// Groups are immutable after construction and safe for concurrent use.
package uprove
