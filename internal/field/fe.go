// Copyright (c) 2017 George Tankersley. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field implements fast arithmetic modulo p = 2^255-19, the base
// field of Curve25519 and ristretto255.
package field

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
)

// An Element represents an element of the field GF(2^255-19). Note that this
// is not a cryptographically secure group, and should only be used to
// interact with ristretto255 internals.
//
// Elements are represented as five 51-bit limbs in radix 2^51, following
// the same layout the teacher's internal/radix51 package used. Between
// operations, limbs carry headroom above their nominal place value; only
// Bytes/Equal/IsNegative force a strong reduction to the unique
// representative in [0, p).
//
// The zero value is a valid zero element.
type Element struct {
	l0, l1, l2, l3, l4 uint64
}

const maskLow51Bits = (uint64(1) << 51) - 1

var (
	feZero = Element{0, 0, 0, 0, 0}
	feOne  = Element{1, 0, 0, 0, 0}
	feTwo  = Element{2, 0, 0, 0, 0}
)

// Zero sets v = 0 and returns v.
func (v *Element) Zero() *Element {
	*v = feZero
	return v
}

// One sets v = 1 and returns v.
func (v *Element) One() *Element {
	*v = feOne
	return v
}

// Set sets v = x and returns v.
func (v *Element) Set(x *Element) *Element {
	*v = *x
	return v
}

// carryPropagate1 and carryPropagate2 bring the limbs below 52, 51, 51, 51,
// 51 bits. Split in two, following the teacher's layout, because the
// compiler's inliner handles two small functions better than one large one.
func (v *Element) carryPropagate1() *Element {
	v.l1 += v.l0 >> 51
	v.l0 &= maskLow51Bits
	v.l2 += v.l1 >> 51
	v.l1 &= maskLow51Bits
	v.l3 += v.l2 >> 51
	v.l2 &= maskLow51Bits
	return v
}

func (v *Element) carryPropagate2() *Element {
	v.l4 += v.l3 >> 51
	v.l3 &= maskLow51Bits
	v.l0 += (v.l4 >> 51) * 19
	v.l4 &= maskLow51Bits
	return v
}

// weakReduce brings every limb below 2^(place+1), enough for further
// arithmetic but not for serialization or equality (spec.md's "weak
// reduction").
func (v *Element) weakReduce() *Element {
	return v.carryPropagate1().carryPropagate2()
}

// strongReduce reduces v modulo p and returns it as the unique
// representative in [0, p) (spec.md's "strong reduction"). It runs a weak
// reduction, computes q = 1 if v >= p and 0 otherwise by carrying v + 19
// through the limbs, then adds 19*q and drops bit 255, which subtracts p
// exactly when v >= p, without branching.
func (v *Element) strongReduce() *Element {
	v.weakReduce()

	// The largest possible value before a final carry propagation is
	// 2^51 + 2^13*19, so in the worst case a single conditional subtraction
	// of p suffices.
	var q uint64
	q = (v.l0 + 19) >> 51
	q = (v.l1 + q) >> 51
	q = (v.l2 + q) >> 51
	q = (v.l3 + q) >> 51
	q = (v.l4 + q) >> 51

	v.l0 += 19 * q
	v.l1 += v.l0 >> 51
	v.l0 &= maskLow51Bits
	v.l2 += v.l1 >> 51
	v.l1 &= maskLow51Bits
	v.l3 += v.l2 >> 51
	v.l2 &= maskLow51Bits
	v.l4 += v.l3 >> 51
	v.l3 &= maskLow51Bits
	v.l4 &= maskLow51Bits

	return v
}

// Add sets v = a + b and returns v.
func (v *Element) Add(a, b *Element) *Element {
	v.l0 = a.l0 + b.l0
	v.l1 = a.l1 + b.l1
	v.l2 = a.l2 + b.l2
	v.l3 = a.l3 + b.l3
	v.l4 = a.l4 + b.l4
	return v.weakReduce()
}

// feBias is 2*p in limb form, used to keep Subtract's limbs non-negative
// before the borrow is folded back in, the way the teacher's fe.Sub biases
// the minuend.
var feBias = Element{
	l0: 0xFFFFFFFFFFFDA, l1: 0xFFFFFFFFFFFFE, l2: 0xFFFFFFFFFFFFE,
	l3: 0xFFFFFFFFFFFFE, l4: 0xFFFFFFFFFFFFE,
}

// Subtract sets v = a - b and returns v.
func (v *Element) Subtract(a, b *Element) *Element {
	v.l0 = (a.l0 + feBias.l0) - b.l0
	v.l1 = (a.l1 + feBias.l1) - b.l1
	v.l2 = (a.l2 + feBias.l2) - b.l2
	v.l3 = (a.l3 + feBias.l3) - b.l3
	v.l4 = (a.l4 + feBias.l4) - b.l4
	return v.weakReduce()
}

// Negate sets v = -a and returns v.
func (v *Element) Negate(a *Element) *Element {
	return v.Subtract(feZero.Set(&Element{}), a)
}

// Abs sets v to |a| mod p (whichever of a and -a is non-negative, i.e. has a
// clear low bit when made canonical) and returns v.
func (v *Element) Abs(a *Element) *Element {
	var neg Element
	neg.Negate(a)
	v.Select(&neg, a, a.IsNegative())
	return v
}

// IsNegative returns 1 if v is negative (its low bit, spec.md's "lobit", is
// set after strong reduction), and 0 otherwise.
func (v *Element) IsNegative() int {
	b := v.Bytes()
	return int(b[0] & 1)
}

// IsHighBitSet returns spec.md's "hibit": the low bit of 2*v mod p.
func (v *Element) IsHighBitSet() int {
	var t Element
	t.Add(v, v)
	return t.IsNegative()
}

// IsZero returns 1 if v == 0, and 0 otherwise.
func (v *Element) IsZero() int {
	zero := make([]byte, 32)
	return subtle.ConstantTimeCompare(v.Bytes(), zero)
}

// Equal returns 1 if v == u, and 0 otherwise.
func (v *Element) Equal(u *Element) int {
	return subtle.ConstantTimeCompare(v.Bytes(), u.Bytes())
}

// Select sets v to a if cond == 1, or to b if cond == 0.
func (v *Element) Select(a, b *Element, cond int) *Element {
	m := uint64(0) - uint64(cond&1)
	v.l0 = b.l0 ^ (m & (a.l0 ^ b.l0))
	v.l1 = b.l1 ^ (m & (a.l1 ^ b.l1))
	v.l2 = b.l2 ^ (m & (a.l2 ^ b.l2))
	v.l3 = b.l3 ^ (m & (a.l3 ^ b.l3))
	v.l4 = b.l4 ^ (m & (a.l4 ^ b.l4))
	return v
}

// CondNegate sets v = -v if cond == 1, and leaves v unchanged if cond == 0.
func (v *Element) CondNegate(cond int) *Element {
	var neg Element
	neg.Negate(v)
	return v.Select(&neg, v, cond)
}

// SetBytes sets v to x, where x is a 32-byte little-endian encoding. The
// high bit of the last byte is ignored. SetBytes always succeeds and
// reduces modulo p; use the ristretto255 codec for canonicity checking, per
// spec.md's deserialize(bytes, with_hibit, hi_nmask) contract.
func (v *Element) SetBytes(x []byte) *Element {
	if len(x) != 32 {
		panic("field: invalid field element input size")
	}

	v.l0 = binary.LittleEndian.Uint64(x[0:8]) & maskLow51Bits
	v.l1 = (binary.LittleEndian.Uint64(x[6:14]) >> 3) & maskLow51Bits
	v.l2 = (binary.LittleEndian.Uint64(x[12:20]) >> 6) & maskLow51Bits
	v.l3 = (binary.LittleEndian.Uint64(x[19:27]) >> 1) & maskLow51Bits
	v.l4 = (binary.LittleEndian.Uint64(x[24:32]) >> 12) & maskLow51Bits & (1<<51 - 1)

	// Clear the top bit, matching spec.md's with_hibit=false serialization.
	v.l4 &= (uint64(1) << 51) - 1
	return v
}

// Bytes returns the canonical 32-byte little-endian encoding of v, strongly
// reduced modulo p.
func (v *Element) Bytes() []byte {
	var t Element
	t.Set(v).strongReduce()

	var out [32]byte
	buf := t.l0 | t.l1<<51
	binary.LittleEndian.PutUint64(out[0:8], buf)
	buf = (t.l1 >> 13) | (t.l2 << 38)
	binary.LittleEndian.PutUint64(out[8:16], buf)
	buf = (t.l2 >> 26) | (t.l3 << 25)
	binary.LittleEndian.PutUint64(out[16:24], buf)
	buf = (t.l3 >> 39) | (t.l4 << 12)
	binary.LittleEndian.PutUint64(out[24:32], buf)
	return out[:]
}

// ErrNonCanonical is returned by SetCanonicalBytes when the input is not the
// unique 32-byte encoding of a field element strictly less than p, i.e. when
// spec.md's deserialize canonicity check fails.
var ErrNonCanonical = errors.New("field: non-canonical encoding")

// SetCanonicalBytes sets v to x if x is the canonical, strictly-less-than-p
// encoding of a field element, and returns an error otherwise (the receiver
// is left unchanged on error). hiMask is always ANDed into the high byte
// (pass 0xff to keep it whole) before the canonicity check, implementing
// spec.md's hi_nmask
// parameter so callers can discard unrelated high bits first.
func (v *Element) SetCanonicalBytes(x []byte, hiMask byte) (*Element, error) {
	if len(x) != 32 {
		return nil, errors.New("field: invalid field element input size")
	}
	var b [32]byte
	copy(b[:], x)
	b[31] &= hiMask

	if b[31]>>7 != 0 {
		return nil, ErrNonCanonical
	}

	var t Element
	t.SetBytes(b[:]).strongReduce()
	if subtle.ConstantTimeCompare(t.Bytes(), b[:]) != 1 {
		return nil, ErrNonCanonical
	}

	*v = t
	return v, nil
}
