// Copyright 2016 The Go Authors. All rights reserved.
// Copyright 2019 Henry de Valence. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scalar implements arithmetic modulo
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// the prime order of the ristretto255 group.
package scalar

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"math/bits"
)

// A Scalar is an integer modulo l, held canonical (< l) between calls. It is
// represented as four 64-bit limbs in little-endian word order.
//
// The zero value is a valid zero element.
type Scalar struct {
	limbs [4]uint64
}

// l, the group order, as little-endian 64-bit limbs.
var lWords = [4]uint64{
	0x5812631a5cf5d3ed,
	0x14def9dea2f79cd6,
	0x0,
	0x1000000000000000,
}

// mu = floor(2^512 / l), the Barrett reduction constant, as little-endian
// 64-bit limbs (5 words; mu is a 260-bit number).
var muWords = [5]uint64{
	0xed9ce5a30a2c131b,
	0x2106215d086329a7,
	0xffffffffffffffeb,
	0xffffffffffffffff,
	0x000000000000000f,
}

// Zero returns the additive identity.
func Zero() *Scalar { return &Scalar{} }

// One returns the multiplicative identity.
func One() *Scalar { return &Scalar{limbs: [4]uint64{1, 0, 0, 0}} }

// Set sets s = x and returns s.
func (s *Scalar) Set(x *Scalar) *Scalar {
	*s = *x
	return s
}

// SetUint64 sets s = x, spec.md's set_unsigned.
func (s *Scalar) SetUint64(x uint64) *Scalar {
	s.limbs = [4]uint64{x, 0, 0, 0}
	return s
}

// IsZero returns 1 if s == 0, and 0 otherwise.
func (s *Scalar) IsZero() int {
	z := make([]byte, 32)
	return subtle.ConstantTimeCompare(s.Bytes(), z)
}

// Equal returns 1 if s == t, and 0 otherwise.
func (s *Scalar) Equal(t *Scalar) int {
	return subtle.ConstantTimeCompare(s.Bytes(), t.Bytes())
}

// Select sets s to a if cond == 1, or to b if cond == 0, in constant time.
func (s *Scalar) Select(a, b *Scalar, cond int) *Scalar {
	m := uint64(0) - uint64(cond&1)
	for i := range s.limbs {
		s.limbs[i] = b.limbs[i] ^ (m & (a.limbs[i] ^ b.limbs[i]))
	}
	return s
}

// sub4 computes a - b over four 64-bit limbs and returns the result along
// with the borrow out of the top limb.
func sub4(a, b [4]uint64) (out [4]uint64, borrow uint64) {
	var c uint64
	out[0], c = bits.Sub64(a[0], b[0], 0)
	out[1], c = bits.Sub64(a[1], b[1], c)
	out[2], c = bits.Sub64(a[2], b[2], c)
	out[3], c = bits.Sub64(a[3], b[3], c)
	return out, c
}

// add4 computes a + b over four 64-bit limbs and returns the result,
// discarding the carry out of the top limb.
func add4(a, b [4]uint64) (out [4]uint64) {
	var c uint64
	out[0], c = bits.Add64(a[0], b[0], 0)
	out[1], c = bits.Add64(a[1], b[1], c)
	out[2], c = bits.Add64(a[2], b[2], c)
	out[3], _ = bits.Add64(a[3], b[3], c)
	return out
}

func selectWords4(a, b [4]uint64, cond uint64) (out [4]uint64) {
	m := uint64(0) - (cond & 1)
	for i := range out {
		out[i] = b[i] ^ (m & (a[i] ^ b[i]))
	}
	return out
}

// Add sets s = x + y mod l and returns s.
func (s *Scalar) Add(x, y *Scalar) *Scalar {
	sum := add4(x.limbs, y.limbs)
	// x, y < l, so sum < 2l; a single conditional subtraction suffices.
	diff, borrow := sub4(sum, lWords)
	s.limbs = selectWords4(diff, sum, 1-borrow)
	return s
}

// Subtract sets s = x - y mod l and returns s.
func (s *Scalar) Subtract(x, y *Scalar) *Scalar {
	diff, borrow := sub4(x.limbs, y.limbs)
	masked := selectWords4(lWords, [4]uint64{}, borrow)
	s.limbs = add4(diff, masked)
	return s
}

// Negate sets s = -x mod l and returns s.
func (s *Scalar) Negate(x *Scalar) *Scalar {
	return s.Subtract(Zero(), x)
}

// mulWords multiplies two little-endian limb slices, returning a result of
// len(a)+len(b) words. This is the one piece of scalar arithmetic sized by
// its (fixed, public) argument lengths rather than unrolled by hand; array
// sizes here are always the same for every call (4x4 or 5x5 or 5x4), so the
// loop bounds never depend on scalar values.
func mulWords(a, b []uint64) []uint64 {
	out := make([]uint64, len(a)+len(b))
	for i, ai := range a {
		var carry uint64
		for j, bj := range b {
			hi, lo := bits.Mul64(ai, bj)
			var cc uint64
			lo, cc = bits.Add64(lo, carry, 0)
			hi += cc
			lo, cc = bits.Add64(lo, out[i+j], 0)
			hi += cc
			out[i+j] = lo
			carry = hi
		}
		for k := i + len(b); k < len(out); k++ {
			out[k], carry = bits.Add64(out[k], carry, 0)
		}
	}
	return out
}

// barrettReduce reduces an 8-word (512-bit) product x modulo l using
// Barrett reduction with the precomputed mu above, following the standard
// k=4-word Barrett algorithm (Handbook of Applied Cryptography, Algorithm
// 14.42), specialized to l's 253-bit modulus.
func barrettReduce(x [8]uint64) [4]uint64 {
	// q1 = x >> 64*(k-1) = x >> 192: words [3:8], 5 words.
	q1 := append([]uint64{}, x[3:8]...)

	// q2 = q1 * mu, up to 10 words.
	q2 := mulWords(q1, muWords[:])

	// q3 = q2 >> 64*(k+1) = q2 >> 320: words [5:10], 5 words.
	var q3 [5]uint64
	copy(q3[:], q2[5:10])

	// r1 = x mod 2^320: low 5 words of x.
	var r1 [5]uint64
	copy(r1[:], x[0:5])

	// r2 = (q3 * l) mod 2^320: low 5 words of the product.
	r2full := mulWords(q3[:], lWords[:])
	var r2 [5]uint64
	copy(r2[:], r2full[0:5])

	// r = r1 - r2 mod 2^320 (wraparound is intentional and self-correcting,
	// matching the Barrett bound r < 3l).
	var borrow uint64
	var r [5]uint64
	r[0], borrow = bits.Sub64(r1[0], r2[0], 0)
	r[1], borrow = bits.Sub64(r1[1], r2[1], borrow)
	r[2], borrow = bits.Sub64(r1[2], r2[2], borrow)
	r[3], borrow = bits.Sub64(r1[3], r2[3], borrow)
	r[4], _ = bits.Sub64(r1[4], r2[4], borrow)

	// At most a handful of conditional subtractions of l remain; bound the
	// loop at a fixed count so it never branches on the scalar's value.
	for i := 0; i < 4; i++ {
		var b4 uint64
		var d [4]uint64
		d[0], b4 = bits.Sub64(r[0], lWords[0], 0)
		d[1], b4 = bits.Sub64(r[1], lWords[1], b4)
		d[2], b4 = bits.Sub64(r[2], lWords[2], b4)
		d[3], b4 = bits.Sub64(r[3], lWords[3], b4)
		d4, b4 := bits.Sub64(r[4], 0, b4)
		take := 1 - b4
		r[0] = d[0]&(0-take) | r[0]&^(0-take)
		r[1] = d[1]&(0-take) | r[1]&^(0-take)
		r[2] = d[2]&(0-take) | r[2]&^(0-take)
		r[3] = d[3]&(0-take) | r[3]&^(0-take)
		r[4] = d4&(0-take) | r[4]&^(0-take)
	}

	return [4]uint64{r[0], r[1], r[2], r[3]}
}

// Multiply sets s = x * y mod l and returns s.
func (s *Scalar) Multiply(x, y *Scalar) *Scalar {
	prod := mulWords(x.limbs[:], y.limbs[:])
	var wide [8]uint64
	copy(wide[:], prod)
	s.limbs = barrettReduce(wide)
	return s
}

// Halve sets s = x/2 mod l and returns s.
func (s *Scalar) Halve(x *Scalar) *Scalar {
	// If x is even, halve directly. If odd, add l (making it even; l is
	// odd so x+l is even) before halving.
	odd := x.limbs[0] & 1
	masked := selectWords4(lWords, [4]uint64{}, odd)
	sum := add4(x.limbs, masked)
	// sum may be >= 2^256-ish only if x+l overflowed 4 limbs, which cannot
	// happen since x < l and l < 2^253, so x+l < 2^254.
	var out [4]uint64
	var carry uint64
	for i := 3; i >= 0; i-- {
		out[i] = (sum[i] >> 1) | (carry << 63)
		carry = sum[i] & 1
	}
	s.limbs = out
	return s
}

// Invert sets s = 1/x mod l via Fermat's little theorem (x^(l-2)) and
// returns s along with a constant-time success flag. If x == 0, s is set
// to 0 and the returned flag is 0, per spec.md §7's "invert of zero"
// failure.
func (s *Scalar) Invert(x *Scalar) (*Scalar, int) {
	ok := 1 - x.IsZero()

	// l - 2 in little-endian bytes.
	exp := Zero()
	two := new(Scalar).SetUint64(2)
	lScalar := Scalar{limbs: lWords}
	exp.Subtract(&lScalar, two)

	result := One()
	base := new(Scalar).Set(x)
	for bit := 0; bit < 256; bit++ {
		word := exp.limbs[bit/64]
		if (word>>(uint(bit)%64))&1 == 1 {
			result.Multiply(result, base)
		}
		base.Multiply(base, base)
	}

	s.Select(result, Zero(), ok)
	return s, ok
}

// SetCanonicalBytes decodes a 32-byte little-endian scalar, per spec.md's
// Scalar.decode. If the encoding x is >= l, SetCanonicalBytes sets s to
// x - l (one subtraction of l, which is fully reduced only when x < 2l) and
// returns a false flag (not an error, to match spec.md's "returns the
// reduced value with FAILURE").
func (s *Scalar) SetCanonicalBytes(x []byte) (*Scalar, bool) {
	if len(x) != 32 {
		panic("scalar: invalid scalar length")
	}
	var limbs [4]uint64
	limbs[0] = binary.LittleEndian.Uint64(x[0:8])
	limbs[1] = binary.LittleEndian.Uint64(x[8:16])
	limbs[2] = binary.LittleEndian.Uint64(x[16:24])
	limbs[3] = binary.LittleEndian.Uint64(x[24:32])

	diff, borrow := sub4(limbs, lWords)
	canonical := borrow // 1 iff limbs < l
	s.limbs = selectWords4(limbs, diff, canonical)
	return s, canonical == 1
}

// errInvalidScalar is returned by higher layers; kept here so
// SetCanonicalBytes's sibling convenience wrapper can surface an error type
// without every caller re-deriving the message.
var errInvalidScalar = errors.New("invalid scalar encoding")

// ErrInvalidScalar reports non-canonical scalar encodings.
func ErrInvalidScalar() error { return errInvalidScalar }

// SetBytesWide implements spec.md's decode_long: it reduces an
// arbitrary-length little-endian byte string modulo l by processing it in
// 32-byte chunks from most significant to least significant, accumulating
// r <- r*2^256 + chunk mod l. This supplies wide reduction for deriving
// scalars from hash output (e.g. 64-byte SHA-512 digests).
func (s *Scalar) SetBytesWide(x []byte) *Scalar {
	// r256 = 2^256 mod l, used to fold in each successive most-significant
	// chunk via Horner's method.
	r256 := fromLimbs([4]uint64{
		0xd6ec31748d98951d, 0xc6ef5bf4737dcf70, 0xfffffffffffffffe, 0x0fffffffffffffff,
	})
	n := (len(x) + 31) / 32
	acc := Zero()
	for i := n - 1; i >= 0; i-- {
		start := i * 32
		end := start + 32
		var chunk [32]byte
		if end > len(x) {
			copy(chunk[:], x[start:])
		} else {
			copy(chunk[:], x[start:end])
		}
		c := reduceLooseBytes(chunk[:])
		acc.Multiply(acc, r256)
		acc.Add(acc, c)
	}
	*s = *acc
	return s
}

// reduceLooseBytes reduces an arbitrary (possibly non-canonical, since it
// may be the high chunk of a hash) 32-byte little-endian string modulo l by
// treating it as a 4-limb value multiplied by 1 through the Barrett
// reducer, rather than assuming canonicity the way SetCanonicalBytes does.
func reduceLooseBytes(x []byte) *Scalar {
	var limbs [4]uint64
	limbs[0] = binary.LittleEndian.Uint64(x[0:8])
	limbs[1] = binary.LittleEndian.Uint64(x[8:16])
	limbs[2] = binary.LittleEndian.Uint64(x[16:24])
	limbs[3] = binary.LittleEndian.Uint64(x[24:32])
	var wide [8]uint64
	copy(wide[:4], limbs[:])
	return fromLimbs(barrettReduce(wide))
}

func fromLimbs(limbs [4]uint64) *Scalar {
	return &Scalar{limbs: limbs}
}

// Bytes returns the 32-byte little-endian canonical encoding of s
// (spec.md's Scalar.encode).
func (s *Scalar) Bytes() []byte {
	var out [32]byte
	binary.LittleEndian.PutUint64(out[0:8], s.limbs[0])
	binary.LittleEndian.PutUint64(out[8:16], s.limbs[1])
	binary.LittleEndian.PutUint64(out[16:24], s.limbs[2])
	binary.LittleEndian.PutUint64(out[24:32], s.limbs[3])
	return out[:]
}

// Destroy zeroes s in place. Go cannot guarantee a write survives dead-store
// elimination the way a compiler barrier intrinsic would in C; this mirrors
// the best-effort zeroization idiom used throughout the pack's other
// constant-time Go code (range over the backing array, no early return).
func (s *Scalar) Destroy() {
	for i := range s.limbs {
		s.limbs[i] = 0
	}
}
