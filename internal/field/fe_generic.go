// Copyright (c) 2017 George Tankersley. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import "math/bits"

// This file is the portable multiply/square backend. Per spec.md §1, the
// per-architecture limb multiply/square kernel is an external, pluggable
// concern; the teacher's internal/radix51 package keeps exactly this split,
// gating an assembly kernel behind fe_amd64.go/fe_square_amd64.go and a
// generic fallback elsewhere. We ship only the portable fallback.

// mul64 computes the full 128-bit product of two uint64s as (hi, lo).
func mul64(a, b uint64) (hi, lo uint64) {
	return bits.Mul64(a, b)
}

// addMul64 adds a*b to the 128-bit accumulator (hi, lo) and returns the new
// accumulator; a carry out of the top word is discarded.
func addMul64(hi, lo, a, b uint64) (nhi, nlo uint64) {
	h, l := bits.Mul64(a, b)
	var c uint64
	nlo, c = bits.Add64(lo, l, 0)
	nhi, _ = bits.Add64(hi, h, c)
	return nhi, nlo
}

// shiftRightBy51 returns (hi<<64 | lo) >> 51, used to fold 102-bit partial
// products back into 51-bit limbs.
func shiftRightBy51(hi, lo uint64) uint64 {
	return (hi << (64 - 51)) | (lo >> 51)
}

// Multiply sets v = x * y mod p and returns v. x and y must be weakly
// reduced (limbs below 2^52); the result is weakly reduced.
func (v *Element) Multiply(x, y *Element) *Element {
	x0, x1, x2, x3, x4 := x.l0, x.l1, x.l2, x.l3, x.l4
	y0, y1, y2, y3, y4 := y.l0, y.l1, y.l2, y.l3, y.l4

	// y_i19 = 19 * y_i, used for the schoolbook reduction of the terms that
	// land at or above 2^255.
	y1_19 := y1 * 19
	y2_19 := y2 * 19
	y3_19 := y3 * 19
	y4_19 := y4 * 19

	var h0hi, h0lo, h1hi, h1lo, h2hi, h2lo, h3hi, h3lo, h4hi, h4lo uint64

	h0hi, h0lo = mul64(x0, y0)
	h0hi, h0lo = addMulInto(h0hi, h0lo, x1, y4_19)
	h0hi, h0lo = addMulInto(h0hi, h0lo, x2, y3_19)
	h0hi, h0lo = addMulInto(h0hi, h0lo, x3, y2_19)
	h0hi, h0lo = addMulInto(h0hi, h0lo, x4, y1_19)

	h1hi, h1lo = mul64(x0, y1)
	h1hi, h1lo = addMulInto(h1hi, h1lo, x1, y0)
	h1hi, h1lo = addMulInto(h1hi, h1lo, x2, y4_19)
	h1hi, h1lo = addMulInto(h1hi, h1lo, x3, y3_19)
	h1hi, h1lo = addMulInto(h1hi, h1lo, x4, y2_19)

	h2hi, h2lo = mul64(x0, y2)
	h2hi, h2lo = addMulInto(h2hi, h2lo, x1, y1)
	h2hi, h2lo = addMulInto(h2hi, h2lo, x2, y0)
	h2hi, h2lo = addMulInto(h2hi, h2lo, x3, y4_19)
	h2hi, h2lo = addMulInto(h2hi, h2lo, x4, y3_19)

	h3hi, h3lo = mul64(x0, y3)
	h3hi, h3lo = addMulInto(h3hi, h3lo, x1, y2)
	h3hi, h3lo = addMulInto(h3hi, h3lo, x2, y1)
	h3hi, h3lo = addMulInto(h3hi, h3lo, x3, y0)
	h3hi, h3lo = addMulInto(h3hi, h3lo, x4, y4_19)

	h4hi, h4lo = mul64(x0, y4)
	h4hi, h4lo = addMulInto(h4hi, h4lo, x1, y3)
	h4hi, h4lo = addMulInto(h4hi, h4lo, x2, y2)
	h4hi, h4lo = addMulInto(h4hi, h4lo, x3, y1)
	h4hi, h4lo = addMulInto(h4hi, h4lo, x4, y0)

	// Each h_i is currently a ~103-bit partial product. Carry it down into
	// 51-bit limbs, propagating into the next term, and fold the final
	// carry back in multiplied by 19 (the reduction identity 2^255 = 19).
	c0 := shiftRightBy51(h0hi, h0lo)
	r0 := h0lo & maskLow51Bits

	var cc uint64
	h1lo, cc = bits.Add64(h1lo, c0, 0)
	h1hi += cc
	c1 := shiftRightBy51(h1hi, h1lo)
	r1 := h1lo & maskLow51Bits

	h2lo, cc = bits.Add64(h2lo, c1, 0)
	h2hi += cc
	c2 := shiftRightBy51(h2hi, h2lo)
	r2 := h2lo & maskLow51Bits

	h3lo, cc = bits.Add64(h3lo, c2, 0)
	h3hi += cc
	c3 := shiftRightBy51(h3hi, h3lo)
	r3 := h3lo & maskLow51Bits

	h4lo, cc = bits.Add64(h4lo, c3, 0)
	h4hi += cc
	c4 := shiftRightBy51(h4hi, h4lo)
	r4 := h4lo & maskLow51Bits

	r0 += c4 * 19

	v.l0, v.l1, v.l2, v.l3, v.l4 = r0, r1, r2, r3, r4
	return v.weakReduce()
}

// addMulInto adds a*b into the 128-bit accumulator (hi, lo).
func addMulInto(hi, lo, a, b uint64) (uint64, uint64) {
	return addMul64(hi, lo, a, b)
}

// Square sets v = x * x mod p and returns v.
func (v *Element) Square(x *Element) *Element {
	return v.Multiply(x, x)
}

// Square2 sets v = 2 * x * x mod p and returns v, in the style of the
// "FeSquare2" doubled-square helper. The point-doubling formula in
// internal/edwards does not call it; it squares and adds directly.
func (v *Element) Square2(x *Element) *Element {
	v.Square(x)
	return v.Add(v, v)
}

// Invert sets v = 1/z mod p and returns v. If z == 0, the result is 0
// (spec.md's invert-of-zero failure is signaled by callers, not here: field
// inversion alone has no failure tag, only Scalar.Invert does).
//
// Uses the fixed 255-bit addition chain shared with the inverse-square-root
// routine: 254 squarings and 11 multiplications.
func (v *Element) Invert(z *Element) *Element {
	var z2, z9, z11, z2_5_0, z2_10_0, z2_20_0, z2_50_0, z2_100_0, t Element

	z2.Square(z)
	t.Square(&z2)
	t.Square(&t)
	z9.Multiply(&t, z)
	z11.Multiply(&z9, &z2)
	t.Square(&z11)
	z2_5_0.Multiply(&t, &z9)

	t.Square(&z2_5_0)
	for i := 0; i < 4; i++ {
		t.Square(&t)
	}
	z2_10_0.Multiply(&t, &z2_5_0)

	t.Square(&z2_10_0)
	for i := 0; i < 9; i++ {
		t.Square(&t)
	}
	z2_20_0.Multiply(&t, &z2_10_0)

	t.Square(&z2_20_0)
	for i := 0; i < 19; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_20_0)

	t.Square(&t)
	for i := 0; i < 9; i++ {
		t.Square(&t)
	}
	z2_50_0.Multiply(&t, &z2_10_0)

	t.Square(&z2_50_0)
	for i := 0; i < 49; i++ {
		t.Square(&t)
	}
	z2_100_0.Multiply(&t, &z2_50_0)

	t.Square(&z2_100_0)
	for i := 0; i < 99; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_100_0)

	t.Square(&t)
	for i := 0; i < 49; i++ {
		t.Square(&t)
	}
	t.Multiply(&t, &z2_50_0)

	t.Square(&t)
	t.Square(&t)
	t.Square(&t)
	t.Square(&t)
	t.Square(&t)

	return v.Multiply(&t, &z11)
}

// pow22523 sets out = z^((p-5)/8) = z^(2^252-3) using a fixed addition chain
// (11 multiplications, 251 squarings). It is the core of SqrtRatio and
// InvSqrt.
func pow22523(out, z *Element) {
	var t0, t1, t2 Element

	t0.Square(z)
	t1.Square(&t0)
	t1.Square(&t1)
	t1.Multiply(z, &t1)
	t0.Multiply(&t0, &t1)
	t0.Square(&t0)
	t0.Multiply(&t1, &t0)
	t1.Square(&t0)
	for i := 1; i < 5; i++ {
		t1.Square(&t1)
	}
	t0.Multiply(&t1, &t0)
	t1.Square(&t0)
	for i := 1; i < 10; i++ {
		t1.Square(&t1)
	}
	t1.Multiply(&t1, &t0)
	t2.Square(&t1)
	for i := 1; i < 20; i++ {
		t2.Square(&t2)
	}
	t1.Multiply(&t2, &t1)
	t1.Square(&t1)
	for i := 1; i < 10; i++ {
		t1.Square(&t1)
	}
	t0.Multiply(&t1, &t0)
	t1.Square(&t0)
	for i := 1; i < 50; i++ {
		t1.Square(&t1)
	}
	t1.Multiply(&t1, &t0)
	t2.Square(&t1)
	for i := 1; i < 100; i++ {
		t2.Square(&t2)
	}
	t1.Multiply(&t2, &t1)
	t1.Square(&t1)
	for i := 1; i < 50; i++ {
		t1.Square(&t1)
	}
	t0.Multiply(&t1, &t0)
	t0.Square(&t0)
	t0.Square(&t0)
	out.Multiply(&t0, z)
}
