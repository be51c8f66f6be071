// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards

// BasicTable holds the eight multiples [1]P, [2]P, ..., [8]P of a point P,
// cached, for use with a signed radix-16 digit expansion
// (Scalar.SignedRadix16): each digit d in [-8, 8] picks |d|'s cached entry
// and conditionally negates it. SignedRadix16's digits range over all of
// [-8, 8], not just odd values, so unlike NafTable5 this table cannot skip
// the even multiples. Grounded on the "projLookupTable" shape used by the
// pack's constant-time variable-base scalar multiplication.
type BasicTable struct {
	entries [8]Cached
}

// FromPoint fills t with the multiples 1*p, 2*p, ..., 8*p.
func (t *BasicTable) FromPoint(p *Point) *BasicTable {
	t.entries[0].FromPoint(p)
	for i := 1; i < 8; i++ {
		var next Point
		next.AddCached(p, &t.entries[i-1])
		t.entries[i].FromPoint(&next)
	}
	return t
}

// SelectInto sets dst to |digit|*P from the table, negated if digit < 0, in
// constant time with respect to digit. digit must be in [-8, 8].
func (t *BasicTable) SelectInto(dst *Cached, digit int8) {
	sign := digit >> 7 // 0xff..ff if digit < 0, else 0
	absDigit := (digit + int8(sign)) ^ int8(sign)

	dst.YplusX.One()
	dst.YminusX.One()
	dst.Z.One()
	dst.T2d.Zero()
	for i := 0; i < 8; i++ {
		cond := constEq(int(absDigit), i+1)
		dst.YplusX.Select(&t.entries[i].YplusX, &dst.YplusX, cond)
		dst.YminusX.Select(&t.entries[i].YminusX, &dst.YminusX, cond)
		dst.Z.Select(&t.entries[i].Z, &dst.Z, cond)
		dst.T2d.Select(&t.entries[i].T2d, &dst.T2d, cond)
	}

	// Negate in place if digit < 0: negating a Cached swaps YplusX/YminusX
	// and flips the sign of T2d.
	negCond := int(sign) & 1
	yp, ym := dst.YplusX, dst.YminusX
	dst.YplusX.Select(&ym, &dst.YplusX, negCond)
	dst.YminusX.Select(&yp, &dst.YminusX, negCond)
	var negT2d = dst.T2d
	negT2d.Negate(&dst.T2d)
	dst.T2d.Select(&negT2d, &dst.T2d, negCond)
}

func constEq(a, b int) int {
	x := uint64(uint32(a ^ b))
	return int((x - 1) >> 63)
}

// AffineBasicTable is BasicTable with Z folded to 1, used for the
// precomputed basepoint table and other points scalar-multiplied many
// times.
type AffineBasicTable struct {
	entries [8]AffineCached
}

// FromPoint fills t with the multiples 1*p, 2*p, ..., 8*p in affine-cached
// form.
func (t *AffineBasicTable) FromPoint(p *Point) *AffineBasicTable {
	var affineP AffineCached
	affineP.FromPoint(p)

	t.entries[0].FromPoint(p)
	prev := *p
	for i := 1; i < 8; i++ {
		var next Point
		next.AddAffine(&prev, &affineP)
		t.entries[i].FromPoint(&next)
		prev = next
	}
	return t
}

// SelectInto is AffineBasicTable's equivalent of BasicTable.SelectInto.
func (t *AffineBasicTable) SelectInto(dst *AffineCached, digit int8) {
	sign := digit >> 7
	absDigit := (digit + int8(sign)) ^ int8(sign)

	dst.YplusX.One()
	dst.YminusX.One()
	dst.T2d.Zero()
	for i := 0; i < 8; i++ {
		cond := constEq(int(absDigit), i+1)
		dst.YplusX.Select(&t.entries[i].YplusX, &dst.YplusX, cond)
		dst.YminusX.Select(&t.entries[i].YminusX, &dst.YminusX, cond)
		dst.T2d.Select(&t.entries[i].T2d, &dst.T2d, cond)
	}

	negCond := int(sign) & 1
	yp, ym := dst.YplusX, dst.YminusX
	dst.YplusX.Select(&ym, &dst.YplusX, negCond)
	dst.YminusX.Select(&yp, &dst.YminusX, negCond)
	var negT2d = dst.T2d
	negT2d.Negate(&dst.T2d)
	dst.T2d.Select(&negT2d, &dst.T2d, negCond)
}

// AffineNafTable5 holds the eight odd multiples [1]P, [3]P, ..., [15]P of a
// point P in affine-cached form, for lookup by a width-5 non-adjacent-form
// digit expansion against a point that is reused across many
// multiplications (e.g. the ristretto255 generator in
// Element.VarTimeDoubleScalarBaseMult). It is AffineBasicTable's odd-only,
// NafTable5-shaped counterpart.
type AffineNafTable5 struct {
	entries [8]AffineCached
}

// FromPoint fills t with the odd multiples of p.
func (t *AffineNafTable5) FromPoint(p *Point) *AffineNafTable5 {
	t.entries[0].FromPoint(p)
	var p2 Point
	p2.Double(p)
	for i := 1; i < 8; i++ {
		var next Point
		next.AddAffine(&p2, &t.entries[i-1])
		t.entries[i].FromPoint(&next)
	}
	return t
}

// SelectInto sets dst to |naf|*P, negated if naf < 0, branching on naf (a
// public NAF digit) exactly as NafTable5.SelectInto does.
func (t *AffineNafTable5) SelectInto(dst *AffineCached, naf int8) {
	if naf > 0 {
		*dst = t.entries[naf/2]
		return
	}
	e := t.entries[(-naf)/2]
	dst.YplusX = e.YminusX
	dst.YminusX = e.YplusX
	dst.T2d.Negate(&e.T2d)
}

// NafTable5 holds the eight odd multiples [1]P, [3]P, ..., [15]P of a point
// P for lookup by a width-5 non-adjacent-form digit expansion
// (Scalar.NonAdjacentForm(5)), used by variable-time double-scalar
// multiplication. Unlike BasicTable, lookups here are allowed to branch on
// the (public, by construction) NAF digit.
type NafTable5 struct {
	entries [8]Cached
}

// FromPoint fills t with the odd multiples of p.
func (t *NafTable5) FromPoint(p *Point) *NafTable5 {
	var pp Point
	pp.Set(p)

	t.entries[0].FromPoint(&pp)
	var p2 Point
	p2.Double(&pp)
	for i := 1; i < 8; i++ {
		var next Point
		next.AddCached(&p2, &t.entries[i-1])
		t.entries[i].FromPoint(&next)
	}
	return t
}

// SelectInto sets dst to |naf|*P, negated if naf < 0. naf must be odd and in
// [-15, 15] (anything else is a caller bug, since NonAdjacentForm only ever
// emits odd digits or zero, and zero digits are skipped by the caller).
func (t *NafTable5) SelectInto(dst *Cached, naf int8) {
	if naf > 0 {
		*dst = t.entries[naf/2]
		return
	}
	var neg Cached
	e := t.entries[(-naf)/2]
	neg.YplusX = e.YminusX
	neg.YminusX = e.YplusX
	neg.Z = e.Z
	neg.T2d.Negate(&e.T2d)
	*dst = neg
}
