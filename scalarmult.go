// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ristretto255

import (
	"github.com/oasislabs/ristretto255/internal/edwards"
)

// ScalarMult sets e = s*p and returns e, in constant time with respect to
// both s and p, using the signed radix-16 windowed comb of spec.md §4.5.
func (e *Element) ScalarMult(s *Scalar, p *Element) *Element {
	digits := s.s.SignedRadix16()

	var table edwards.BasicTable
	table.FromPoint(&p.r)

	var acc edwards.Point
	acc.Identity()
	for i := 63; i >= 0; i-- {
		acc.Double(&acc)
		acc.Double(&acc)
		acc.Double(&acc)
		acc.Double(&acc)

		var cached edwards.Cached
		table.SelectInto(&cached, digits[i])
		acc.AddCached(&acc, &cached)
	}

	e.r = acc
	return e
}

// ScalarBaseMult sets e = s*B, where B is the ristretto255 generator, and
// returns e, in constant time with respect to s. This is spec.md's
// precomputed_scalarmul specialized to the fixed base point.
func (e *Element) ScalarBaseMult(s *Scalar) *Element {
	digits := s.s.SignedRadix16()

	var acc edwards.Point
	acc.Identity()
	for i := 63; i >= 0; i-- {
		acc.Double(&acc)
		acc.Double(&acc)
		acc.Double(&acc)
		acc.Double(&acc)

		var cached edwards.AffineCached
		basepointTable.SelectInto(&cached, digits[i])
		acc.AddAffine(&acc, &cached)
	}

	e.r = acc
	return e
}

var basepointTable = func() edwards.AffineBasicTable {
	var t edwards.AffineBasicTable
	t.FromPoint(&basepoint)
	return t
}()

// basepointNafTable holds the generator's odd multiples for width-5
// non-adjacent-form lookups, as used by VarTimeDoubleScalarBaseMult.
// basepointTable is unsuitable there: it is indexed by the full [1,8] range
// SignedRadix16 produces, not the odd-only [1,15] range width-5 NAF digits
// range over.
var basepointNafTable = func() edwards.AffineNafTable5 {
	var t edwards.AffineNafTable5
	t.FromPoint(&basepoint)
	return t
}()

// DualScalarMult sets r1 = s1*p and r2 = s2*p and returns (r1, r2), sharing
// one table of the multiples 1*p..8*p, per spec.md's dual_scalarmul. Constant time
// with respect to s1, s2, and p.
func DualScalarMult(s1, s2 *Scalar, p *Element) (r1, r2 *Element) {
	r1 = NewElement()
	r2 = NewElement()

	var table edwards.BasicTable
	table.FromPoint(&p.r)

	digits1 := s1.s.SignedRadix16()
	digits2 := s2.s.SignedRadix16()

	var acc1, acc2 edwards.Point
	acc1.Identity()
	acc2.Identity()
	for i := 63; i >= 0; i-- {
		for j := 0; j < 4; j++ {
			acc1.Double(&acc1)
			acc2.Double(&acc2)
		}

		var c1, c2 edwards.Cached
		table.SelectInto(&c1, digits1[i])
		table.SelectInto(&c2, digits2[i])
		acc1.AddCached(&acc1, &c1)
		acc2.AddCached(&acc2, &c2)
	}

	r1.r = acc1
	r2.r = acc2
	return r1, r2
}

// VarTimeDoubleScalarBaseMult sets e = s1*B + s2*p2, where B is the
// ristretto255 generator, and returns e. This implements spec.md's
// base_double_scalarmul_non_secret using width-5 non-adjacent-form
// recoding. It runs in variable time with respect to s1, s2, and p2, and
// must never be called on secret scalars (it exists only for signature
// verification and similar public-input double-scalarmuls).
func (e *Element) VarTimeDoubleScalarBaseMult(s1 *Scalar, s2 *Scalar, p2 *Element) *Element {
	naf1 := s1.s.NonAdjacentForm(5)
	naf2 := s2.s.NonAdjacentForm(5)

	var table2 edwards.NafTable5
	table2.FromPoint(&p2.r)

	var acc edwards.Point
	acc.Identity()

	for i := 255; i >= 0; i-- {
		acc.Double(&acc)

		if d := naf1[i]; d != 0 {
			var c edwards.AffineCached
			basepointNafTable.SelectInto(&c, d)
			acc.AddAffine(&acc, &c)
		}

		if d := naf2[i]; d != 0 {
			var c edwards.Cached
			table2.SelectInto(&c, d)
			acc.AddCached(&acc, &c)
		}
	}

	e.r = acc
	return e
}

// ScalarMultDecode implements spec.md's direct_scalarmul with
// short_circuit = false: it decodes in, multiplies by s, and re-encodes.
// The scalar multiplication and encoding always run, also after a decode
// failure, and only the final success flag reflects that failure. The decode
// step itself returns early on some malformed inputs, so the total running
// time is not independent of in's validity.
func ScalarMultDecode(in []byte, s *Scalar) (out []byte, ok bool) {
	var p Element
	_, err := p.SetCanonicalBytes(in)
	decodeOK := err == nil

	// Always run scalarmul and encode, even on a decode failure, so their
	// cost is the same whether or not in decoded.
	var dummy Element
	dummy.Zero()
	target := &dummy
	if decodeOK {
		target = &p
	}

	var result Element
	result.ScalarMult(s, target)
	return result.Encode(nil), decodeOK
}

// ScalarMultDecodeVartime is ScalarMultDecode with short_circuit = true: it
// returns immediately on decode failure, in variable time with respect to
// in's validity. See spec.md §9's Open Question: callers must decide, based
// on their threat model, whether the input's validity may leak.
func ScalarMultDecodeVartime(in []byte, s *Scalar) (out []byte, ok bool) {
	var p Element
	if _, err := p.SetCanonicalBytes(in); err != nil {
		return nil, false
	}
	var result Element
	result.ScalarMult(s, &p)
	return result.Encode(nil), true
}
