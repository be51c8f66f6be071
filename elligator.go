// Copyright 2019 The Go Authors. All rights reserved.
// Copyright 2019 George Tankersley. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ristretto255

import (
	"errors"

	"golang.org/x/crypto/sha3"

	"github.com/oasislabs/ristretto255/internal/edwards"
	"github.com/oasislabs/ristretto255/internal/field"
)

// SetUniformBytes sets e to an uniformly distributed value given 64
// uniformly distributed random bytes, via the indifferentiable construction
// of spec.md §4.4: the nonuniform Elligator2 map is applied independently to
// each 32-byte half, and the two resulting points are added. If b is not 64
// bytes long, SetUniformBytes returns nil and an error, leaving e
// unmodified.
func (e *Element) SetUniformBytes(b []byte) (*Element, error) {
	if len(b) != 64 {
		return nil, errors.New("ristretto255: SetUniformBytes input is not 64 bytes long")
	}

	var p1, p2 edwards.Point
	mapToPoint(&p1, b[:32])
	mapToPoint(&p2, b[32:])

	e.r.Add(&p1, &p2)
	return e, nil
}

// FromUniformBytes sets e to an uniformly distributed value given 64
// uniformly distributed random bytes.
//
// Deprecated: use SetUniformBytes. This API will be removed before v1.0.0.
func (e *Element) FromUniformBytes(b []byte) *Element {
	if _, err := e.SetUniformBytes(b); err != nil {
		panic(err.Error())
	}
	return e
}

// HashToGroup deterministically maps msg to a group element using SHAKE256
// as an XOF to produce 64 bytes of uniform input to SetUniformBytes, domain
// separated by dst. This is SPEC_FULL.md's supplemented hash-to-group
// convenience constructor: the core Elligator map only specifies how to
// consume already-uniform bytes, not how to derive them from a message.
func HashToGroup(msg, dst []byte) *Element {
	h := sha3.NewShake256()
	_, _ = h.Write(dst)
	_, _ = h.Write(msg)
	var uniform [64]byte
	_, _ = h.Read(uniform[:])

	e := NewElement()
	_, _ = e.SetUniformBytes(uniform[:])
	return e
}

// InvertElligatorWhichBits is spec.md's INVERT_ELLIGATOR_WHICH_BITS for the
// curve25519 case: ceil(log2(REMOVED_COFACTOR)) + 7 + 1 - (255 mod 8).
const InvertElligatorWhichBits = 5

// InvertElligatorNonuniform attempts to recover 32 bytes t such that
// mapToPoint(t) reproduces the curve point which selects out of p's
// ristretto255 equivalence class, inverting spec.md's Elligator2 map.
// which must be less than 1<<InvertElligatorWhichBits; its low 2 bits pick
// one of the 4 curve points representing p (p itself, plus its 3 nontrivial
// 4-torsion cosets), its next bit picks p or -p, bit 3 picks which branch of
// the map (square or non-square) to invert, and bit 4 picks one of the two
// roots of the quadratic in r that branch reduces to. Each value of
// which succeeds or fails independently: InvertElligatorNonuniform returns
// ok == false when that particular branch has no real preimage, without
// implying any other branch also fails.
//
// This inverts mapToPoint directly (solving for the map's internal r via the
// curve equation) rather than porting a published inversion formula: no
// pack example implements invert_elligator, and original_source/ did not
// retain the reference C implementation either (see DESIGN.md). The result
// is re-verified by re-running mapToPoint before it is ever returned, so a
// wrong branch fails closed instead of returning a bad preimage.
func InvertElligatorNonuniform(p *Element, which uint8) (out []byte, ok bool) {
	if which >= 1<<InvertElligatorWhichBits {
		return nil, false
	}

	cosetIdx := int(which & 0x3)
	negate := which&0x4 != 0
	wantWasSquare := which&0x8 != 0
	wantRootPlus := which&0x10 != 0

	var rep edwards.Point
	rep.CosetPoint(&p.r, cosetIdx)
	if negate {
		rep.Negate(&rep)
	}
	if rep.Z.IsZero() == 1 {
		return nil, false
	}

	var zInv, x, y field.Element
	zInv.Invert(&rep.Z)
	x.Multiply(&rep.X, &zInv)
	y.Multiply(&rep.Y, &zInv)
	if x.IsZero() == 1 {
		return nil, false
	}

	// s_final^2 = (1-y)/(1+y), from y = (1-s^2)/(1+s^2) in mapToPoint's last
	// steps; fails only where y = -1, which a torqued representative can
	// reach even though the canonical one never does.
	var onePlusY field.Element
	onePlusY.Add(field.One, &y)
	if onePlusY.IsZero() == 1 {
		return nil, false
	}
	var oneMinusY, onePlusYInv, s2 field.Element
	oneMinusY.Subtract(field.One, &y)
	onePlusYInv.Invert(&onePlusY)
	s2.Multiply(&oneMinusY, &onePlusYInv)

	var sAbsInv, sAbs field.Element
	if field.InvSqrt(&sAbsInv, &s2) != 1 {
		return nil, false
	}
	sAbs.Multiply(&s2, &sAbsInv) // sAbs^2 == s2

	var sFinal field.Element
	if sAbs.IsZero() == 1 {
		// s_final = 0 only arises from the wasSquare branch in mapToPoint.
		if !wantWasSquare {
			return nil, false
		}
	} else {
		var sNeg field.Element
		sNeg.Negate(&sAbs)
		nonneg, neg := &sAbs, &sNeg
		if sAbs.IsNegative() != 0 {
			nonneg, neg = &sNeg, &sAbs
		}
		if wantWasSquare {
			sFinal.Set(nonneg)
		} else {
			sFinal.Set(neg)
		}
	}

	// x = 2*s_final*v / (N * sqrt(ad-1)), so N = K*v for the known constant
	// K = 2*s_final / (x*sqrt(ad-1)). Combined with N's own definition
	// (c*(r-1)*(d-1)^2 - v, with c = -1 when wasSquare else c = r) and v's
	// definition (-(r*d+1)*(r+d)), this reduces to a quadratic in r.
	var denom, denomInv, K field.Element
	denom.Multiply(&x, field.SqrtADMinusOne)
	if denom.IsZero() == 1 {
		return nil, false
	}
	denomInv.Invert(&denom)
	K.Add(&sFinal, &sFinal)
	K.Multiply(&K, &denomInv)

	var Kplus1, dSquared, dSquaredPlus1, KplusD, KplusDsq1 field.Element
	Kplus1.Add(&K, field.One)
	dSquared.Square(field.D)
	dSquaredPlus1.Add(&dSquared, field.One)
	KplusD.Multiply(&Kplus1, field.D)
	KplusDsq1.Multiply(&Kplus1, &dSquaredPlus1)

	var A, B, C field.Element
	if wantWasSquare {
		A.Set(&KplusD)
		B.Subtract(&KplusDsq1, field.DMinusOneSQ)
		C.Add(&KplusD, field.DMinusOneSQ)
	} else {
		A.Add(&KplusD, field.DMinusOneSQ)
		B.Subtract(&KplusDsq1, field.DMinusOneSQ)
		C.Set(&KplusD)
	}
	if A.IsZero() == 1 {
		return nil, false
	}

	var disc, fourAC field.Element
	disc.Square(&B)
	fourAC.Multiply(&A, &C)
	fourAC.Multiply(&fourAC, field.Two)
	fourAC.Multiply(&fourAC, field.Two)
	disc.Subtract(&disc, &fourAC)

	var root field.Element
	if field.SqrtRatio(&root, &disc, field.One) != 1 {
		return nil, false
	}
	if !wantRootPlus {
		root.Negate(&root)
	}

	var negB, numerator, twoA, twoAInv, r field.Element
	negB.Negate(&B)
	numerator.Add(&negB, &root)
	twoA.Add(&A, &A)
	if twoA.IsZero() == 1 {
		return nil, false
	}
	twoAInv.Invert(&twoA)
	r.Multiply(&numerator, &twoAInv)

	// r = i*t^2, so t^2 = -i*r.
	var negI, tSquared, tInv, t field.Element
	negI.Negate(field.SqrtM1)
	tSquared.Multiply(&r, &negI)
	if field.InvSqrt(&tInv, &tSquared) != 1 {
		return nil, false
	}
	t.Multiply(&tSquared, &tInv)
	t.Abs(&t) // +-t map to the same point; canonicalize for a deterministic output

	tBytes := t.Bytes()
	var check edwards.Point
	mapToPoint(&check, tBytes)
	var checkElem Element
	checkElem.r = check
	if checkElem.Equal(p) != 1 {
		return nil, false
	}

	return tBytes, true
}

// InvertElligatorUniform is InvertElligatorNonuniform for the indifferentiable
// from_hash_uniform construction: it decomposes p = Q + (p - Q) for a point Q
// it builds itself from which (so Q is always in mapToPoint's image), invert
// the second half with InvertElligatorNonuniform, and returns their 64-byte
// concatenation. which's low InvertElligatorWhichBits bits select Q's own
// preimage (via a SHAKE256-derived seed rather than a second inversion, since
// Q was constructed from the seed to begin with); the next
// InvertElligatorWhichBits bits select the second half's branch.
func InvertElligatorUniform(p *Element, which uint16) (out []byte, ok bool) {
	const mask = 1<<InvertElligatorWhichBits - 1
	seedSel := which & mask
	w2 := uint8((which >> InvertElligatorWhichBits) & mask)

	h := sha3.NewShake256()
	_, _ = h.Write([]byte("ristretto255 invert_elligator_uniform seed"))
	_, _ = h.Write([]byte{byte(seedSel), byte(seedSel >> 8)})
	var seed [32]byte
	_, _ = h.Read(seed[:])

	var q edwards.Point
	mapToPoint(&q, seed[:])
	var qElem, target Element
	qElem.r = q
	target.Subtract(p, &qElem)

	half2, ok2 := InvertElligatorNonuniform(&target, w2)
	if !ok2 {
		return nil, false
	}

	out = make([]byte, 0, 64)
	out = append(out, seed[:]...)
	out = append(out, half2...)
	return out, true
}

// mapToPoint implements the non-uniform Elligator2-on-Jacobi-quartic map
// from spec.md §4.4: given 32 bytes interpreted modulo p with the top bit
// cleared, it produces a point on the curve.
func mapToPoint(out *edwards.Point, b []byte) {
	var t field.Element
	t.SetBytes(b)

	var r field.Element
	r.Square(&t)
	r.Multiply(&r, field.SqrtM1)

	var u field.Element
	u.Add(&r, field.One)
	u.Multiply(&u, field.OneMinusDSQ)

	var rPlusD field.Element
	rPlusD.Add(&r, field.D)

	var v field.Element
	v.Multiply(&r, field.D)
	v.Negate(&v)
	var minusOne field.Element
	minusOne.Negate(field.One)
	v.Add(&minusOne, &v)
	v.Multiply(&v, &rPlusD)

	var s field.Element
	wasSquare := field.SqrtRatio(&s, &u, &v)

	var sPrime field.Element
	sPrime.Multiply(&s, &t)
	sPrime.Abs(&sPrime)
	sPrime.Negate(&sPrime)

	var c field.Element
	s.Select(&s, &sPrime, wasSquare)
	c.Select(&minusOne, &r, wasSquare)

	var n field.Element
	n.Subtract(&r, field.One)
	n.Multiply(&n, &c)
	n.Multiply(&n, field.DMinusOneSQ)
	n.Subtract(&n, &v)

	var sSquare field.Element
	sSquare.Square(&s)

	var w0 field.Element
	w0.Multiply(&s, &v)
	w0.Add(&w0, &w0)

	var w1 field.Element
	w1.Multiply(&n, field.SqrtADMinusOne)

	var w2, w3 field.Element
	w2.Subtract(field.One, &sSquare)
	w3.Add(field.One, &sSquare)

	out.X.Multiply(&w0, &w3)
	out.Y.Multiply(&w2, &w1)
	out.Z.Multiply(&w1, &w3)
	out.T.Multiply(&w0, &w2)
}
