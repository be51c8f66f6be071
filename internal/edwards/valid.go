// Copyright (c) 2017 George Tankersley. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards

import "github.com/oasislabs/ristretto255/internal/field"

// Valid reports whether p satisfies the curve equation and its internal
// coordinate invariants: Z != 0, and X*Y == Z*T (the extended-coordinates
// consistency check from HWCD section 3).
func (p *Point) Valid() bool {
	if p.Z.IsZero() == 1 {
		return false
	}

	var x, y, zinv field.Element
	zinv.Invert(&p.Z)
	x.Multiply(&p.X, &zinv)
	y.Multiply(&p.Y, &zinv)

	if !isOnCurve(&x, &y) {
		return false
	}

	var xy, zt field.Element
	xy.Multiply(&p.X, &p.Y)
	zt.Multiply(&p.Z, &p.T)
	return xy.Equal(&zt) == 1
}

// isOnCurve reports whether affine (x, y) satisfies -x^2 + y^2 = 1 + d*x^2*y^2.
func isOnCurve(x, y *field.Element) bool {
	var lh, y2, rh field.Element
	lh.Square(x)
	y2.Square(y)
	rh.Multiply(&lh, &y2)
	rh.Multiply(&rh, field.D)
	rh.Add(&rh, field.One)
	lh.Negate(&lh)
	lh.Add(&lh, &y2)
	lh.Subtract(&lh, &rh)
	return lh.IsZero() == 1
}

// fourTorsion holds the three points of order dividing 4 other than the
// identity: (0, -1), (+-sqrt(-1), 0). Computed once from field constants.
var fourTorsion = func() [3]Point {
	var zero, minusOne, sqrtM1, negSqrtM1 field.Element
	zero.Zero()
	minusOne.Negate(field.One)
	sqrtM1.Set(field.SqrtM1)
	negSqrtM1.Negate(&sqrtM1)

	var pts [3]Point
	pts[0].SetExtended(&zero, &minusOne, field.One, &zero)
	pts[1].SetExtended(&sqrtM1, &zero, field.One, &zero)
	pts[2].SetExtended(&negSqrtM1, &zero, field.One, &zero)
	return pts
}()

// DebuggingTorque returns p + T, where T is a fixed point of order 4,
// following spec.md's debugging_torque. Every torque of a valid ristretto255
// representative encodes to the same bytes; tests use this to exercise that
// invariant.
func (v *Point) DebuggingTorque(p *Point) *Point {
	return v.Add(p, &fourTorsion[1])
}

// CosetPoint sets v to p + i*T for i in [0, 3], where T ranges over the
// order-4 subgroup (including the identity at i == 0), and returns v. The
// four results are the distinct curve points representing the same
// ristretto255 element as p; invert_elligator's branch selection walks this
// coset the same way DebuggingTorque walks a single step of it.
func (v *Point) CosetPoint(p *Point, i int) *Point {
	if i == 0 {
		return v.Set(p)
	}
	return v.Add(p, &fourTorsion[i-1])
}

// DebuggingPScale rescales p's extended coordinates (X, Y, Z, T) by the
// nonzero field element f, following spec.md's debugging_pscale. This
// produces a different representative of the same projective point, useful
// for the same representation-independence tests as DebuggingTorque.
func (v *Point) DebuggingPScale(p *Point, f *field.Element) *Point {
	v.X.Multiply(&p.X, f)
	v.Y.Multiply(&p.Y, f)
	v.Z.Multiply(&p.Z, f)
	v.T.Multiply(&p.T, f)
	return v
}
