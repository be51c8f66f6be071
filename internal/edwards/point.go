// Copyright (c) 2017 George Tankersley. All rights reserved.
// Copyright (c) 2019 The Go Authors. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package edwards implements group logic for the twisted Edwards curve
//
//	-x^2 + y^2 = 1 + d*x^2*y^2
//
// the curve underlying ristretto255 (it is the curve used by Ed25519,
// quotiented by its cofactor-8 torsion subgroup at the ristretto255 layer
// above this package). Coordinates are extended twisted-Edwards (HWCD),
// following the teacher's internal/edwards25519 package.
package edwards

import "github.com/oasislabs/ristretto255/internal/field"

var twoD = new(field.Element).Add(field.D, field.D)

// Point is a curve point in extended coordinates (X:Y:Z:T) with
// x = X/Z, y = Y/Z, x*y = T/Z.
type Point struct {
	X, Y, Z, T field.Element
}

// completed holds an in-progress addition/doubling result before it is
// folded back down to extended coordinates, the "P1xP1" shape in ref10.
type completed struct {
	X, Y, Z, T field.Element
}

// proj is a point in projective (X:Y:Z) coordinates, cheaper to double than
// the extended representation.
type proj struct {
	X, Y, Z field.Element
}

// Cached holds a point's addition operands precomputed from extended
// coordinates, for use by Point.AddCached/SubtractCached.
type Cached struct {
	YplusX, YminusX, Z, T2d field.Element
}

// AffineCached is Cached with Z implicitly 1, for points precomputed once
// and reused many times (AffineBasicTable, AffineNafTable5).
type AffineCached struct {
	YplusX, YminusX, T2d field.Element
}

// Identity returns the identity element (0, 1).
func (v *Point) Identity() *Point {
	v.X.Zero()
	v.Y.One()
	v.Z.One()
	v.T.Zero()
	return v
}

// Set sets v = u and returns v.
func (v *Point) Set(u *Point) *Point {
	*v = *u
	return v
}

func (v *proj) fromCompleted(p *completed) *proj {
	v.X.Multiply(&p.X, &p.T)
	v.Y.Multiply(&p.Y, &p.Z)
	v.Z.Multiply(&p.Z, &p.T)
	return v
}

func (v *proj) fromPoint(p *Point) *proj {
	v.X.Set(&p.X)
	v.Y.Set(&p.Y)
	v.Z.Set(&p.Z)
	return v
}

func (v *Point) fromCompleted(p *completed) *Point {
	v.X.Multiply(&p.X, &p.T)
	v.Y.Multiply(&p.Y, &p.Z)
	v.Z.Multiply(&p.Z, &p.T)
	v.T.Multiply(&p.X, &p.Y)
	return v
}

func (v *Point) fromProj(p *proj) *Point {
	v.X.Multiply(&p.X, &p.Z)
	v.Y.Multiply(&p.Y, &p.Z)
	v.Z.Square(&p.Z)
	v.T.Multiply(&p.X, &p.Y)
	return v
}

// FromPoint sets v to the cached form of the extended point p and returns v.
// It is used by Add/Subtract and by the lookup tables in table.go.
func (v *Cached) FromPoint(p *Point) *Cached {
	v.YplusX.Add(&p.Y, &p.X)
	v.YminusX.Subtract(&p.Y, &p.X)
	v.Z.Set(&p.Z)
	v.T2d.Multiply(&p.T, twoD)
	return v
}

// FromPoint computes the affine-cached representation of p, inverting p.Z.
func (v *AffineCached) FromPoint(p *Point) *AffineCached {
	v.YplusX.Add(&p.Y, &p.X)
	v.YminusX.Subtract(&p.Y, &p.X)
	v.T2d.Multiply(&p.T, twoD)

	var invZ field.Element
	invZ.Invert(&p.Z)
	v.YplusX.Multiply(&v.YplusX, &invZ)
	v.YminusX.Multiply(&v.YminusX, &invZ)
	v.T2d.Multiply(&v.T2d, &invZ)
	return v
}

// Add sets v = p + q and returns v. This is add-2008-hwcd-3, the unified
// addition law (it also handles doubling correctly, just not optimally).
func (v *Point) Add(p, q *Point) *Point {
	var qCached Cached
	qCached.FromPoint(q)
	var r completed
	r.addCached(p, &qCached)
	return v.fromCompleted(&r)
}

// Subtract sets v = p - q and returns v.
func (v *Point) Subtract(p, q *Point) *Point {
	var qCached Cached
	qCached.FromPoint(q)
	var r completed
	r.subCached(p, &qCached)
	return v.fromCompleted(&r)
}

// AddCached sets v = p + q, where q has already been converted to cached
// form, and returns v.
func (v *Point) AddCached(p *Point, q *Cached) *Point {
	var r completed
	r.addCached(p, q)
	return v.fromCompleted(&r)
}

// SubtractCached sets v = p - q, where q has already been converted to
// cached form, and returns v.
func (v *Point) SubtractCached(p *Point, q *Cached) *Point {
	var r completed
	r.subCached(p, q)
	return v.fromCompleted(&r)
}

// AddAffine sets v = p + q, where q is an affine-cached point (Z=1 folded
// in), and returns v.
func (v *Point) AddAffine(p *Point, q *AffineCached) *Point {
	var r completed
	r.addAffine(p, q)
	return v.fromCompleted(&r)
}

// SubtractAffine sets v = p - q, where q is an affine-cached point, and
// returns v.
func (v *Point) SubtractAffine(p *Point, q *AffineCached) *Point {
	var r completed
	r.subAffine(p, q)
	return v.fromCompleted(&r)
}

func (v *completed) addCached(p *Point, q *Cached) *completed {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 field.Element

	YplusX.Add(&p.Y, &p.X)
	YminusX.Subtract(&p.Y, &p.X)

	PP.Multiply(&YplusX, &q.YplusX)
	MM.Multiply(&YminusX, &q.YminusX)
	TT2d.Multiply(&p.T, &q.T2d)
	ZZ2.Multiply(&p.Z, &q.Z)

	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&ZZ2, &TT2d)
	v.T.Subtract(&ZZ2, &TT2d)
	return v
}

func (v *completed) subCached(p *Point, q *Cached) *completed {
	var YplusX, YminusX, PP, MM, TT2d, ZZ2 field.Element

	YplusX.Add(&p.Y, &p.X)
	YminusX.Subtract(&p.Y, &p.X)

	PP.Multiply(&YplusX, &q.YminusX)
	MM.Multiply(&YminusX, &q.YplusX)
	TT2d.Multiply(&p.T, &q.T2d)
	ZZ2.Multiply(&p.Z, &q.Z)

	ZZ2.Add(&ZZ2, &ZZ2)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Subtract(&ZZ2, &TT2d)
	v.T.Add(&ZZ2, &TT2d)
	return v
}

func (v *completed) addAffine(p *Point, q *AffineCached) *completed {
	var YplusX, YminusX, PP, MM, TT2d, Z2 field.Element

	YplusX.Add(&p.Y, &p.X)
	YminusX.Subtract(&p.Y, &p.X)

	PP.Multiply(&YplusX, &q.YplusX)
	MM.Multiply(&YminusX, &q.YminusX)
	TT2d.Multiply(&p.T, &q.T2d)

	Z2.Add(&p.Z, &p.Z)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Add(&Z2, &TT2d)
	v.T.Subtract(&Z2, &TT2d)
	return v
}

func (v *completed) subAffine(p *Point, q *AffineCached) *completed {
	var YplusX, YminusX, PP, MM, TT2d, Z2 field.Element

	YplusX.Add(&p.Y, &p.X)
	YminusX.Subtract(&p.Y, &p.X)

	PP.Multiply(&YplusX, &q.YminusX)
	MM.Multiply(&YminusX, &q.YplusX)
	TT2d.Multiply(&p.T, &q.T2d)

	Z2.Add(&p.Z, &p.Z)

	v.X.Subtract(&PP, &MM)
	v.Y.Add(&PP, &MM)
	v.Z.Subtract(&Z2, &TT2d)
	v.T.Add(&Z2, &TT2d)
	return v
}

func (v *completed) double(p *proj) *completed {
	var XX, YY, ZZ2, XplusYsq field.Element

	XX.Square(&p.X)
	YY.Square(&p.Y)
	ZZ2.Square(&p.Z)
	ZZ2.Add(&ZZ2, &ZZ2)
	XplusYsq.Add(&p.X, &p.Y)
	XplusYsq.Square(&XplusYsq)

	v.Y.Add(&YY, &XX)
	v.Z.Subtract(&YY, &XX)

	v.X.Subtract(&XplusYsq, &v.Y)
	v.T.Subtract(&ZZ2, &v.Z)
	return v
}

// Double sets v = 2*p and returns v, using the dedicated doubling formula
// (mixed through projective coordinates, cheaper than Add(p, p)).
func (v *Point) Double(p *Point) *Point {
	var pp proj
	pp.fromPoint(p)
	var r completed
	r.double(&pp)
	return v.fromCompleted(&r)
}

// Negate sets v = -p and returns v.
func (v *Point) Negate(p *Point) *Point {
	v.X.Negate(&p.X)
	v.Y.Set(&p.Y)
	v.Z.Set(&p.Z)
	v.T.Negate(&p.T)
	return v
}

// Equal returns 1 if v and u represent the same point on the curve (not
// modulo the ristretto255 cofactor-8 equivalence, which is handled one
// layer up), and 0 otherwise.
func (v *Point) Equal(u *Point) int {
	var t1, t2, t3, t4 field.Element
	t1.Multiply(&v.X, &u.Z)
	t2.Multiply(&u.X, &v.Z)
	t3.Multiply(&v.Y, &u.Z)
	t4.Multiply(&u.Y, &v.Z)

	return t1.Equal(&t2) & t3.Equal(&t4)
}

// Select sets v to p if cond == 1, or to q if cond == 0, in constant time.
func (v *Point) Select(p, q *Point, cond int) *Point {
	v.X.Select(&p.X, &q.X, cond)
	v.Y.Select(&p.Y, &q.Y, cond)
	v.Z.Select(&p.Z, &q.Z, cond)
	v.T.Select(&p.T, &q.T, cond)
	return v
}

// CondNegate sets v = -v if cond == 1, and leaves v unchanged if cond == 0.
func (v *Point) CondNegate(cond int) *Point {
	var neg Point
	neg.Negate(v)
	return v.Select(&neg, v, cond)
}

// SetExtended sets v's raw extended coordinates directly; used by the
// ristretto255 decoder, which computes X, Y, Z, T itself from the wire
// encoding.
func (v *Point) SetExtended(x, y, z, t *field.Element) *Point {
	v.X.Set(x)
	v.Y.Set(y)
	v.Z.Set(z)
	v.T.Set(t)
	return v
}
