// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ristretto255

import (
	"unsafe"

	"github.com/oasislabs/ristretto255/internal/edwards"
)

// A Precomputed holds the multiples 1*P..8*P of a fixed point P, for repeated constant-
// time scalar multiplications against that point (spec.md's Pre / precompute
// / precomputed_scalarmul). Its contents are opaque; SizeofPrecomputed and
// AlignofPrecomputed are published so callers that want to manage their own
// storage (spec.md's sizeof_precomputed/alignof_precomputed) can do so.
type Precomputed struct {
	table edwards.AffineBasicTable
}

// SizeofPrecomputed is the size in bytes of a Precomputed value.
const SizeofPrecomputed = unsafe.Sizeof(Precomputed{})

// AlignofPrecomputed is the alignment in bytes of a Precomputed value.
const AlignofPrecomputed = unsafe.Alignof(Precomputed{})

// NewPrecomputedElement builds a Precomputed table for repeated scalar
// multiplication against p.
func NewPrecomputedElement(p *Element) *Precomputed {
	pre := &Precomputed{}
	pre.table.FromPoint(&p.r)
	return pre
}

// ScalarMult sets e = s*p, where p is the point this Precomputed table was
// built from, and returns e. Constant time with respect to s.
func (pre *Precomputed) ScalarMult(e *Element, s *Scalar) *Element {
	digits := s.s.SignedRadix16()

	var acc edwards.Point
	acc.Identity()
	for i := 63; i >= 0; i-- {
		acc.Double(&acc)
		acc.Double(&acc)
		acc.Double(&acc)
		acc.Double(&acc)

		var cached edwards.AffineCached
		pre.table.SelectInto(&cached, digits[i])
		acc.AddAffine(&acc, &cached)
	}

	e.r = acc
	return e
}

// Destroy zeroes pre's precomputed table.
func (pre *Precomputed) Destroy() {
	*pre = Precomputed{}
}
