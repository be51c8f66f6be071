// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package edwards

import "testing"

// nTimes returns n*p via repeated addition, a slow but simple oracle for
// checking the lookup tables' entries. n may be negative.
func nTimes(p *Point, n int) *Point {
	neg := n < 0
	if neg {
		n = -n
	}
	var acc Point
	acc.Identity()
	for i := 0; i < n; i++ {
		acc.Add(&acc, p)
	}
	if neg {
		acc.Negate(&acc)
	}
	return &acc
}

func TestBasicTableSelectIntoMultiples(t *testing.T) {
	b := basePoint()
	var table BasicTable
	table.FromPoint(b)

	for _, d := range []int8{1, 2, 3, 4, 5, 6, 7, 8, -1, -2, -4, -8, 0} {
		var cached Cached
		table.SelectInto(&cached, d)

		var got Point
		var id Point
		id.Identity()
		got.AddCached(&id, &cached)

		want := nTimes(b, int(d))
		if got.Equal(want) != 1 {
			t.Errorf("SelectInto(%d): table entry does not equal %d*P", d, d)
		}
	}
}

func TestAffineBasicTableSelectIntoMultiples(t *testing.T) {
	b := basePoint()
	var table AffineBasicTable
	table.FromPoint(b)

	for _, d := range []int8{1, 2, 3, 4, 5, 6, 7, 8, -1, -2, -4, -8} {
		var cached AffineCached
		table.SelectInto(&cached, d)

		var got Point
		var id Point
		id.Identity()
		got.AddAffine(&id, &cached)

		want := nTimes(b, int(d))
		if got.Equal(want) != 1 {
			t.Errorf("SelectInto(%d): affine table entry does not equal %d*P", d, d)
		}
	}
}

func TestNafTable5SelectIntoOddMultiples(t *testing.T) {
	b := basePoint()
	var table NafTable5
	table.FromPoint(b)

	for _, d := range []int8{1, 3, 5, 7, 9, 11, 13, 15, -1, -3, -9, -15} {
		var cached Cached
		table.SelectInto(&cached, d)

		var got Point
		var id Point
		id.Identity()
		got.AddCached(&id, &cached)

		want := nTimes(b, int(d))
		if got.Equal(want) != 1 {
			t.Errorf("NafTable5.SelectInto(%d): table entry does not equal %d*P", d, d)
		}
	}
}

func TestAffineNafTable5SelectIntoOddMultiples(t *testing.T) {
	b := basePoint()
	var table AffineNafTable5
	table.FromPoint(b)

	for _, d := range []int8{1, 3, 5, 7, 9, 11, 13, 15, -1, -3, -9, -15} {
		var cached AffineCached
		table.SelectInto(&cached, d)

		var got Point
		var id Point
		id.Identity()
		got.AddAffine(&id, &cached)

		want := nTimes(b, int(d))
		if got.Equal(want) != 1 {
			t.Errorf("AffineNafTable5.SelectInto(%d): table entry does not equal %d*P", d, d)
		}
	}
}

func TestBasicTableSelectIntoNegativeZero(t *testing.T) {
	// digit == 0 must select the identity's additive-neutral cached form,
	// i.e. AddCached(p, SelectInto(0)) == p.
	b := basePoint()
	var table BasicTable
	table.FromPoint(b)

	var cached Cached
	table.SelectInto(&cached, 0)

	var got Point
	got.AddCached(b, &cached)
	if got.Equal(b) != 1 {
		t.Error("SelectInto(0) is not the additive identity in cached form")
	}
}
