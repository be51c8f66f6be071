// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"bytes"
	"math/big"
	"testing"
	"testing/quick"
)

var fieldPrime = func() *big.Int {
	p, ok := new(big.Int).SetString("57896044618658097711785492504343953926634992332820282019728792003956564819949", 10)
	if !ok {
		panic("bad prime")
	}
	return p
}()

func randFieldElement(t *testing.T) *Element {
	t.Helper()
	b := make([]byte, 32)
	for i := range b {
		b[i] = byte(i*7 + 11)
	}
	var v Element
	v.SetBytes(b)
	return &v
}

func toBig(v *Element) *big.Int {
	b := v.Bytes()
	// Bytes is little-endian; big.Int.SetBytes wants big-endian.
	rev := make([]byte, len(b))
	for i, c := range b {
		rev[len(b)-1-i] = c
	}
	return new(big.Int).SetBytes(rev)
}

func fromBigPublic(n *big.Int) *Element {
	return fromBig(new(big.Int).Mod(n, fieldPrime))
}

func TestAddSubNegateAgainstBig(t *testing.T) {
	a := fromBigPublic(big.NewInt(123456789))
	b := fromBigPublic(big.NewInt(987654321))

	var sum, diff, neg Element
	sum.Add(a, b)
	diff.Subtract(a, b)
	neg.Negate(a)

	wantSum := new(big.Int).Mod(new(big.Int).Add(toBig(a), toBig(b)), fieldPrime)
	wantDiff := new(big.Int).Mod(new(big.Int).Sub(toBig(a), toBig(b)), fieldPrime)
	wantNeg := new(big.Int).Mod(new(big.Int).Neg(toBig(a)), fieldPrime)

	if toBig(&sum).Cmp(wantSum) != 0 {
		t.Errorf("Add: got %s, want %s", toBig(&sum), wantSum)
	}
	if toBig(&diff).Cmp(wantDiff) != 0 {
		t.Errorf("Subtract: got %s, want %s", toBig(&diff), wantDiff)
	}
	if toBig(&neg).Cmp(wantNeg) != 0 {
		t.Errorf("Negate: got %s, want %s", toBig(&neg), wantNeg)
	}
}

func TestMultiplySquareAgainstBig(t *testing.T) {
	a := fromBigPublic(big.NewInt(123456789))
	b := fromBigPublic(big.NewInt(987654321))

	var prod, sq Element
	prod.Multiply(a, b)
	sq.Square(a)

	wantProd := new(big.Int).Mod(new(big.Int).Mul(toBig(a), toBig(b)), fieldPrime)
	wantSq := new(big.Int).Mod(new(big.Int).Mul(toBig(a), toBig(a)), fieldPrime)

	if toBig(&prod).Cmp(wantProd) != 0 {
		t.Errorf("Multiply: got %s, want %s", toBig(&prod), wantProd)
	}
	if toBig(&sq).Cmp(wantSq) != 0 {
		t.Errorf("Square: got %s, want %s", toBig(&sq), wantSq)
	}
}

func TestInvert(t *testing.T) {
	a := fromBigPublic(big.NewInt(123456789))
	var inv, product Element
	inv.Invert(a)
	product.Multiply(a, &inv)
	if product.Equal(One) != 1 {
		t.Errorf("a * a^-1 != 1, got %s", toBig(&product))
	}
}

func TestSqrtRatioKnownSquare(t *testing.T) {
	u := fromBigPublic(big.NewInt(4))
	v := One
	var r Element
	wasSquare := SqrtRatio(&r, u, v)
	if wasSquare != 1 {
		t.Fatal("4/1 should be a square")
	}
	var check Element
	check.Square(&r)
	check.Multiply(&check, v)
	if check.Equal(u) != 1 {
		t.Errorf("r^2*v != u: got %s, want %s", toBig(&check), toBig(u))
	}
	if r.IsNegative() != 0 {
		t.Error("SqrtRatio must return the non-negative root")
	}
}

func TestSqrtRatioZeroNumerator(t *testing.T) {
	var r Element
	v := fromBigPublic(big.NewInt(5))
	ok := SqrtRatio(&r, Zero, v)
	if ok != 1 {
		t.Fatal("u=0 must report success")
	}
	if r.IsZero() != 1 {
		t.Error("u=0 must yield r=0")
	}
}

func TestInvSqrtZero(t *testing.T) {
	var r Element
	ok := InvSqrt(&r, Zero)
	if ok != 1 {
		t.Fatal("InvSqrt(0) must report ok")
	}
	if r.IsZero() != 1 {
		t.Error("InvSqrt(0) must yield 0")
	}
}

func TestInvSqrtNonResidue(t *testing.T) {
	// SqrtM1^2 == -1. Since p = 5 mod 8, i^((p-1)/2) = (-1)^((p-1)/4) = -1,
	// so i is a non-residue; -1 is a residue (p = 1 mod 4), so -i = -1*i is a
	// non-residue too. InvSqrt must report ok=0 for both.
	var r Element
	ok1 := InvSqrt(&r, SqrtM1)
	var negI Element
	negI.Negate(SqrtM1)
	var r2 Element
	ok2 := InvSqrt(&r2, &negI)
	if ok1 != 0 || ok2 != 0 {
		t.Error("i and -i must both be quadratic non-residues")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	a := randFieldElement(t)
	b := a.Bytes()
	var v Element
	v.SetBytes(b)
	if v.Equal(a) != 1 {
		t.Error("SetBytes(Bytes()) != original")
	}
}

func TestSetCanonicalBytesRejectsOutOfRange(t *testing.T) {
	// p itself, little-endian, is not a canonical encoding.
	pBytes := make([]byte, 32)
	nb := fieldPrime.Bytes()
	for i, c := range nb {
		pBytes[len(nb)-1-i] = c
	}
	var v Element
	if _, err := v.SetCanonicalBytes(pBytes, 0xff); err != ErrNonCanonical {
		t.Errorf("SetCanonicalBytes(p) = %v, want ErrNonCanonical", err)
	}
}

func TestSetCanonicalBytesAcceptsZero(t *testing.T) {
	var v Element
	b := make([]byte, 32)
	if _, err := v.SetCanonicalBytes(b, 0xff); err != nil {
		t.Fatalf("SetCanonicalBytes(0) failed: %v", err)
	}
	if v.IsZero() != 1 {
		t.Error("decoded value is not zero")
	}
}

func TestAbsNonNegative(t *testing.T) {
	a := randFieldElement(t)
	var v Element
	v.Abs(a)
	if v.IsNegative() != 0 {
		t.Error("Abs result must be non-negative")
	}
	var neg Element
	neg.Negate(a)
	if v.Equal(a) != 1 && v.Equal(&neg) != 1 {
		t.Error("Abs(a) must equal a or -a")
	}
}

func TestSelect(t *testing.T) {
	a := fromBigPublic(big.NewInt(1))
	b := fromBigPublic(big.NewInt(2))
	var v Element
	v.Select(a, b, 1)
	if v.Equal(a) != 1 {
		t.Error("Select(a,b,1) != a")
	}
	v.Select(a, b, 0)
	if v.Equal(b) != 1 {
		t.Error("Select(a,b,0) != b")
	}
}

func TestQuickDistributivity(t *testing.T) {
	f := func(xa, xb, xc [4]byte) bool {
		a := fromBigPublic(new(big.Int).SetBytes(xa[:]))
		b := fromBigPublic(new(big.Int).SetBytes(xb[:]))
		c := fromBigPublic(new(big.Int).SetBytes(xc[:]))

		var lhs, rhs, bc, ab, ac Element
		bc.Add(b, c)
		lhs.Multiply(a, &bc)
		ab.Multiply(a, b)
		ac.Multiply(a, c)
		rhs.Add(&ab, &ac)

		return lhs.Equal(&rhs) == 1
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestBytesOutputLength(t *testing.T) {
	a := randFieldElement(t)
	if len(a.Bytes()) != 32 {
		t.Errorf("Bytes() length = %d, want 32", len(a.Bytes()))
	}
	if !bytes.Equal(Zero.Bytes(), make([]byte, 32)) {
		t.Error("Zero.Bytes() must be all-zero")
	}
}
