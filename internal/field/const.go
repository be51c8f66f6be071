// Copyright (c) 2017 George Tankersley. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import "math/big"

// Field-level constants needed by the ristretto255 codec and Elligator map.
// Each is parsed from its decimal residue at init time, the way the
// teacher's fieldElementFromDecimal test helper is used to pin down magic
// numbers; the values are not checked against their defining equations.
var (
	// SqrtM1 is a square root of -1 mod p.
	SqrtM1 = fromDecimal("19681161376707505956807079304988542015446066515923890162744021073123829784752")

	// D is the Edwards25519 curve constant d = -121665/121666.
	D = fromDecimal("37095705934669439343138083508754565189542113879843219016388785533085940283555")

	// SqrtADMinusOne is sqrt(a*d - 1) with a = -1, used by the Elligator map
	// and its inverse.
	SqrtADMinusOne = fromDecimal("25063068953384623474111414158702152701244531502492656460079210482610430750235")

	// InvSqrtAMinusD is 1/sqrt(a-d) with a = -1, used by the ristretto255
	// encoder's 4-torsion rotation step.
	InvSqrtAMinusD = fromDecimal("54469307008909316920995813868745141605393597292927456921205312896311721017578")

	// OneMinusDSQ is 1 - d^2.
	OneMinusDSQ = fromDecimal("1159843021668779879193775521855586647937357759715417654439879720876111806838")

	// DMinusOneSQ is (d - 1)^2.
	DMinusOneSQ = fromDecimal("40440834346308536858101042469323190826248399146238708352240133220865137265952")
)

// Zero, One, Two are read-only field constants. Callers must not mutate
// through these pointers.
var (
	Zero = new(Element).Zero()
	One  = new(Element).One()
	Two  = new(Element).Add(One, One)
)

func fromDecimal(s string) *Element {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("field: invalid decimal constant: " + s)
	}
	return fromBig(n)
}

func fromBig(n *big.Int) *Element {
	if n.Sign() < 0 || n.BitLen() > 256 {
		panic("field: constant out of range")
	}
	b := make([]byte, 32)
	nb := n.Bytes() // big-endian
	for i, v := range nb {
		b[len(nb)-1-i] = v
	}
	var v Element
	v.SetBytes(b)
	return &v
}
