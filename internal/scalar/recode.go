// Copyright (c) 2019 Henry de Valence. All rights reserved.
// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scalar

import "encoding/binary"

// NonAdjacentForm computes a width-w non-adjacent form of s, for use by the
// variable-time double-scalar multiplication in spec.md §4.5
// (base_double_scalarmul_non_secret). The algorithm is the one from
// curve25519-dalek, carried over unchanged by the teacher's own
// internal/scalar package.
func (s *Scalar) NonAdjacentForm(w uint) [256]int8 {
	b := s.Bytes()

	if b[31] > 127 {
		panic("scalar: high bit set illegally")
	}
	if w < 2 {
		panic("scalar: w must be at least 2 by the definition of NAF")
	} else if w > 8 {
		panic("scalar: NAF digits must fit in int8")
	}

	var naf [256]int8
	var digits [5]uint64
	for i := 0; i < 4; i++ {
		digits[i] = binary.LittleEndian.Uint64(b[i*8:])
	}

	width := uint64(1 << w)
	windowMask := width - 1

	pos := uint(0)
	carry := uint64(0)
	for pos < 256 {
		indexU64 := pos / 64
		indexBit := pos % 64
		var bitBuf uint64
		if indexBit < 64-w {
			bitBuf = digits[indexU64] >> indexBit
		} else {
			bitBuf = (digits[indexU64] >> indexBit) | (digits[1+indexU64] << (64 - indexBit))
		}

		window := carry + (bitBuf & windowMask)

		if window&1 == 0 {
			pos++
			continue
		}

		if window < width/2 {
			carry = 0
			naf[pos] = int8(window)
		} else {
			carry = 1
			naf[pos] = int8(window) - int8(width)
		}

		pos += w
	}
	return naf
}

// SignedRadix16 decomposes s into 64 signed nibbles in [-8, 8], each
// contributing digit*16^i, for use by the constant-time fixed-window comb in
// spec.md §4.5 (scalarmul).
func (s *Scalar) SignedRadix16() [64]int8 {
	b := s.Bytes()
	if b[31] > 127 {
		panic("scalar: high bit set illegally")
	}

	var digits [64]int8
	for i := 0; i < 32; i++ {
		digits[2*i] = int8(b[i] & 15)
		digits[2*i+1] = int8((b[i] >> 4) & 15)
	}

	var carry int8
	for i := 0; i < 63; i++ {
		carry = (digits[i] + 8) >> 4
		digits[i] -= carry << 4
		digits[i+1] += carry
	}

	return digits
}
