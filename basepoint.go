// Copyright (c) 2021 Oasis Labs Inc.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ristretto255

import (
	"encoding/hex"

	"github.com/oasislabs/ristretto255/internal/edwards"
)

// The canonical encoding of the ristretto255 generator, reproduced from the
// draft-hdevalence-cfrg-ristretto test vectors.
const basepointHex = "e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76"

var basepoint = func() edwards.Point {
	b, err := hex.DecodeString(basepointHex)
	if err != nil {
		panic("ristretto255: invalid basepoint constant: " + err.Error())
	}
	var e Element
	if _, err := e.SetCanonicalBytes(b); err != nil {
		panic("ristretto255: basepoint fails to decode: " + err.Error())
	}
	return e.r
}()
