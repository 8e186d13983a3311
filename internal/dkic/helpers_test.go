// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"bytes"
	"crypto/ed25519"
)

const testDocument = `<html><head><title>T</title></head><body></body></html>`

// testSigningKey returns a deterministic signing key derived from a repeated seed byte.
func testSigningKey(b byte) *SigningKey {
	return &SigningKey{
		Key:    ed25519.NewKeyFromSeed(bytes.Repeat([]byte{b}, ed25519.SeedSize)),
		Source: "test",
	}
}
