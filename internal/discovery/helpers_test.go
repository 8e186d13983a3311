// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package discovery

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

func testPublicKey(seed byte) ed25519.PublicKey {
	key := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{seed}, ed25519.SeedSize))
	return key.Public().(ed25519.PublicKey)
}

func testRecordContent(t *testing.T, key ed25519.PublicKey) string {
	t.Helper()
	content, err := dkic.NewPublicKeyRecord(key).Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	return content
}
