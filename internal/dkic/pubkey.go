// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"bytes"
	"crypto/ed25519"
	"encoding/pem"
	"errors"
	"strings"
)

// ParsePublicKey decodes an Ed25519 public key from any of the formats
// produced by the key generator or published in DNS:
//
//   - a JWKS document (first key is used)
//   - a zone line `_dkic.<domain>. IN TXT "v=DKIC1; k=ed25519; p=..."`
//   - bare TXT record content `v=DKIC1; k=ed25519; p=...`
//   - a PEM "PUBLIC KEY" block holding SubjectPublicKeyInfo DER
func ParsePublicKey(data []byte) (ed25519.PublicKey, error) {
	trimmed := bytes.TrimSpace(data)
	text := string(trimmed)

	switch {
	case len(trimmed) == 0:
		return nil, KeyDecodeError(errors.New("public key data is empty"))
	case trimmed[0] == '{':
		return PublicKeyFromSet(trimmed, "")
	case strings.HasPrefix(text, "-----BEGIN"):
		block, _ := pem.Decode(trimmed)
		if block == nil {
			return nil, KeyDecodeError(errors.New("no PEM block found"))
		}
		return ParsePublicKeyDER(block.Bytes)
	case strings.HasPrefix(text, "v=") || strings.HasPrefix(text, `"`):
		content, err := JoinQuoted(text)
		if err != nil {
			return nil, err
		}
		record, err := ParseRecord(content)
		if err != nil {
			return nil, err
		}
		return record.PublicKey, nil
	default:
		_, record, err := ParseZoneLine(text)
		if err != nil {
			return nil, err
		}
		return record.PublicKey, nil
	}
}
