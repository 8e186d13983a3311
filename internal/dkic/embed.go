// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"bytes"
	"crypto/ed25519"
	"fmt"
)

const (
	headOpen  = "<head>"
	headClose = "</head>"
)

// Embed splices the marker element into doc at the head anchor.
// The element, preceded by a newline, is inserted immediately before the first
// closing head tag or, if there is none, immediately after the first opening head tag.
// All other bytes are preserved. ErrAnchorNotFound is returned if doc has neither tag.
func Embed(doc []byte, marker *Marker) ([]byte, error) {
	element, err := marker.Element()
	if err != nil {
		return nil, err
	}

	pos := bytes.Index(doc, []byte(headClose))
	if pos < 0 {
		open := bytes.Index(doc, []byte(headOpen))
		if open < 0 {
			return nil, ErrAnchorNotFound
		}
		pos = open + len(headOpen)
	}

	out := make([]byte, 0, len(doc)+len(element)+1)
	out = append(out, doc[:pos]...)
	out = append(out, '\n')
	out = append(out, element...)
	out = append(out, doc[pos:]...)
	return out, nil
}

// Sign computes the Ed25519 signature over the exact bytes of doc and
// returns the document with the signature marker embedded.
func Sign(doc []byte, key *SigningKey) ([]byte, error) {
	if key == nil || len(key.Key) != ed25519.PrivateKeySize {
		return nil, ErrKeyNotFound
	}
	if HasMarker(doc) {
		return nil, ErrAlreadySigned
	}

	marker := NewMarker(ed25519.Sign(key.Key, doc))
	return Embed(doc, marker)
}

// Verify extracts the signature marker from a signed document and verifies
// the signature over the original bytes with the given public key.
// It returns the original document bytes on success.
func Verify(doc []byte, publicKey ed25519.PublicKey) ([]byte, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return nil, KeyDecodeError(fmt.Errorf("ed25519 public key must be %d bytes, got %d",
			ed25519.PublicKeySize, len(publicKey)))
	}

	marker, original, err := Extract(doc)
	if err != nil {
		return nil, err
	}
	if marker.Algorithm != Algorithm {
		return nil, MarkerMalformedError("unsupported algorithm %q, expected %s", marker.Algorithm, Algorithm)
	}
	sig, err := marker.SignatureBytes()
	if err != nil {
		return nil, err
	}

	if !ed25519.Verify(publicKey, original, sig) {
		return nil, ErrVerifySig
	}
	return original, nil
}
