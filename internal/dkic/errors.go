// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned when no private key source is available.
var ErrKeyNotFound = errors.New("private key not found")

// ErrKeyDecode is returned when the key material cannot be parsed.
var ErrKeyDecode = errors.New("failed to decode key")

// ErrEncoding is returned when key material cannot be serialized.
var ErrEncoding = errors.New("failed to encode key")

// ErrFileNotFound is returned when a document to be processed does not exist.
var ErrFileNotFound = errors.New("file does not exist")

// ErrAnchorNotFound is returned when a document has no head section to embed the marker into.
var ErrAnchorNotFound = errors.New("could not find <head> section")

// ErrAlreadySigned is returned when a document already carries a signature marker.
var ErrAlreadySigned = errors.New("document is already signed")

// ErrMarkerNotFound is returned when a document carries no signature marker.
var ErrMarkerNotFound = errors.New("no signature marker found")

// ErrMarkerMalformed is returned when the signature marker cannot be parsed.
var ErrMarkerMalformed = errors.New("malformed signature marker")

// ErrMultipleMarkers is returned when a document carries more than one signature marker.
var ErrMultipleMarkers = errors.New("multiple signature markers found")

// ErrVerifySig is returned when signature verification fails.
var ErrVerifySig = errors.New("failed to verify signature")

// ErrRecordInvalid is returned when a public key record cannot be parsed.
var ErrRecordInvalid = errors.New("invalid public key record")

// ErrRecordNotFound is returned when no public key record is published for a domain.
var ErrRecordNotFound = errors.New("public key record not found")

// KeyDecodeError wraps an error with ErrKeyDecode.
func KeyDecodeError(err error) error {
	return fmt.Errorf("%w: %w", ErrKeyDecode, err)
}

// RecordInvalidError wraps a reason with ErrRecordInvalid.
func RecordInvalidError(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrRecordInvalid, fmt.Sprintf(format, a...))
}

// MarkerMalformedError wraps a reason with ErrMarkerMalformed.
func MarkerMalformedError(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrMarkerMalformed, fmt.Sprintf(format, a...))
}
