// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"os"
)

// VerificationResult is the outcome of verifying a single document on disk.
type VerificationResult struct {
	// Path is the document path as given by the caller.
	Path string `json:"path"`

	// Verified is true if the embedded signature is valid for the public key.
	Verified bool `json:"verified"`

	// KeySource describes where the public key came from.
	KeySource string `json:"keySource,omitempty"`

	// Error holds the reason verification failed.
	Error string `json:"error,omitempty"`

	err error
}

// Err returns the verification error, or nil when the document verified.
func (r VerificationResult) Err() error {
	return r.err
}

// VerifyFile reads the document at path and verifies its embedded signature.
func VerifyFile(path string, publicKey ed25519.PublicKey, keySource string) VerificationResult {
	result := VerificationResult{Path: path, KeySource: keySource}

	doc, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrFileNotFound, path)
		} else {
			err = fmt.Errorf("failed to read %s: %w", path, err)
		}
		return result.withError(err)
	}

	if _, err := Verify(doc, publicKey); err != nil {
		return result.withError(err)
	}

	result.Verified = true
	return result
}

func (r VerificationResult) withError(err error) VerificationResult {
	r.err = err
	r.Error = err.Error()
	return r
}
