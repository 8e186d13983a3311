// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package signer

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/go-logr/logr"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

// PrivateKeyEnvVar is the environment variable holding the PEM encoded
// private key used when no key file is specified.
const PrivateKeyEnvVar = "DKIC_PRIVATE_KEY"

// Status is the result of processing a single document.
type Status string

const (
	// StatusSigned means the document was signed and rewritten.
	StatusSigned Status = "signed"

	// StatusSkipped means the document does not exist and was skipped.
	StatusSkipped Status = "skipped"

	// StatusFailed means the document could not be signed and was left untouched.
	StatusFailed Status = "failed"
)

// Outcome is the per-file result of a signing batch.
type Outcome struct {
	// Path is the document path as given by the caller.
	Path string

	// Status is the result of processing the document.
	Status Status

	// Err is set for skipped and failed documents.
	Err error
}

// signOptions holds the internal configuration for SignFiles.
type signOptions struct {
	force bool
}

// SignOption configures a SignFiles operation.
type SignOption func(*signOptions)

// SignOpt contains options for the SignFiles function.
var SignOpt signOptionBuilder

// signOptionBuilder is the internal builder for SignOption functions.
type signOptionBuilder struct{}

// WithForce replaces an existing signature marker instead of failing.
func (signOptionBuilder) WithForce(force bool) SignOption {
	return func(opts *signOptions) {
		opts.force = force
	}
}

// ResolvePrivateKey loads the signing key from the PEM file at keyPath or,
// if keyPath is empty, from the PrivateKeyEnvVar environment variable.
func ResolvePrivateKey(keyPath string) (*dkic.SigningKey, error) {
	var data []byte
	var source string

	if keyPath != "" {
		var err error
		data, err = os.ReadFile(keyPath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s does not exist", dkic.ErrKeyNotFound, keyPath)
			}
			return nil, fmt.Errorf("failed to read private key %s: %w", keyPath, err)
		}
		source = keyPath
	} else if keyData := os.Getenv(PrivateKeyEnvVar); keyData != "" {
		data = []byte(keyData)
		source = "$" + PrivateKeyEnvVar
	} else {
		return nil, fmt.Errorf("%w: no private key file specified and %s environment variable not set",
			dkic.ErrKeyNotFound, PrivateKeyEnvVar)
	}

	key, err := dkic.DecodePrivateKeyPEM(data)
	if err != nil {
		return nil, fmt.Errorf("invalid private key from %s: %w", source, err)
	}

	return &dkic.SigningKey{
		Key:    key,
		Source: source,
	}, nil
}

// SignFiles signs the given documents in order, rewriting each one in place
// with the signature marker embedded. The returned sequence is lazy: a document
// is processed when its outcome is requested, and stopping the iteration stops
// the batch. Failures are reported per document and never abort the batch;
// a canceled context fails the remaining documents without touching them.
func SignFiles(ctx context.Context, key *dkic.SigningKey, paths []string, opts ...SignOption) iter.Seq[Outcome] {
	options := &signOptions{}
	for _, opt := range opts {
		opt(options)
	}

	log := logr.FromContextOrDiscard(ctx)

	return func(yield func(Outcome) bool) {
		for _, path := range paths {
			var outcome Outcome
			if err := ctx.Err(); err != nil {
				outcome = Outcome{Path: path, Status: StatusFailed, Err: err}
			} else {
				outcome = signFile(key, path, options)
			}

			log.V(1).Info("processed document", "path", path, "status", outcome.Status)
			if !yield(outcome) {
				return
			}
		}
	}
}

// signFile performs the read-sign-write cycle for a single document.
func signFile(key *dkic.SigningKey, path string, options *signOptions) Outcome {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Outcome{
			Path:   path,
			Status: StatusSkipped,
			Err:    fmt.Errorf("%w: %s", dkic.ErrFileNotFound, path),
		}
	}
	if err != nil {
		return failed(path, fmt.Errorf("failed to check %s: %w", path, err))
	}
	if info.IsDir() {
		return failed(path, fmt.Errorf("%s is a directory", path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return failed(path, fmt.Errorf("failed to read %s: %w", path, err))
	}

	if options.force && dkic.HasMarker(content) {
		content, err = dkic.Strip(content)
		if err != nil {
			return failed(path, fmt.Errorf("failed to remove signature from %s: %w", path, err))
		}
	}

	signed, err := dkic.Sign(content, key)
	if err != nil {
		return failed(path, fmt.Errorf("%w in %s", err, path))
	}

	if err := os.WriteFile(path, signed, info.Mode().Perm()); err != nil {
		return failed(path, fmt.Errorf("failed to write %s: %w", path, err))
	}

	return Outcome{Path: path, Status: StatusSigned}
}

func failed(path string, err error) Outcome {
	return Outcome{Path: path, Status: StatusFailed, Err: err}
}
