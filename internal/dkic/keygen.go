// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
)

const (
	// PrivateKeyExt is the file extension of the private key PEM file.
	PrivateKeyExt = ".pem"

	// PublicKeyExt is the file extension of the public key DNS zone line file.
	PublicKeyExt = ".dns.txt"

	// KeySetExt is the file extension of the public JWKS file.
	KeySetExt = ".jwks"
)

// KeyPair holds a freshly generated Ed25519 key pair.
type KeyPair struct {
	// PrivateKey is the Ed25519 private key.
	PrivateKey ed25519.PrivateKey

	// PublicKey is the Ed25519 public key derived from PrivateKey.
	PublicKey ed25519.PublicKey
}

// KeyFiles holds the paths of the files written for a key pair.
type KeyFiles struct {
	// PrivateKey is the path of the PKCS#8 PEM file.
	PrivateKey string

	// PublicKey is the path of the DNS zone line file.
	PublicKey string

	// KeySet is the path of the public JWKS file, empty if not requested.
	KeySet string

	// ZoneLine is the DNS record written to PublicKey.
	ZoneLine string
}

// WriteOptions configures how a key pair is written to disk.
type WriteOptions struct {
	// Domain is the owner domain of the DNS record,
	// defaults to DomainPlaceholder when empty.
	Domain string

	// KeySet enables writing the public key as a JWKS file.
	KeySet bool

	// Overwrite allows replacing an existing private key file.
	Overwrite bool
}

// GenerateKeyPair generates a new Ed25519 key pair from the given source of randomness.
// If random is nil, crypto/rand.Reader is used.
func GenerateKeyPair(random io.Reader) (*KeyPair, error) {
	if random == nil {
		random = rand.Reader
	}
	publicKey, privateKey, err := ed25519.GenerateKey(random)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return &KeyPair{
		PrivateKey: privateKey,
		PublicKey:  publicKey,
	}, nil
}

// WriteFiles writes the private key to <privatePrefix>.pem with owner only permissions (0600)
// and the public key record to <publicPrefix>.dns.txt (0644). With opts.KeySet the public key
// is also written to <publicPrefix>.jwks. All artifacts are encoded before any file is written.
func (kp *KeyPair) WriteFiles(privatePrefix, publicPrefix string, opts WriteOptions) (*KeyFiles, error) {
	if privatePrefix == "" || publicPrefix == "" {
		return nil, errors.New("private and public key path prefixes are required")
	}

	privatePEM, err := EncodePrivateKeyPEM(kp.PrivateKey)
	if err != nil {
		return nil, err
	}

	zoneLine, err := NewPublicKeyRecord(kp.PublicKey).ZoneLine(opts.Domain)
	if err != nil {
		return nil, err
	}

	var keySetJSON []byte
	if opts.KeySet {
		kid, err := uuid.NewV6()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key ID: %w", err)
		}
		keySet := NewPublicKeySet()
		if err := keySet.AddPublicKey(kp.PublicKey, kid.String()); err != nil {
			return nil, err
		}
		if keySetJSON, err = keySet.ToJSON(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
		}
	}

	files := &KeyFiles{
		PrivateKey: privatePrefix + PrivateKeyExt,
		PublicKey:  publicPrefix + PublicKeyExt,
		ZoneLine:   zoneLine,
	}

	if err := writePrivateFile(files.PrivateKey, privatePEM, opts.Overwrite); err != nil {
		return nil, err
	}

	if err := os.WriteFile(files.PublicKey, []byte(zoneLine), 0644); err != nil {
		return nil, fmt.Errorf("failed to write public key to %s: %w", files.PublicKey, err)
	}

	if keySetJSON != nil {
		files.KeySet = publicPrefix + KeySetExt
		if err := os.WriteFile(files.KeySet, keySetJSON, 0644); err != nil {
			return nil, fmt.Errorf("failed to write public key set to %s: %w", files.KeySet, err)
		}
	}

	return files, nil
}

// writePrivateFile writes data to path with 0600 permissions,
// refusing to replace an existing file unless overwrite is set.
func writePrivateFile(path string, data []byte, overwrite bool) error {
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	file, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("file %s already exists, refusing to overwrite", path)
		}
		return fmt.Errorf("failed to write private key to %s: %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write private key to %s: %w", path, err)
	}
	return file.Close()
}
