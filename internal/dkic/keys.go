// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

const (
	// Algorithm is the signature algorithm identifier used in
	// public key records and signature markers.
	Algorithm = "ed25519"

	// PrivateKeyPEMType is the PEM block type of PKCS#8 private keys.
	PrivateKeyPEMType = "PRIVATE KEY"

	// SignatureSize is the size in bytes of an Ed25519 signature.
	SignatureSize = ed25519.SignatureSize
)

// SigningKey is an envelope for an Ed25519 private key
// and the source it was loaded from.
type SigningKey struct {
	// Key is the Ed25519 private key.
	Key ed25519.PrivateKey

	// Source describes where the key was loaded from,
	// e.g. a file path or an environment variable name.
	Source string
}

// Public returns the Ed25519 public key of the signing key.
func (k *SigningKey) Public() ed25519.PublicKey {
	return k.Key.Public().(ed25519.PublicKey)
}

// Record returns the DNS public key record of the signing key.
func (k *SigningKey) Record() *PublicKeyRecord {
	return NewPublicKeyRecord(k.Public())
}

// EncodePrivateKeyPEM serializes an Ed25519 private key into
// an unencrypted PKCS#8 PEM block with LF line endings.
func EncodePrivateKeyPEM(key ed25519.PrivateKey) ([]byte, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: ed25519 private key must be %d bytes, got %d",
			ErrEncoding, ed25519.PrivateKeySize, len(key))
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: PrivateKeyPEMType, Bytes: der}), nil
}

// DecodePrivateKeyPEM parses an Ed25519 private key from PEM data.
// It accepts PKCS#8 DER blocks and, as a fallback, blocks holding a raw 32-byte seed.
func DecodePrivateKeyPEM(data []byte) (ed25519.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, KeyDecodeError(errors.New("no PEM block found"))
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err == nil {
		privateKey, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, KeyDecodeError(fmt.Errorf("PEM contains %T, expected Ed25519 key", key))
		}
		return privateKey, nil
	}

	if len(block.Bytes) == ed25519.SeedSize {
		return ed25519.NewKeyFromSeed(block.Bytes), nil
	}

	return nil, KeyDecodeError(fmt.Errorf("unsupported key format: %w", err))
}

// MarshalPublicKeyDER encodes an Ed25519 public key as SubjectPublicKeyInfo DER.
func MarshalPublicKeyDER(key ed25519.PublicKey) ([]byte, error) {
	if len(key) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d",
			ErrEncoding, ed25519.PublicKeySize, len(key))
	}
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	return der, nil
}

// ParsePublicKeyDER decodes an Ed25519 public key from SubjectPublicKeyInfo DER.
func ParsePublicKeyDER(der []byte) (ed25519.PublicKey, error) {
	key, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, KeyDecodeError(err)
	}
	publicKey, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, KeyDecodeError(fmt.Errorf("DER contains %T, expected Ed25519 key", key))
	}
	return publicKey, nil
}
