// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"

	"github.com/go-jose/go-jose/v4"
)

// PublicKeySet represents a JWK Set object for distributing Ed25519 public keys
// to verifiers that cannot query DNS.
type PublicKeySet struct {
	// Keys is a list of JSON Web Keys (JWKs) that make up the set.
	Keys []jose.JSONWebKey `json:"keys"`
}

// NewPublicKeySet creates an empty PublicKeySet.
func NewPublicKeySet() *PublicKeySet {
	return &PublicKeySet{
		Keys: []jose.JSONWebKey{},
	}
}

// AddPublicKey adds an Ed25519 public key with the given key ID to the set.
// The most recent key is kept first.
func (k *PublicKeySet) AddPublicKey(key ed25519.PublicKey, keyID string) error {
	if len(key) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d",
			ErrEncoding, ed25519.PublicKeySize, len(key))
	}

	for _, existingKey := range k.Keys {
		if existingKey.KeyID == keyID {
			return fmt.Errorf("key with ID %s already exists in the set", keyID)
		}
	}

	jwk := jose.JSONWebKey{
		Key:       key,
		KeyID:     keyID,
		Algorithm: string(jose.EdDSA),
		Use:       "sig",
	}

	k.Keys = append([]jose.JSONWebKey{jwk}, k.Keys...)
	return nil
}

// ToJSON converts the PublicKeySet to a JSON byte slice.
func (k *PublicKeySet) ToJSON() ([]byte, error) {
	return json.MarshalIndent(*k, "", "  ")
}

// PublicKeySetFromJSON creates a PublicKeySet from a JSON byte slice.
func PublicKeySetFromJSON(data []byte) (*PublicKeySet, error) {
	var keySet PublicKeySet
	if err := json.Unmarshal(data, &keySet); err != nil {
		return nil, KeyDecodeError(fmt.Errorf("failed to unmarshal key set: %w", err))
	}
	if len(keySet.Keys) == 0 {
		return nil, KeyDecodeError(fmt.Errorf("key set has no keys"))
	}
	return &keySet, nil
}

// PublicKeyFromSet extracts an Ed25519 public key from a JWKS document.
// If keyID is empty, the first key in the set is returned.
func PublicKeyFromSet(data []byte, keyID string) (ed25519.PublicKey, error) {
	keySet, err := PublicKeySetFromJSON(data)
	if err != nil {
		return nil, err
	}

	for _, key := range keySet.Keys {
		if keyID != "" && key.KeyID != keyID {
			continue
		}
		if key.Algorithm != string(jose.EdDSA) {
			return nil, KeyDecodeError(fmt.Errorf("key with ID %s has unsupported algorithm %s, expected %s",
				key.KeyID, key.Algorithm, jose.EdDSA))
		}
		if key.Use != "sig" {
			return nil, KeyDecodeError(fmt.Errorf("key with ID %s has unsupported use %s, expected 'sig'",
				key.KeyID, key.Use))
		}
		publicKey, ok := key.Key.(ed25519.PublicKey)
		if !ok {
			return nil, KeyDecodeError(fmt.Errorf("key with ID %s is not an Ed25519 public key", key.KeyID))
		}
		return publicKey, nil
	}

	return nil, KeyDecodeError(fmt.Errorf("no public key found with ID %s", keyID))
}
