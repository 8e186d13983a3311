// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

// Package dkic (DomainKeys Identified Content) implements the protocol for
// signing static documents with a key published in DNS.
//
// The package is built on standard cryptographic primitives:
//
//   - Ed25519 digital signatures (RFC 8032) computed over the exact document bytes
//   - PKCS#8 PEM containers for private keys
//   - SubjectPublicKeyInfo DER public keys published in a DNS TXT record
//   - JSON Web Key Sets (RFC 7517) as an alternative public key distribution format
//
// A signer embeds the signature into the document itself as an inline
// marker element placed at the document head anchor:
//
//	<script type="application/json" id="dkic-signature">{"alg":"ed25519","signature":"..."}</script>
//
// The marker is always inserted preceded by a single newline, so removing the
// newline and the marker restores the original bytes. A verifier looks up the
// TXT record at _dkic.<domain>, strips the marker and verifies the signature
// over the restored bytes, without contacting the signer.
package dkic
