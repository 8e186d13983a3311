// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

// Package signer resolves signing keys and signs batches of documents on disk.
package signer
