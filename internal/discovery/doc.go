// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

// Package discovery looks up the DKIC public key record of a domain,
// either through a DNS-over-HTTPS JSON endpoint or a nameserver.
package discovery
