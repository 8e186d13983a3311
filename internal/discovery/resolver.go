// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package discovery

import (
	"context"
	"fmt"
	"os"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

const (
	// DefaultDoHURL is the DNS-over-HTTPS endpoint used when none is configured.
	DefaultDoHURL = "https://cloudflare-dns.com/dns-query"

	// DoHURLEnvVar is the environment variable overriding the DNS-over-HTTPS endpoint.
	DoHURLEnvVar = "DKIC_DOH_URL"
)

// Resolver looks up the public key record published for a domain.
type Resolver interface {
	// Resolve returns the first valid DKIC record found at _dkic.<domain>.
	Resolve(ctx context.Context, domain string) (*dkic.PublicKeyRecord, error)
}

// NewResolver returns a NameserverResolver if nameserver is set, otherwise
// a DoHResolver for dohURL, falling back to $DKIC_DOH_URL and DefaultDoHURL.
func NewResolver(dohURL, nameserver string, opts ...FetchOption) Resolver {
	if nameserver != "" {
		return &NameserverResolver{Address: nameserver}
	}

	if dohURL == "" {
		dohURL = os.Getenv(DoHURLEnvVar)
	}
	if dohURL == "" {
		dohURL = DefaultDoHURL
	}
	return &DoHResolver{URL: dohURL, Options: opts}
}

// selectRecord returns the first TXT value that parses as a DKIC record.
// If values exist but none is valid, the first parse error is returned.
func selectRecord(name string, values []string) (*dkic.PublicKeyRecord, error) {
	var firstErr error
	for _, value := range values {
		record, err := dkic.ParseRecord(value)
		if err == nil {
			return record, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, fmt.Errorf("%w for %s", firstErr, name)
	}
	return nil, fmt.Errorf("%w: no TXT record at %s", dkic.ErrRecordNotFound, name)
}
