// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/go-logr/logr"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

const (
	typeTXT       = 16
	rcodeNoError  = 0
	rcodeNXDomain = 3
)

// DoHResolver resolves public key records with the DNS-over-HTTPS JSON API
// served by Cloudflare, Google and most public resolvers.
type DoHResolver struct {
	// URL is the resolver endpoint, e.g. https://cloudflare-dns.com/dns-query.
	URL string

	// Options customize the HTTP requests.
	Options []FetchOption
}

// dohResponse is the subset of the DNS JSON response format used for TXT lookups.
type dohResponse struct {
	Status int         `json:"Status"`
	Answer []dohAnswer `json:"Answer"`
}

type dohAnswer struct {
	Name string `json:"name"`
	Type int    `json:"type"`
	TTL  int    `json:"TTL"`
	Data string `json:"data"`
}

// Resolve queries the TXT records of _dkic.<domain>.
func (r *DoHResolver) Resolve(ctx context.Context, domain string) (*dkic.PublicKeyRecord, error) {
	name := dkic.RecordName(domain)

	endpoint, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid DoH URL %s: %w", r.URL, err)
	}
	query := endpoint.Query()
	query.Set("name", name)
	query.Set("type", "TXT")
	endpoint.RawQuery = query.Encode()

	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("querying DNS over HTTPS", "name", name, "url", r.URL)

	body, err := fetch(ctx, endpoint.String(), r.Options...)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	var resp dohResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode DNS response for %s: %w", name, err)
	}

	switch resp.Status {
	case rcodeNoError:
	case rcodeNXDomain:
		return nil, fmt.Errorf("%w: %s does not exist", dkic.ErrRecordNotFound, name)
	default:
		return nil, fmt.Errorf("failed to resolve %s: DNS status %d", name, resp.Status)
	}

	var values []string
	for _, answer := range resp.Answer {
		if answer.Type != typeTXT {
			continue
		}
		value, err := dkic.JoinQuoted(answer.Data)
		if err != nil {
			log.V(1).Info("ignoring TXT answer", "name", name, "error", err.Error())
			continue
		}
		values = append(values, value)
	}

	record, err := selectRecord(name, values)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("resolved public key record", "name", name)
	return record, nil
}
