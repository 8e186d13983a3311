// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package discovery

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

// NameserverResolver resolves public key records by querying
// a DNS server directly over UDP, retrying over TCP on truncation.
type NameserverResolver struct {
	// Address is the nameserver host, with optional port (default 53).
	Address string

	// Timeout bounds each exchange, defaults to 5s.
	Timeout time.Duration
}

// Resolve queries the TXT records of _dkic.<domain>.
func (r *NameserverResolver) Resolve(ctx context.Context, domain string) (*dkic.PublicKeyRecord, error) {
	name := dkic.RecordName(domain)
	addr := r.Address
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr = net.JoinHostPort(strings.Trim(addr, "[]"), "53")
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	log := logr.FromContextOrDiscard(ctx)
	log.V(1).Info("querying nameserver", "name", name, "nameserver", addr)

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	msg.RecursionDesired = true

	client := &dns.Client{Net: "udp", Timeout: timeout}
	in, _, err := client.ExchangeContext(ctx, msg, addr)
	if err == nil && in.Truncated {
		log.V(1).Info("response truncated, retrying over TCP", "name", name)
		client.Net = "tcp"
		in, _, err = client.ExchangeContext(ctx, msg, addr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return nil, fmt.Errorf("%w: %s does not exist", dkic.ErrRecordNotFound, name)
	default:
		return nil, fmt.Errorf("failed to resolve %s: %s", name, dns.RcodeToString[in.Rcode])
	}

	var values []string
	for _, rr := range in.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			values = append(values, strings.Join(txt.Txt, ""))
		}
	}

	record, err := selectRecord(name, values)
	if err != nil {
		return nil, err
	}
	log.V(1).Info("resolved public key record", "name", name)
	return record, nil
}
