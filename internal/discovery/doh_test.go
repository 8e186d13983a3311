// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package discovery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

// capturedRequest holds the parts of the last DoH request the tests assert on.
type capturedRequest struct {
	URL    *url.URL
	Header http.Header
}

func newDoHServer(t *testing.T, resp dohResponse) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.URL = r.URL
		captured.Header = r.Header.Clone()
		w.Header().Set("Content-Type", ContentTypeDNSJSON)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func TestDoHResolver_Resolve(t *testing.T) {
	key := testPublicKey(1)
	otherKey := testPublicKey(2)
	content := testRecordContent(t, key)

	tests := []struct {
		name    string
		resp    dohResponse
		wantKey []byte
		wantErr error
	}{
		{
			name: "resolves quoted record",
			resp: dohResponse{Answer: []dohAnswer{
				{Name: "_dkic.example.com.", Type: typeTXT, TTL: 300, Data: strconv.Quote(content)},
			}},
			wantKey: key,
		},
		{
			name: "joins multi-string data",
			resp: dohResponse{Answer: []dohAnswer{
				{Name: "_dkic.example.com.", Type: typeTXT, Data: strconv.Quote(content[:20]) + " " + strconv.Quote(content[20:])},
			}},
			wantKey: key,
		},
		{
			name: "skips unrelated and invalid answers",
			resp: dohResponse{Answer: []dohAnswer{
				{Name: "_dkic.example.com.", Type: 5, Data: "alias.example.com."},
				{Name: "_dkic.example.com.", Type: typeTXT, Data: `"google-site-verification=abc"`},
				{Name: "_dkic.example.com.", Type: typeTXT, Data: strconv.Quote(testRecordContent(t, otherKey))},
				{Name: "_dkic.example.com.", Type: typeTXT, Data: strconv.Quote(content)},
			}},
			wantKey: otherKey,
		},
		{
			name:    "fails on NXDOMAIN",
			resp:    dohResponse{Status: rcodeNXDomain},
			wantErr: dkic.ErrRecordNotFound,
		},
		{
			name:    "fails on empty answer",
			resp:    dohResponse{},
			wantErr: dkic.ErrRecordNotFound,
		},
		{
			name: "fails when no answer is a DKIC record",
			resp: dohResponse{Answer: []dohAnswer{
				{Name: "_dkic.example.com.", Type: typeTXT, Data: `"v=spf1 -all"`},
			}},
			wantErr: dkic.ErrRecordInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			server, req := newDoHServer(t, tt.resp)

			resolver := &DoHResolver{URL: server.URL + "/dns-query", Options: []FetchOption{FetchOpt.WithRetries(0)}}
			record, err := resolver.Resolve(context.Background(), "example.com.")

			g.Expect(req.URL.Path).To(Equal("/dns-query"))
			g.Expect(req.URL.Query().Get("name")).To(Equal("_dkic.example.com"))
			g.Expect(req.URL.Query().Get("type")).To(Equal("TXT"))
			g.Expect(req.Header.Get("Accept")).To(Equal(ContentTypeDNSJSON))

			if tt.wantErr != nil {
				g.Expect(err).To(MatchError(tt.wantErr))
				return
			}
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect([]byte(record.PublicKey)).To(Equal(tt.wantKey))
			g.Expect(record.Version).To(Equal(dkic.ProtocolVersion))
		})
	}
}

func TestDoHResolver_ServerFailure(t *testing.T) {
	g := NewWithT(t)
	server, _ := newDoHServer(t, dohResponse{Status: 2})

	resolver := &DoHResolver{URL: server.URL, Options: []FetchOption{FetchOpt.WithRetries(0)}}
	_, err := resolver.Resolve(context.Background(), "example.com")
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("DNS status 2"))
}

func TestNewResolver(t *testing.T) {
	t.Run("prefers nameserver", func(t *testing.T) {
		g := NewWithT(t)
		resolver := NewResolver("https://dns.example.com", "127.0.0.1:5353")
		g.Expect(resolver).To(BeAssignableToTypeOf(&NameserverResolver{}))
		g.Expect(resolver.(*NameserverResolver).Address).To(Equal("127.0.0.1:5353"))
	})

	t.Run("uses URL flag over environment", func(t *testing.T) {
		g := NewWithT(t)
		t.Setenv(DoHURLEnvVar, "https://env.example.com/dns-query")
		resolver := NewResolver("https://flag.example.com/dns-query", "")
		g.Expect(resolver.(*DoHResolver).URL).To(Equal("https://flag.example.com/dns-query"))
	})

	t.Run("falls back to environment", func(t *testing.T) {
		g := NewWithT(t)
		t.Setenv(DoHURLEnvVar, "https://env.example.com/dns-query")
		resolver := NewResolver("", "")
		g.Expect(resolver.(*DoHResolver).URL).To(Equal("https://env.example.com/dns-query"))
	})

	t.Run("falls back to default", func(t *testing.T) {
		g := NewWithT(t)
		t.Setenv(DoHURLEnvVar, "")
		resolver := NewResolver("", "")
		g.Expect(resolver.(*DoHResolver).URL).To(Equal(DefaultDoHURL))
	})
}
