// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

const (
	// ProtocolVersion is the version tag of the public key record.
	ProtocolVersion = "DKIC1"

	// Selector is the DNS label under which the public key record is published.
	Selector = "_dkic"

	// DomainPlaceholder is the owner domain used in zone lines when no domain is given.
	DomainPlaceholder = "[your-domain]"
)

// zoneLineTemplate renders a public key record as a DNS zone file line.
// Template functions are provided by the slim-sprig library https://go-task.github.io/slim-sprig/.
var zoneLineTemplate = template.Must(template.New("zone").
	Funcs(sprig.HermeticTxtFuncMap()).
	Parse(`{{ .Selector }}.{{ .Domain | trim | trimPrefix "." | trimSuffix "." }}. IN TXT "{{ .Content }}"`))

// PublicKeyRecord is the DNS TXT record content publishing a signing public key.
type PublicKeyRecord struct {
	// Version is the protocol version tag (v=).
	Version string `json:"version"`

	// Algorithm is the key algorithm identifier (k=).
	Algorithm string `json:"algorithm"`

	// PublicKey is the Ed25519 public key carried base64-encoded as DER (p=).
	PublicKey ed25519.PublicKey `json:"publicKey"`
}

// NewPublicKeyRecord returns a record for the given public key
// tagged with the current protocol version and algorithm.
func NewPublicKeyRecord(key ed25519.PublicKey) *PublicKeyRecord {
	return &PublicKeyRecord{
		Version:   ProtocolVersion,
		Algorithm: Algorithm,
		PublicKey: key,
	}
}

// Content returns the TXT record content in the form
// "v=<version>; k=<algorithm>; p=<base64(DER public key)>".
func (r *PublicKeyRecord) Content() (string, error) {
	der, err := MarshalPublicKeyDER(r.PublicKey)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("v=%s; k=%s; p=%s", r.Version, r.Algorithm,
		base64.StdEncoding.EncodeToString(der)), nil
}

// ZoneLine renders the record as a zone file line owned by _dkic.<domain>.
// If domain is empty, the DomainPlaceholder is used and must be edited before publishing.
func (r *PublicKeyRecord) ZoneLine(domain string) (string, error) {
	content, err := r.Content()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(domain) == "" {
		domain = DomainPlaceholder
	}

	b := &strings.Builder{}
	err = zoneLineTemplate.Execute(b, map[string]string{
		"Selector": Selector,
		"Domain":   domain,
		"Content":  content,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render zone line: %w", err)
	}
	return b.String(), nil
}

// RecordName returns the DNS name where the public key record of domain is published.
func RecordName(domain string) string {
	return Selector + "." + strings.TrimSuffix(strings.TrimSpace(domain), ".")
}

// ParseRecord parses the TXT record content "v=DKIC1; k=ed25519; p=<base64>".
// Tags may appear in any order, whitespace around tags is ignored
// and unknown tags are skipped.
func ParseRecord(content string) (*PublicKeyRecord, error) {
	tags := make(map[string]string)
	for _, pair := range strings.Split(content, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		tags[key] = value
	}

	if v := tags["v"]; v != ProtocolVersion {
		return nil, RecordInvalidError("unsupported version %q, expected v=%s", v, ProtocolVersion)
	}
	if k := tags["k"]; k != Algorithm {
		return nil, RecordInvalidError("unsupported key type %q, expected k=%s", k, Algorithm)
	}
	p, ok := tags["p"]
	if !ok {
		return nil, RecordInvalidError("missing public key field (p=)")
	}

	der, err := decodeBase64(p)
	if err != nil {
		return nil, RecordInvalidError("invalid public key encoding: %v", err)
	}
	key, err := ParsePublicKeyDER(der)
	if err != nil {
		return nil, RecordInvalidError("%v", err)
	}

	return NewPublicKeyRecord(key), nil
}

// ParseZoneLine parses a zone file line "<owner> IN TXT "<content>"" as written
// by the key generator, returning the owner name and the record.
func ParseZoneLine(line string) (string, *PublicKeyRecord, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return "", nil, RecordInvalidError("expected '<owner> IN TXT \"<content>\"'")
	}
	owner := fields[0]

	start := strings.IndexByte(line, '"')
	if start < 0 {
		return "", nil, RecordInvalidError("missing quoted TXT content")
	}
	header := strings.Fields(line[:start])
	if len(header) < 3 || !strings.EqualFold(header[len(header)-1], "TXT") {
		return "", nil, RecordInvalidError("expected TXT record type")
	}

	content, err := JoinQuoted(line[start:])
	if err != nil {
		return "", nil, err
	}
	record, err := ParseRecord(content)
	if err != nil {
		return "", nil, err
	}
	return owner, record, nil
}

// JoinQuoted concatenates the character strings of TXT record data
// given in presentation format, e.g. `"v=DKIC1; k=ed25519; " "p=..."`.
// Data without quotes is returned unchanged.
func JoinQuoted(data string) (string, error) {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, `"`) {
		return data, nil
	}

	var b strings.Builder
	inQuote := false
	escaped := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case escaped:
			b.WriteByte(c)
			escaped = false
		case inQuote && c == '\\':
			escaped = true
		case c == '"':
			inQuote = !inQuote
		case inQuote:
			b.WriteByte(c)
		case c == ' ' || c == '\t':
		default:
			return "", RecordInvalidError("unexpected character %q outside quotes", c)
		}
	}
	if inQuote || escaped {
		return "", RecordInvalidError("unterminated quoted string")
	}
	return b.String(), nil
}

// decodeBase64 decodes standard base64 with or without padding.
func decodeBase64(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") || len(s)%4 == 0 {
		return base64.StdEncoding.DecodeString(s)
	}
	return base64.RawStdEncoding.DecodeString(s)
}
