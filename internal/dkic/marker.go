// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

const (
	// MarkerID is the element ID of the embedded signature marker.
	MarkerID = "dkic-signature"

	markerOpen  = `<script type="application/json" id="` + MarkerID + `">`
	markerClose = `</script>`
)

// Marker is the signature marker embedded inline in a signed document.
type Marker struct {
	// Algorithm is the signature algorithm identifier.
	Algorithm string `json:"alg"`

	// Signature is the base64 encoded signature over the original document bytes.
	Signature string `json:"signature"`
}

// NewMarker returns a marker holding the given raw signature.
func NewMarker(signature []byte) *Marker {
	return &Marker{
		Algorithm: Algorithm,
		Signature: base64.StdEncoding.EncodeToString(signature),
	}
}

// SignatureBytes decodes the marker signature and checks its size.
func (m *Marker) SignatureBytes() ([]byte, error) {
	sig, err := base64.StdEncoding.DecodeString(m.Signature)
	if err != nil {
		return nil, MarkerMalformedError("invalid signature encoding: %v", err)
	}
	if len(sig) != SignatureSize {
		return nil, MarkerMalformedError("signature must be %d bytes, got %d", SignatureSize, len(sig))
	}
	return sig, nil
}

// Element renders the marker as the inline script element.
func (m *Marker) Element() ([]byte, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signature marker: %w", err)
	}

	var b bytes.Buffer
	b.Grow(len(markerOpen) + len(payload) + len(markerClose))
	b.WriteString(markerOpen)
	b.Write(payload)
	b.WriteString(markerClose)
	return b.Bytes(), nil
}

// markerSpan locates the single signature marker in doc and
// returns the offsets of the element start and end.
func markerSpan(doc []byte) (start, end int, err error) {
	start = bytes.Index(doc, []byte(markerOpen))
	if start < 0 {
		return 0, 0, ErrMarkerNotFound
	}
	bodyStart := start + len(markerOpen)
	closing := bytes.Index(doc[bodyStart:], []byte(markerClose))
	if closing < 0 {
		return 0, 0, MarkerMalformedError("missing %s", markerClose)
	}
	end = bodyStart + closing + len(markerClose)

	if bytes.Contains(doc[end:], []byte(markerOpen)) {
		return 0, 0, ErrMultipleMarkers
	}
	return start, end, nil
}

// HasMarker reports whether doc contains a signature marker element.
func HasMarker(doc []byte) bool {
	return bytes.Contains(doc, []byte(markerOpen))
}

// Extract locates the signature marker in a signed document, parses it
// and returns it together with the original document bytes, i.e. the
// document with the marker and the newline inserted before it removed.
func Extract(doc []byte) (*Marker, []byte, error) {
	start, end, err := markerSpan(doc)
	if err != nil {
		return nil, nil, err
	}

	var marker Marker
	body := doc[start+len(markerOpen) : end-len(markerClose)]
	if err := json.Unmarshal(body, &marker); err != nil {
		return nil, nil, MarkerMalformedError("invalid JSON: %v", err)
	}
	if marker.Signature == "" {
		return nil, nil, MarkerMalformedError("missing signature field")
	}

	if start == 0 || doc[start-1] != '\n' {
		return nil, nil, MarkerMalformedError("marker is not preceded by a newline")
	}

	original := make([]byte, 0, len(doc)-(end-start)-1)
	original = append(original, doc[:start-1]...)
	original = append(original, doc[end:]...)
	return &marker, original, nil
}

// Strip removes the signature marker from a signed document
// and returns the original document bytes.
func Strip(doc []byte) ([]byte, error) {
	_, original, err := Extract(doc)
	return original, err
}
