// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"bytes"
	"testing"

	. "github.com/onsi/gomega"
)

func TestMarker_Element(t *testing.T) {
	g := NewWithT(t)

	marker := NewMarker(bytes.Repeat([]byte{0}, SignatureSize))
	element, err := marker.Element()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(string(element)).To(Equal(
		`<script type="application/json" id="dkic-signature">` +
			`{"alg":"ed25519","signature":"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=="}` +
			`</script>`))

	sig, err := marker.SignatureBytes()
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(sig).To(HaveLen(SignatureSize))
}

func TestExtract(t *testing.T) {
	valid := `{"alg":"ed25519","signature":"` +
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA==" + `"}`

	tests := []struct {
		name     string
		doc      string
		original string
		err      error
		errMsg   string
	}{
		{
			name:     "extracts marker and inserted newline",
			doc:      "<head>\n" + markerOpen + valid + markerClose + "</head>",
			original: "<head></head>",
		},
		{
			name:     "keeps other newlines",
			doc:      "<head>\n\n" + markerOpen + valid + markerClose + "\n</head>",
			original: "<head>\n\n</head>",
		},
		{
			name: "fails without marker",
			doc:  "<head></head>",
			err:  ErrMarkerNotFound,
		},
		{
			name:   "fails without closing script tag",
			doc:    "<head>\n" + markerOpen + valid + "</head>",
			err:    ErrMarkerMalformed,
			errMsg: "missing </script>",
		},
		{
			name:   "fails with invalid JSON",
			doc:    "<head>\n" + markerOpen + "{not json}" + markerClose + "</head>",
			err:    ErrMarkerMalformed,
			errMsg: "invalid JSON",
		},
		{
			name:   "fails with empty signature",
			doc:    "<head>\n" + markerOpen + `{"alg":"ed25519"}` + markerClose + "</head>",
			err:    ErrMarkerMalformed,
			errMsg: "missing signature field",
		},
		{
			name:   "fails without inserted newline",
			doc:    "<head>" + markerOpen + valid + markerClose + "</head>",
			err:    ErrMarkerMalformed,
			errMsg: "not preceded by a newline",
		},
		{
			name: "fails with multiple markers",
			doc:  "<head>\n" + markerOpen + valid + markerClose + "\n" + markerOpen + valid + markerClose + "</head>",
			err:  ErrMultipleMarkers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			marker, original, err := Extract([]byte(tt.doc))
			if tt.err != nil {
				g.Expect(err).To(MatchError(tt.err))
				if tt.errMsg != "" {
					g.Expect(err.Error()).To(ContainSubstring(tt.errMsg))
				}
				return
			}

			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(marker.Algorithm).To(Equal(Algorithm))
			g.Expect(string(original)).To(Equal(tt.original))
		})
	}
}

func TestMarker_SignatureBytes(t *testing.T) {
	t.Run("fails with invalid base64", func(t *testing.T) {
		g := NewWithT(t)

		_, err := (&Marker{Algorithm: Algorithm, Signature: "!!!"}).SignatureBytes()
		g.Expect(err).To(MatchError(ErrMarkerMalformed))
	})

	t.Run("fails with short signature", func(t *testing.T) {
		g := NewWithT(t)

		_, err := NewMarker([]byte("short")).SignatureBytes()
		g.Expect(err).To(MatchError(ErrMarkerMalformed))
		g.Expect(err.Error()).To(ContainSubstring("signature must be 64 bytes, got 5"))
	})
}
