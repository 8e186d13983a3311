// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package dkic

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestEmbed(t *testing.T) {
	marker := NewMarker(bytes.Repeat([]byte{0xAB}, SignatureSize))
	element, err := marker.Element()
	if err != nil {
		t.Fatalf("Element: %v", err)
	}

	tests := []struct {
		name     string
		doc      string
		expected string
		err      error
	}{
		{
			name:     "inserts before closing head tag",
			doc:      testDocument,
			expected: "<html><head><title>T</title>\n" + string(element) + "</head><body></body></html>",
		},
		{
			name:     "inserts after opening head tag without closing tag",
			doc:      "<html><head><title>T</title><body></body></html>",
			expected: "<html><head>\n" + string(element) + "<title>T</title><body></body></html>",
		},
		{
			name:     "uses first closing head tag",
			doc:      "<head></head><p></head></p>",
			expected: "<head>\n" + string(element) + "</head><p></head></p>",
		},
		{
			name:     "preserves CRLF line endings",
			doc:      "<html>\r\n<head>\r\n</head>\r\n</html>\r\n",
			expected: "<html>\r\n<head>\r\n\n" + string(element) + "</head>\r\n</html>\r\n",
		},
		{
			name: "fails without head section",
			doc:  "<html><body></body></html>",
			err:  ErrAnchorNotFound,
		},
		{
			name: "anchors are case sensitive",
			doc:  "<HTML><HEAD></HEAD></HTML>",
			err:  ErrAnchorNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			out, err := Embed([]byte(tt.doc), marker)
			if tt.err != nil {
				g.Expect(err).To(MatchError(tt.err))
				g.Expect(out).To(BeNil())
				return
			}

			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(string(out)).To(Equal(tt.expected))

			original, err := Strip(out)
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(string(original)).To(Equal(tt.doc))
		})
	}
}

func TestSign(t *testing.T) {
	key := testSigningKey(1)

	t.Run("embeds marker before closing head tag", func(t *testing.T) {
		g := NewWithT(t)

		signed, err := Sign([]byte(testDocument), key)
		g.Expect(err).ToNot(HaveOccurred())

		expectedSig := ed25519.Sign(key.Key, []byte(testDocument))
		expectedMarker := `<script type="application/json" id="dkic-signature">{"alg":"ed25519","signature":"` +
			base64.StdEncoding.EncodeToString(expectedSig) + `"}</script>`
		g.Expect(string(signed)).To(Equal(
			"<html><head><title>T</title>\n" + expectedMarker + "</head><body></body></html>"))
	})

	t.Run("is deterministic", func(t *testing.T) {
		g := NewWithT(t)

		a, err := Sign([]byte(testDocument), key)
		g.Expect(err).ToNot(HaveOccurred())
		b, err := Sign([]byte(testDocument), key)
		g.Expect(err).ToNot(HaveOccurred())
		g.Expect(a).To(Equal(b))
	})

	t.Run("refuses signed document", func(t *testing.T) {
		g := NewWithT(t)

		signed, err := Sign([]byte(testDocument), key)
		g.Expect(err).ToNot(HaveOccurred())

		_, err = Sign(signed, key)
		g.Expect(err).To(MatchError(ErrAlreadySigned))
	})

	t.Run("fails without key", func(t *testing.T) {
		g := NewWithT(t)

		_, err := Sign([]byte(testDocument), nil)
		g.Expect(err).To(MatchError(ErrKeyNotFound))
	})
}

func TestVerify(t *testing.T) {
	key := testSigningKey(1)
	otherKey := testSigningKey(2)

	docs := []string{
		testDocument,
		"<!DOCTYPE html>\n<html>\n<head>\n    <title>Test Page</title>\n    <meta charset=\"utf-8\">\n</head>\n<body>\n    <h1>Hello, World!</h1>\n</body>\n</html>",
		"<head>\n",
		"  <head>  trailing whitespace  \n\n",
		"<html><head></head></html>\r\n",
	}

	t.Run("round trips and verifies", func(t *testing.T) {
		for _, doc := range docs {
			g := NewWithT(t)

			signed, err := Sign([]byte(doc), key)
			g.Expect(err).ToNot(HaveOccurred())

			original, err := Verify(signed, key.Public())
			g.Expect(err).ToNot(HaveOccurred())
			g.Expect(string(original)).To(Equal(doc))
		}
	})

	t.Run("rejects wrong key", func(t *testing.T) {
		g := NewWithT(t)

		signed, err := Sign([]byte(testDocument), key)
		g.Expect(err).ToNot(HaveOccurred())

		_, err = Verify(signed, otherKey.Public())
		g.Expect(err).To(MatchError(ErrVerifySig))
	})

	t.Run("rejects altered document", func(t *testing.T) {
		g := NewWithT(t)

		signed, err := Sign([]byte(testDocument), key)
		g.Expect(err).ToNot(HaveOccurred())

		tampered := []byte(strings.Replace(string(signed), "<title>T</title>", "<title>X</title>", 1))
		_, err = Verify(tampered, key.Public())
		g.Expect(err).To(MatchError(ErrVerifySig))

		// A single added byte outside the marker must be detected.
		_, err = Verify(append(signed, '\n'), key.Public())
		g.Expect(err).To(MatchError(ErrVerifySig))
	})

	t.Run("rejects signature of another document", func(t *testing.T) {
		g := NewWithT(t)

		signed, err := Sign([]byte(testDocument), key)
		g.Expect(err).ToNot(HaveOccurred())
		marker, _, err := Extract(signed)
		g.Expect(err).ToNot(HaveOccurred())

		other, err := Embed([]byte("<html><head></head><body>other</body></html>"), marker)
		g.Expect(err).ToNot(HaveOccurred())

		_, err = Verify(other, key.Public())
		g.Expect(err).To(MatchError(ErrVerifySig))
	})

	t.Run("rejects unsigned document", func(t *testing.T) {
		g := NewWithT(t)

		_, err := Verify([]byte(testDocument), key.Public())
		g.Expect(err).To(MatchError(ErrMarkerNotFound))
	})

	t.Run("rejects unsupported algorithm", func(t *testing.T) {
		g := NewWithT(t)

		marker := NewMarker(ed25519.Sign(key.Key, []byte(testDocument)))
		marker.Algorithm = "rsa"
		signed, err := Embed([]byte(testDocument), marker)
		g.Expect(err).ToNot(HaveOccurred())

		_, err = Verify(signed, key.Public())
		g.Expect(err).To(MatchError(ErrMarkerMalformed))
		g.Expect(err.Error()).To(ContainSubstring("unsupported algorithm"))
	})

	t.Run("rejects invalid public key", func(t *testing.T) {
		g := NewWithT(t)

		_, err := Verify([]byte(testDocument), ed25519.PublicKey{1, 2, 3})
		g.Expect(err).To(MatchError(ErrKeyDecode))
	})
}
