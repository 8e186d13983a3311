// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/controlplaneio-fluxcd/dkic/internal/discovery"
	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [FILES...]",
	Short: "Verify the embedded signature of documents",
	Example: `  # Verify documents with the public key published in DNS
  dkic verify --domain example.com index.html

  # Verify documents with a public key file (.dns.txt, .jwks or PEM)
  dkic verify --public-key public_key.dns.txt index.html about.html

  # Query a specific nameserver and print the results as JSON
  dkic verify --domain example.com --nameserver 1.1.1.1 -o json index.html
`,
	Args: cobra.MinimumNArgs(1),
	RunE: verifyCmdRun,
}

type verifyFlags struct {
	publicKey  string
	domain     string
	dohURL     string
	nameserver string
	output     string
}

var verifyArgs = verifyFlags{
	output: "table",
}

func init() {
	verifyCmd.Flags().StringVar(&verifyArgs.publicKey, "public-key", "",
		"path to the public key file in DNS record, JWKS or PEM format")
	verifyCmd.Flags().StringVar(&verifyArgs.domain, "domain", "",
		"domain to look up the _dkic TXT record for")
	verifyCmd.Flags().StringVar(&verifyArgs.dohURL, "doh-url", "",
		fmt.Sprintf("DNS-over-HTTPS endpoint, falls back to the %s environment variable and %s",
			discovery.DoHURLEnvVar, discovery.DefaultDoHURL))
	verifyCmd.Flags().StringVar(&verifyArgs.nameserver, "nameserver", "",
		"query this nameserver (host[:port]) directly instead of DNS-over-HTTPS")
	verifyCmd.Flags().StringVarP(&verifyArgs.output, "output", "o", verifyArgs.output,
		"Output format. One of: table, json, yaml.")
	verifyCmd.MarkFlagsMutuallyExclusive("public-key", "domain")
	verifyCmd.MarkFlagsMutuallyExclusive("doh-url", "nameserver")
	rootCmd.AddCommand(verifyCmd)
}

func verifyCmdRun(cmd *cobra.Command, args []string) error {
	switch verifyArgs.output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format: %s", verifyArgs.output)
	}

	publicKey, keySource, err := loadPublicKey()
	if err != nil {
		return err
	}

	results := make([]dkic.VerificationResult, 0, len(args))
	failed := 0
	for _, path := range args {
		result := dkic.VerifyFile(path, publicKey, keySource)
		if !result.Verified {
			failed++
		}
		results = append(results, result)
	}

	switch verifyArgs.output {
	case "json":
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to marshal output to JSON: %w", err)
		}
		if _, err := fmt.Fprintln(rootCmd.OutOrStdout(), string(output)); err != nil {
			return err
		}
	case "yaml":
		output, err := yaml.Marshal(results)
		if err != nil {
			return fmt.Errorf("unable to marshal output to YAML: %w", err)
		}
		if _, err := rootCmd.OutOrStdout().Write(output); err != nil {
			return err
		}
	default:
		rows := make([][]string, 0, len(results))
		for _, res := range results {
			rows = append(rows, []string{res.Path, strconv.FormatBool(res.Verified), res.Error})
		}
		header := []string{"Path", "Verified", "Message"}
		printTable(rootCmd.OutOrStdout(), header, rows)
	}

	if failed > 0 {
		return fmt.Errorf("failed to verify %d of %d file(s)", failed, len(results))
	}
	return nil
}

// loadPublicKey reads the public key from the --public-key file or
// looks it up in DNS for the --domain flag.
func loadPublicKey() (ed25519.PublicKey, string, error) {
	switch {
	case verifyArgs.publicKey != "":
		data, err := os.ReadFile(verifyArgs.publicKey)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read public key %s: %w", verifyArgs.publicKey, err)
		}
		publicKey, err := dkic.ParsePublicKey(data)
		if err != nil {
			return nil, "", fmt.Errorf("invalid public key from %s: %w", verifyArgs.publicKey, err)
		}
		return publicKey, verifyArgs.publicKey, nil
	case verifyArgs.domain != "":
		ctx, cancel := newContext()
		defer cancel()

		resolver := discovery.NewResolver(verifyArgs.dohURL, verifyArgs.nameserver,
			discovery.FetchOpt.WithUserAgent("dkic/"+VERSION))
		record, err := resolver.Resolve(ctx, verifyArgs.domain)
		if err != nil {
			return nil, "", err
		}
		return record.PublicKey, "dns:" + dkic.RecordName(verifyArgs.domain), nil
	default:
		return nil, "", fmt.Errorf("either --public-key or --domain is required")
	}
}
