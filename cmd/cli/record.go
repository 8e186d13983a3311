// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/controlplaneio-fluxcd/dkic/internal/signer"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Print the DNS record of the public key derived from a private key",
	Example: `  # Print the zone line for a domain
  dkic record --private-key=private_key.pem --domain example.com

  # Derive the record from the private key in the environment
  DKIC_PRIVATE_KEY="$(cat private_key.pem)" dkic record
`,
	Args: cobra.NoArgs,
	RunE: recordCmdRun,
}

type recordFlags struct {
	privateKey string
	domain     string
}

var recordArgs recordFlags

func init() {
	recordCmd.Flags().StringVar(&recordArgs.privateKey, "private-key", "",
		"path to the private key PEM file, falls back to the DKIC_PRIVATE_KEY environment variable")
	recordCmd.Flags().StringVar(&recordArgs.domain, "domain", "",
		"domain owning the DNS record (defaults to the [your-domain] placeholder)")
	rootCmd.AddCommand(recordCmd)
}

func recordCmdRun(cmd *cobra.Command, args []string) error {
	key, err := signer.ResolvePrivateKey(recordArgs.privateKey)
	if err != nil {
		return err
	}

	zoneLine, err := key.Record().ZoneLine(recordArgs.domain)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(rootCmd.OutOrStdout(), zoneLine); err != nil {
		return fmt.Errorf("failed to print record: %w", err)
	}
	return nil
}
