// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/controlplaneio-fluxcd/dkic/internal/signer"
)

var signCmd = &cobra.Command{
	Use:   "sign [FILES...]",
	Short: "Sign documents in place by embedding the signature in the head section",
	Example: `  # Sign documents with a private key file
  dkic sign --private-key=private_key.pem index.html about.html

  # Sign documents with the private key from the environment
  export DKIC_PRIVATE_KEY="$(cat private_key.pem)"
  dkic sign public/*.html

  # Replace the signature of documents signed with a previous key
  dkic sign --force --private-key=new_key.pem index.html
`,
	Args: cobra.MinimumNArgs(1),
	RunE: signCmdRun,
}

type signFlags struct {
	privateKey string
	force      bool
}

var signArgs signFlags

func init() {
	signCmd.Flags().StringVar(&signArgs.privateKey, "private-key", "",
		"path to the private key PEM file, falls back to the DKIC_PRIVATE_KEY environment variable")
	signCmd.Flags().BoolVar(&signArgs.force, "force", false,
		"replace the signature of documents that are already signed")
	rootCmd.AddCommand(signCmd)
}

func signCmdRun(cmd *cobra.Command, args []string) error {
	key, err := signer.ResolvePrivateKey(signArgs.privateKey)
	if err != nil {
		return err
	}

	ctx, cancel := newContext()
	defer cancel()

	report := &signer.Report{}
	for outcome := range signer.SignFiles(ctx, key, args, signer.SignOpt.WithForce(signArgs.force)) {
		report.Add(outcome)
		switch outcome.Status {
		case signer.StatusSigned:
			rootCmd.Printf("✔ signed: %s\n", outcome.Path)
		case signer.StatusSkipped:
			rootCmd.Printf("⚠ %v, skipping\n", outcome.Err)
		case signer.StatusFailed:
			rootCmd.Printf("✗ %v\n", outcome.Err)
		}
	}

	return report.Err()
}
