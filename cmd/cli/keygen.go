// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an Ed25519 key pair and the DNS record for publishing the public key",
	Example: `  # Generate private_key.pem and public_key.dns.txt in the current directory
  dkic keygen

  # Generate keys for a domain and a JWKS for offline verification
  dkic keygen --out keys/site --outpubkey keys/site --domain example.com --jwks
`,
	Args: cobra.NoArgs,
	RunE: keygenCmdRun,
}

type keygenFlags struct {
	out       string
	outPubKey string
	domain    string
	keySet    bool
	force     bool
}

var keygenArgs = newKeygenFlags()

func newKeygenFlags() keygenFlags {
	return keygenFlags{
		out:       "private_key",
		outPubKey: "public_key",
	}
}

func init() {
	keygenCmd.Flags().StringVar(&keygenArgs.out, "out", keygenArgs.out,
		"output file prefix for the private key PEM file")
	keygenCmd.Flags().StringVar(&keygenArgs.outPubKey, "outpubkey", keygenArgs.outPubKey,
		"output file prefix for the public key DNS record file")
	keygenCmd.Flags().StringVar(&keygenArgs.domain, "domain", "",
		"domain owning the DNS record (defaults to the [your-domain] placeholder)")
	keygenCmd.Flags().BoolVar(&keygenArgs.keySet, "jwks", false,
		"also write the public key as a JSON Web Key Set")
	keygenCmd.Flags().BoolVar(&keygenArgs.force, "force", false,
		"overwrite an existing private key file")
	rootCmd.AddCommand(keygenCmd)
}

func keygenCmdRun(cmd *cobra.Command, args []string) error {
	if keygenArgs.out == "" || keygenArgs.outPubKey == "" {
		return fmt.Errorf("--out and --outpubkey must not be empty")
	}

	keyPair, err := dkic.GenerateKeyPair(nil)
	if err != nil {
		return err
	}

	files, err := keyPair.WriteFiles(keygenArgs.out, keygenArgs.outPubKey, dkic.WriteOptions{
		Domain:    keygenArgs.domain,
		KeySet:    keygenArgs.keySet,
		Overwrite: keygenArgs.force,
	})
	if err != nil {
		return err
	}

	content, err := dkic.NewPublicKeyRecord(keyPair.PublicKey).Content()
	if err != nil {
		return err
	}

	rootCmd.Printf("✔ private key written to: %s\n", files.PrivateKey)
	rootCmd.Printf("✔ DNS record written to: %s\n", files.PublicKey)
	if files.KeySet != "" {
		rootCmd.Printf("✔ public key set written to: %s\n", files.KeySet)
	}
	rootCmd.Printf("\tsubdomain: %s\n", dkic.Selector)
	rootCmd.Printf("\ttype: TXT\n")
	rootCmd.Printf("\tcontent: %s\n", content)

	return nil
}
