// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
)

var (
	VERSION = "0.0.0-dev.0"
)

var rootCmd = &cobra.Command{
	Use:               "dkic",
	Version:           VERSION,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	Short:             "DomainKeys Identified Content signing tool",
	Long: `Sign static documents with Ed25519 keys published in DNS.

The public key is published as a TXT record at _dkic.<domain> and the signature
is embedded in the document head, so that any verifier can fetch the key and
check the content was issued by the domain owner.`,
}

type rootFlags struct {
	timeout time.Duration
	verbose bool
}

var rootArgs = rootFlags{
	timeout: time.Minute,
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&rootArgs.timeout, "timeout", rootArgs.timeout,
		"The length of time to wait before giving up on the current operation.")
	rootCmd.PersistentFlags().BoolVarP(&rootArgs.verbose, "verbose", "v", false,
		"Print debug logs to stderr.")
	rootCmd.SetOut(os.Stdout)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrf("✗ %v\n", err)
		os.Exit(1)
	}
}

// newContext returns a context bounded by the --timeout flag
// carrying the logger configured by the --verbose flag.
func newContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), rootArgs.timeout)
	return logr.NewContext(ctx, newLogger()), cancel
}

func newLogger() logr.Logger {
	if !rootArgs.verbose {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(rootCmd.ErrOrStderr(), "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), args)
	}, funcr.Options{Verbosity: 1}).WithName("dkic")
}
