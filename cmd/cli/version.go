// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client and protocol version information",
	Args:  cobra.NoArgs,
	RunE:  versionCmdRun,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionCmdRun(cmd *cobra.Command, args []string) error {
	_, err := fmt.Fprintln(rootCmd.OutOrStdout(), "client:", VERSION)
	if err != nil {
		return fmt.Errorf("failed to print client version: %w", err)
	}

	_, err = fmt.Fprintln(rootCmd.OutOrStdout(), "protocol:", dkic.ProtocolVersion)
	if err != nil {
		return fmt.Errorf("failed to print protocol version: %w", err)
	}

	return nil
}
