// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/controlplaneio-fluxcd/dkic/internal/dkic"
)

var stripCmd = &cobra.Command{
	Use:   "strip [FILES...]",
	Short: "Remove the embedded signature and restore documents to their original content",
	Example: `  # Restore signed documents in place
  dkic strip index.html about.html
`,
	Args: cobra.MinimumNArgs(1),
	RunE: stripCmdRun,
}

func init() {
	rootCmd.AddCommand(stripCmd)
}

func stripCmdRun(cmd *cobra.Command, args []string) error {
	failed := 0
	for _, path := range args {
		if err := stripFile(path); err != nil {
			rootCmd.Printf("✗ %v\n", err)
			failed++
			continue
		}
		rootCmd.Printf("✔ stripped: %s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("failed to strip %d of %d file(s)", failed, len(args))
	}
	return nil
}

func stripFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", dkic.ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	original, err := dkic.Strip(content)
	if err != nil {
		return fmt.Errorf("%w in %s", err, path)
	}

	if err := os.WriteFile(path, original, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
