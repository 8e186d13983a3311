// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	cp "github.com/otiai10/copy"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var timeout = 30 * time.Second

// executeCommand executes a CLI command with the given args and returns the output and error.
// This helper function can be reused across all CLI command tests.
func executeCommand(args []string) (string, error) {
	defer resetCmdArgs()

	// Capture output
	buf := new(bytes.Buffer)

	// Set up the command
	cmd := rootCmd
	cmd.SetArgs(args)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	// Execute command
	err := cmd.Execute()

	return buf.String(), err
}

// resetCmdArgs resets all command-specific flags to their default values.
// This should be called between tests to ensure clean state.
func resetCmdArgs() {
	resetFlags(rootCmd)

	rootArgs = rootFlags{timeout: timeout}
	keygenArgs = newKeygenFlags()
	signArgs = signFlags{}
	verifyArgs = verifyFlags{output: "table"}
	recordArgs = recordFlags{}
}

// resetFlags clears the changed state of every flag in the command tree,
// so that mutually exclusive flag groups are evaluated per execution.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// copyTestdata copies the testdata/site fixtures into a temporary directory.
func copyTestdata(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := cp.Copy(filepath.Join("testdata", "site"), dir); err != nil {
		t.Fatalf("failed to copy testdata: %v", err)
	}
	return dir
}
