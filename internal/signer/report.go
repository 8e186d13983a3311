// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package signer

import (
	"fmt"
	"iter"
)

// Report aggregates the outcomes of a signing batch.
type Report struct {
	Outcomes []Outcome
	Signed   int
	Skipped  int
	Failed   int
}

// Collect drains the outcome sequence into a Report.
func Collect(outcomes iter.Seq[Outcome]) *Report {
	report := &Report{}
	for outcome := range outcomes {
		report.Add(outcome)
	}
	return report
}

// Add records a single outcome.
func (r *Report) Add(outcome Outcome) {
	r.Outcomes = append(r.Outcomes, outcome)
	switch outcome.Status {
	case StatusSigned:
		r.Signed++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}

// Err returns an error if at least one document failed to be signed.
// Skipped documents are warnings and do not count as failures.
func (r *Report) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return fmt.Errorf("failed to sign %d of %d file(s)", r.Failed, len(r.Outcomes))
}
