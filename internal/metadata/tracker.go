// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metadata tracks what happens during an announcement run and
// persists the result as a RunReport. Reports are written as JSON files
// into the configured report directory, one per run, and the status command
// reads the newest one back.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sirseerhq/repo-tweet/internal/state"
)

// Outcome names match the posting statuses reported by the reconciler.
const (
	OutcomePosted  = "posted"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
	OutcomePending = "pending"
)

// Tracker collects statistics during a run and generates a RunReport.
// Create a new tracker at the start of each run.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	fetched      int
	firstPR      int
	lastPR       int
	outcomes     map[string]int
}

// New creates a new tracker started at the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		outcomes:  make(map[string]int),
	}
}

// IncrementAPICall records that a remote API call was made.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// RecordPullRequest adds one fetched pull request to the running range.
func (t *Tracker) RecordPullRequest(number int) {
	t.fetched++
	if t.firstPR == 0 || number < t.firstPR {
		t.firstPR = number
	}
	if number > t.lastPR {
		t.lastPR = number
	}
}

// RecordOutcome counts the final status of one eligible pull request.
func (t *Tracker) RecordOutcome(outcome string) {
	t.outcomes[outcome]++
}

// GenerateReport creates the RunReport for the run so far. Call this once
// the mark has been persisted, or deliberately left alone.
func (t *Tracker) GenerateReport(toolVersion string, params RunParams, mark MarkChange) *RunReport {
	completedAt := time.Now()

	eligible := 0
	for _, n := range t.outcomes {
		eligible += n
	}

	return &RunReport{
		ToolVersion: toolVersion,
		RunID:       uuid.NewString(),
		Parameters:  params,
		Results: RunResults{
			Fetched:       t.fetched,
			FirstPR:       t.firstPR,
			LastPR:        t.lastPR,
			Eligible:      eligible,
			Posted:        t.outcomes[OutcomePosted],
			Failed:        t.outcomes[OutcomeFailed],
			Skipped:       t.outcomes[OutcomeSkipped],
			Pending:       t.outcomes[OutcomePending],
			PreviousMark:  mark.Previous,
			NewMark:       mark.New,
			MarkPersisted: mark.Persisted,
			APICallCount:  t.apiCallCount,
			Duration:      completedAt.Sub(t.startTime).String(),
			StartedAt:     t.startTime,
			CompletedAt:   completedAt,
		},
	}
}

// SaveReport writes report into dir as run-{unix}-{id}.json and returns the
// file path. The write is atomic.
func SaveReport(report *RunReport, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	id := report.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	path := filepath.Join(dir, fmt.Sprintf("run-%d-%s.json", report.Results.StartedAt.Unix(), id))

	if err := state.WriteFileAtomic(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to save report: %w", err)
	}
	return path, nil
}

// LoadLatestReport returns the most recently completed report for repo in
// dir, or nil if there is none. Unreadable files are skipped.
func LoadLatestReport(dir, repo string) (*RunReport, error) {
	files, err := filepath.Glob(filepath.Join(dir, "run-*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var latest *RunReport
	for _, file := range files {
		report, readErr := readReport(file)
		if readErr != nil || report.Parameters.Repository != repo {
			continue
		}
		if latest == nil || report.Results.CompletedAt.After(latest.Results.CompletedAt) {
			latest = report
		}
	}
	return latest, nil
}

func readReport(path string) (*RunReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report RunReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	return &report, nil
}

// WriteReport serializes report as indented JSON to w.
func WriteReport(report *RunReport, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
