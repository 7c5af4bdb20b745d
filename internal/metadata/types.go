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

// Package metadata types define the run report recorded after each
// announcement run. A report says what was fetched, what happened to each
// eligible pull request, and how the high-water mark moved.
package metadata

import (
	"time"
)

// RunReport is the complete record of one run.
type RunReport struct {
	ToolVersion string     `json:"tool_version"`
	RunID       string     `json:"run_id"`
	Parameters  RunParams  `json:"parameters"`
	Results     RunResults `json:"results"`
}

// RunParams captures the inputs of a run.
type RunParams struct {
	Repository string `json:"repository"`
	Account    string `json:"account"`
	API        string `json:"api"`
	Mode       string `json:"mode"`
	DryRun     bool   `json:"dry_run"`
}

// RunResults holds the counts and timings of a run. Eligible equals the sum
// of Posted, Failed, Skipped and Pending.
type RunResults struct {
	Fetched  int `json:"fetched"`
	FirstPR  int `json:"first_pr_number,omitempty"`
	LastPR   int `json:"last_pr_number,omitempty"`
	Eligible int `json:"eligible"`
	Posted   int `json:"posted"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
	Pending  int `json:"pending"`

	PreviousMark  *int `json:"previous_mark,omitempty"`
	NewMark       int  `json:"new_mark"`
	MarkPersisted bool `json:"mark_persisted"`

	APICallCount int       `json:"api_calls_made"`
	Duration     string    `json:"run_duration"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// MarkChange describes how the high-water mark moved during a run.
type MarkChange struct {
	Previous  *int
	New       int
	Persisted bool
}
