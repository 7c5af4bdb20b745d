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

package announce

import (
	"errors"
	"fmt"

	"github.com/sirseerhq/repo-tweet/internal/state"
)

// Mode selects how eligibility is decided.
type Mode string

const (
	// ModeAuto uses the mark when one is stored and the timeline otherwise.
	ModeAuto Mode = "auto"
	// ModeSequence announces pull requests numbered above the mark.
	ModeSequence Mode = "sequence"
	// ModeText announces pull requests whose text is not on the timeline.
	ModeText Mode = "text"
)

// Posting is the message derived from one pull request.
type Posting struct {
	Sequence   int    `json:"sequence"`
	Repository string `json:"repository"`
	URL        string `json:"url"`
	Text       string `json:"text"`
}

// Status is what happened to one eligible posting.
type Status string

const (
	StatusPosted  Status = "posted"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped" // already on the timeline
	StatusPending Status = "pending" // previewed, not submitted
)

// Outcome pairs a posting with its status. Err is set for failures.
type Outcome struct {
	Posting Posting
	Status  Status
	Err     error
}

// Result summarizes one run.
type Result struct {
	// Mode is the mode actually used after auto selection.
	Mode     Mode
	Fetched  int
	Outcomes []Outcome

	PreviousMark state.Mark
	NewMark      int

	// Threshold is the mark eligibility was judged against. It differs from
	// PreviousMark when MarkRecovered is set.
	Threshold     int
	MarkRecovered bool

	// Unfetched is the inclusive range of numbers above Threshold that a
	// full page did not reach. Zero when the page covered everything.
	Unfetched [2]int

	// Changed reports whether NewMark moved past the previous mark.
	Changed bool
	// Persisted reports whether NewMark was written to the store.
	Persisted bool
}

// Count returns how many outcomes have status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// Eligible returns the number of pull requests considered for posting.
func (r *Result) Eligible() int {
	return len(r.Outcomes)
}

// Err joins the errors of all failed postings, or returns nil.
func (r *Result) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed {
			errs = append(errs, fmt.Errorf("pull request #%d: %w", o.Posting.Sequence, o.Err))
		}
	}
	return errors.Join(errs...)
}
