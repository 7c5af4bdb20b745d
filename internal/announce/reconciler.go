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
	"context"
	"errors"
	"fmt"
	"sort"

	clog "github.com/charmbracelet/log"

	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
	"github.com/sirseerhq/repo-tweet/internal/github"
	"github.com/sirseerhq/repo-tweet/internal/metadata"
	"github.com/sirseerhq/repo-tweet/internal/output"
	"github.com/sirseerhq/repo-tweet/internal/state"
	"github.com/sirseerhq/repo-tweet/internal/timeline"
)

// Reconciler announces a repository's new pull requests on a timeline.
// It holds no state between runs apart from what the store persists.
type Reconciler struct {
	source   github.Client
	timeline timeline.Timeline
	store    state.Store
	preview  output.RecordWriter
	tracker  *metadata.Tracker
	log      *clog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithPreview writes every posting that is not submitted to w.
func WithPreview(w output.RecordWriter) Option {
	return func(r *Reconciler) {
		r.preview = w
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *clog.Logger) Option {
	return func(r *Reconciler) {
		r.log = l
	}
}

// WithTracker records the run's activity in t.
func WithTracker(t *metadata.Tracker) Option {
	return func(r *Reconciler) {
		r.tracker = t
	}
}

// NewReconciler creates a Reconciler. tl may be nil when the timeline could
// not be authenticated; every eligible posting is then only previewed and
// the mark is left alone.
func NewReconciler(source github.Client, tl timeline.Timeline, store state.Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		source:   source,
		timeline: tl,
		store:    store,
		log:      clog.Default().WithPrefix("announce"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracker == nil {
		r.tracker = metadata.New()
	}
	return r
}

// Options are the per-run inputs.
type Options struct {
	Owner    string
	Repo     string
	Account  string
	PageSize int
	Mode     Mode

	// DryRun previews eligible postings without submitting them or
	// persisting the mark.
	DryRun bool
}

// Run performs one batch: load the mark, read the timeline, fetch pull
// requests, post the eligible ones oldest first, then persist the new mark.
// Individual posting failures do not stop the batch; they are reported in
// the Result and hold the mark back. The returned error covers failures
// that prevented the batch from running or its mark from being saved.
func (r *Reconciler) Run(ctx context.Context, opts Options) (*Result, error) {
	mark, err := r.store.LoadMark()
	if err != nil {
		return nil, fmt.Errorf("failed to load announcement state: %w", err)
	}

	repository := opts.Owner + "/" + opts.Repo
	seen, readErr := r.readTimeline(ctx, opts.Account, repository)

	mode, err := r.selectMode(opts.Mode, mark, seen, readErr)
	if err != nil {
		return nil, err
	}

	// threshold is the mark eligibility is judged against. Without a stored
	// mark, the newest announcement on the timeline stands in for it.
	threshold := mark
	recovered := false
	if mode == ModeSequence && !mark.Known && seen != nil && seen.highest > 0 {
		threshold = state.Mark{Sequence: seen.highest, Known: true}
		recovered = true
		r.log.Info("Recovered high-water mark from timeline", "account", opts.Account, "mark", threshold.Sequence)
	}

	since := 0
	if mode == ModeSequence {
		since = threshold.Sequence
	}

	fetch := github.FetchOptions{PageSize: opts.PageSize, Since: since}

	r.log.Debug("Fetching pull requests", "repo", repository, "mode", mode, "since", since)
	r.tracker.IncrementAPICall()
	prs, err := r.source.ListPullRequests(ctx, opts.Owner, opts.Repo, fetch)
	if err != nil {
		return nil, err
	}

	for i := range prs {
		if prs[i].Repository == "" {
			prs[i].Repository = repository
		}
		r.tracker.RecordPullRequest(prs[i].Number)
	}

	result := &Result{
		Mode:          mode,
		Fetched:       len(prs),
		PreviousMark:  mark,
		Threshold:     threshold.Sequence,
		MarkRecovered: recovered,
	}

	if mode == ModeSequence && threshold.Known {
		if from, to, ok := unfetched(prs, threshold.Sequence, fetch.PageLimit()); ok {
			result.Unfetched = [2]int{from, to}
			r.log.Warn("More new pull requests than one page holds, the oldest are not announced",
				"repo", repository, "from", from, "to", to, "pageSize", fetch.PageLimit())
		}
	}

	submit := r.timeline != nil && !opts.DryRun
	var failed []int

	for _, posting := range eligible(prs, threshold, mode, seen) {
		outcome := Outcome{Posting: posting}

		switch {
		case mode == ModeSequence && seen.contains(posting):
			outcome.Status = StatusSkipped
			r.log.Info("Already on timeline", "pr", posting.Sequence)

		case !submit:
			outcome.Status = StatusPending
			if r.preview != nil {
				if err := r.preview.Write(posting); err != nil {
					return nil, fmt.Errorf("failed to write preview: %w", err)
				}
			}

		default:
			outcome.Status, outcome.Err = r.post(ctx, posting)
		}

		if outcome.Status == StatusFailed {
			failed = append(failed, posting.Sequence)
		}
		r.tracker.RecordOutcome(string(outcome.Status))
		result.Outcomes = append(result.Outcomes, outcome)
	}

	result.NewMark = nextMark(threshold, prs, failed)
	result.Changed = result.NewMark > mark.Sequence

	if result.Changed && submit {
		if err := r.store.SaveMark(result.NewMark); err != nil {
			return result, fmt.Errorf("failed to save announcement state: %w", err)
		}
		result.Persisted = true
		r.log.Info("Saved high-water mark", "previous", mark.Sequence, "new", result.NewMark)
	}

	return result, nil
}

// errNoTimeline marks a run without an authenticated timeline.
var errNoTimeline = errors.New("timeline not authenticated")

// readTimeline returns what the account's timeline already announces for
// repository, or the reason it could not be read.
func (r *Reconciler) readTimeline(ctx context.Context, account, repository string) (*history, error) {
	if r.timeline == nil {
		return nil, errNoTimeline
	}

	r.tracker.IncrementAPICall()
	texts, err := r.timeline.ListRecentPostings(ctx, account)
	if err != nil {
		r.log.Warn("Could not read timeline", "account", account, "err", err)
		return nil, err
	}

	return newHistory(texts, repository), nil
}

func (r *Reconciler) selectMode(requested Mode, mark state.Mark, h *history, readErr error) (Mode, error) {
	readable := readErr == nil
	switch requested {
	case "", ModeAuto:
		switch {
		case mark.Known:
			return ModeSequence, nil
		case readable && h.highest > 0:
			return ModeSequence, nil
		case readable:
			return ModeText, nil
		}
		return ModeSequence, nil

	case ModeSequence:
		return ModeSequence, nil

	case ModeText:
		if readable {
			return ModeText, nil
		}
		if r.timeline == nil {
			// Nothing is submitted without a timeline, so the mark is a
			// safe stand-in for the preview.
			r.log.Warn("Timeline unavailable, previewing by high-water mark")
			return ModeSequence, nil
		}
		return "", fmt.Errorf("text mode needs a readable timeline: %w", readErr)
	}
	return "", fmt.Errorf("unknown mode %q", requested)
}

// post submits one posting. A duplicate rejection means the text is already
// on the timeline, which is the outcome a post is meant to achieve.
func (r *Reconciler) post(ctx context.Context, posting Posting) (Status, error) {
	if err := ctx.Err(); err != nil {
		return StatusFailed, err
	}

	r.tracker.IncrementAPICall()
	err := r.timeline.Post(ctx, posting.Text)
	switch {
	case err == nil:
		r.log.Info("Posted", "pr", posting.Sequence)
		return StatusPosted, nil
	case errors.Is(err, rterrors.ErrDuplicatePost):
		r.log.Info("Already on timeline", "pr", posting.Sequence)
		return StatusSkipped, nil
	}

	r.log.Error("Posting failed", "pr", posting.Sequence, "err", err)
	return StatusFailed, err
}

// eligible returns the postings to consider, oldest first.
func eligible(prs []github.PullRequest, mark state.Mark, mode Mode, h *history) []Posting {
	sorted := append([]github.PullRequest(nil), prs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Number < sorted[j].Number })

	var postings []Posting
	for _, pr := range sorted {
		posting := FormatPosting(pr)
		switch mode {
		case ModeText:
			if h.contains(posting) {
				continue
			}
		default:
			if pr.Number <= mark.Sequence {
				continue
			}
		}
		postings = append(postings, posting)
	}
	return postings
}

// unfetched reports the range of pull requests above mark that a full page
// did not reach. Numbers are not contiguous across a repository's issues and
// pull requests, so the range may hold fewer pull requests than its width.
func unfetched(prs []github.PullRequest, mark, pageLimit int) (from, to int, ok bool) {
	if len(prs) == 0 || len(prs) < pageLimit {
		return 0, 0, false
	}
	lowest := prs[0].Number
	for _, pr := range prs[1:] {
		if pr.Number < lowest {
			lowest = pr.Number
		}
	}
	if lowest <= mark+1 {
		return 0, 0, false
	}
	return mark + 1, lowest - 1, true
}

// nextMark is the highest fetched number, held below the lowest failure and
// never below the previous mark.
func nextMark(mark state.Mark, prs []github.PullRequest, failed []int) int {
	next := mark.Sequence
	for _, pr := range prs {
		if pr.Number > next {
			next = pr.Number
		}
	}
	for _, seq := range failed {
		if seq-1 < next {
			next = seq - 1
		}
	}
	if next < mark.Sequence {
		next = mark.Sequence
	}
	return next
}
