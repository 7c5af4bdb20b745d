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

package timeline

import (
	"context"
	"fmt"

	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
)

// MockSink is an in-memory Sink for tests.
type MockSink struct {
	Timeline *MockTimeline

	// AuthError is returned by Authenticate when set.
	AuthError error

	AuthCalls int
}

var _ Sink = (*MockSink)(nil)

// NewMockSink returns a sink whose timeline already holds postings,
// newest first.
func NewMockSink(postings ...string) *MockSink {
	return &MockSink{Timeline: &MockTimeline{Postings: postings}}
}

// Authenticate implements Sink.
func (m *MockSink) Authenticate(ctx context.Context) (Timeline, error) {
	m.AuthCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.AuthError != nil {
		return nil, m.AuthError
	}
	return m.Timeline, nil
}

// MockTimeline records posts and serves them back as the account's history.
type MockTimeline struct {
	// Postings is the account's history, newest first. Successful posts are
	// prepended.
	Postings []string

	// Posted lists every accepted text in submission order.
	Posted []string

	// ListError is returned by ListRecentPostings when set.
	ListError error

	// FailPost, when set, is consulted before each post; a non-nil result
	// rejects that posting.
	FailPost func(text string) error

	// RejectDuplicates makes posting a text already in Postings fail the
	// way the real service does.
	RejectDuplicates bool

	ListCalls int
	PostCalls int
}

var _ Timeline = (*MockTimeline)(nil)

// ListRecentPostings implements Timeline.
func (m *MockTimeline) ListRecentPostings(ctx context.Context, account string) ([]string, error) {
	m.ListCalls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ListError != nil {
		return nil, m.ListError
	}
	return append([]string(nil), m.Postings...), nil
}

// Post implements Timeline.
func (m *MockTimeline) Post(ctx context.Context, text string) error {
	m.PostCalls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.FailPost != nil {
		if err := m.FailPost(text); err != nil {
			return err
		}
	}
	if m.RejectDuplicates {
		for _, p := range m.Postings {
			if p == text {
				return fmt.Errorf("duplicate content: %w: %w", rterrors.ErrPostRejected, rterrors.ErrDuplicatePost)
			}
		}
	}
	m.Posted = append(m.Posted, text)
	m.Postings = append([]string{text}, m.Postings...)
	return nil
}
