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

package github

import (
	"context"
	"fmt"
	"time"

	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
type MockClient struct {
	// PullRequests to return, in any order
	PullRequests []PullRequest

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount int
	LastOwner string
	LastRepo  string
	LastOpts  FetchOptions
}

var _ Client = (*MockClient)(nil)

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		PullRequests: generateTestPRs(),
	}
}

// ListPullRequests implements the Client interface. Like the real clients
// it returns at most opts.PageSize of the newest pull requests above opts.Since.
func (m *MockClient) ListPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) ([]PullRequest, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastOpts = opts

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", rterrors.ErrInvalidToken)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", rterrors.ErrNetworkFailure)
	}

	if m.ShouldFailNotFound || owner == "nonexistent" {
		return nil, fmt.Errorf("repository '%s/%s' not found: %w", owner, repo, rterrors.ErrRepoNotFound)
	}

	if m.Error != nil {
		return nil, m.Error
	}

	prs := newestFirst(m.PullRequests, 0)
	if size := opts.PageLimit(); len(prs) > size {
		prs = prs[:size]
	}
	return newestFirst(prs, opts.Since), nil
}

// generateTestPRs creates sample pull request data for testing
func generateTestPRs() []PullRequest {
	now := time.Now().UTC()
	yesterday := now.Add(-24 * time.Hour)
	lastWeek := now.Add(-7 * 24 * time.Hour)

	return []PullRequest{
		{
			Number:     1234,
			Repository: "test/repo",
			Title:      "Add new feature for data processing",
			URL:        "https://github.com/test/repo/pull/1234",
			Author:     "alice",
			CreatedAt:  yesterday,
		},
		{
			Number:     1233,
			Repository: "test/repo",
			Title:      "Fix memory leak in parser",
			URL:        "https://github.com/test/repo/pull/1233",
			Author:     "bob",
			CreatedAt:  lastWeek,
		},
		{
			Number:     1232,
			Repository: "test/repo",
			Title:      "Update documentation",
			URL:        "https://github.com/test/repo/pull/1232",
			Author:     "charlie",
			CreatedAt:  lastWeek,
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPullRequests sets specific pull requests to return
func WithPullRequests(prs []PullRequest) MockClientOption {
	return func(m *MockClient) {
		m.PullRequests = prs
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithNetworkFailure makes the client simulate a transport failure
func WithNetworkFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailNetwork = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
