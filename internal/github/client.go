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

	"github.com/sirseerhq/repo-tweet/internal/apierror"
	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
)

// Client defines the interface for listing a repository's pull requests.
// This interface allows for easy mocking in tests.
type Client interface {
	// ListPullRequests returns the newest pull requests of owner/repo in
	// descending number order, limited to opts.PageSize and filtered by
	// opts.Since. A repository without pull requests yields an empty slice.
	ListPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) ([]PullRequest, error)
}

// mapError converts an API error into one wrapping a sentinel.
func mapError(inspector apierror.Inspector, err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded (%v): %w", err, rterrors.ErrRateLimit)
	}

	if inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Check source.api_token or GITHUB_TOKEN: %w", rterrors.ErrInvalidToken)
	}

	if inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository '%s/%s' not found. Please check the repository name and your access permissions: %w", owner, repo, rterrors.ErrRepoNotFound)
	}

	if inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API (%v): %w", err, rterrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to fetch pull requests: %w", err)
}
