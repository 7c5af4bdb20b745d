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
	"sort"
	"time"
)

// PullRequest is the subset of a GitHub pull request needed to announce it.
type PullRequest struct {
	Number     int       `json:"number"`
	Repository string    `json:"repository"`
	Title      string    `json:"title"`
	Body       string    `json:"body,omitempty"`
	URL        string    `json:"url"`
	Author     string    `json:"author,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// FetchOptions configures how pull requests are fetched.
type FetchOptions struct {
	// PageSize controls how many of the newest PRs are requested.
	// Defaults to 30. Maximum is 100 per GitHub's API limits.
	PageSize int

	// Since drops pull requests numbered at or below it. Zero keeps all.
	Since int
}

const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// PageLimit is the number of pull requests one fetch returns at most.
func (o FetchOptions) PageLimit() int {
	switch {
	case o.PageSize <= 0:
		return defaultPageSize
	case o.PageSize > maxPageSize:
		return maxPageSize
	}
	return o.PageSize
}

// newestFirst filters out pull requests at or below since and orders the
// rest by descending number.
func newestFirst(prs []PullRequest, since int) []PullRequest {
	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		if pr.Number > since {
			out = append(out, pr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out
}
