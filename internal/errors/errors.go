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

// Package errors defines the sentinel errors shared by repo-tweet's
// collaborators. Callers wrap them with fmt.Errorf("...: %w", err) and the
// CLI classifies them with errors.Is to pick an exit code.
package errors

import "errors"

var (
	// ErrConfigMissing indicates the credential store is absent or unreadable.
	// Maps to exit code 4.
	ErrConfigMissing = errors.New("credential store not found")

	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the specified repository does not exist or is not accessible.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates an API rate limit has been exceeded.
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrSinkAuth indicates the timeline credentials were rejected.
	// Maps to exit code 2.
	ErrSinkAuth = errors.New("timeline authentication failed")

	// ErrAccountNotFound indicates the timeline account could not be resolved.
	ErrAccountNotFound = errors.New("timeline account not found")

	// ErrPostRejected indicates the timeline refused a single posting.
	// It never aborts a batch.
	ErrPostRejected = errors.New("posting rejected")

	// ErrDuplicatePost indicates the timeline refused a posting because the
	// same text was already published. Always wrapped together with
	// ErrPostRejected.
	ErrDuplicatePost = errors.New("duplicate posting")
)
