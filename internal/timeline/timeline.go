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

import "context"

// Sink authenticates against a timeline service.
type Sink interface {
	// Authenticate exchanges the configured credentials for an
	// authenticated Timeline. Rejected credentials wrap ErrSinkAuth.
	Authenticate(ctx context.Context) (Timeline, error)
}

// Timeline reads and writes one account's postings.
type Timeline interface {
	// ListRecentPostings returns the texts of the account's most recent
	// postings, newest first.
	ListRecentPostings(ctx context.Context, account string) ([]string, error)

	// Post publishes text. A refusal wraps ErrPostRejected, together with
	// ErrDuplicatePost or ErrRateLimit when the reason is known.
	Post(ctx context.Context, text string) error
}
