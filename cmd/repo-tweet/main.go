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

package main

import (
	"errors"
	"fmt"
	"os"

	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
)

// errPartialPosting reports a batch in which some postings were rejected.
// The individual causes are formatted into the message, not wrapped.
var errPartialPosting = errors.New("some postings failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, rterrors.ErrConfigMissing):
		return 4
	case errors.Is(err, errPartialPosting):
		return 1
	case errors.Is(err, rterrors.ErrInvalidToken),
		errors.Is(err, rterrors.ErrRepoNotFound),
		errors.Is(err, rterrors.ErrSinkAuth):
		return 2 // Authentication/authorization errors
	case errors.Is(err, rterrors.ErrNetworkFailure):
		return 3
	}
	return 1
}
