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

// Package github provides the pull request source: a small client that
// lists the newest pull requests of one repository. Two implementations
// share the Client interface:
//   - RESTClient, built on google/go-github with an oauth2 token source
//   - GraphQLClient, built on shurcooL/graphql with a bearer auth transport
//
// Errors are normalized to the sentinels in internal/errors so callers can
// tell an invalid token from a missing repository or a network failure.
//
// Basic usage:
//
//	client, err := github.NewRESTClient(ctx, token, "https://api.github.com/")
//	if err != nil {
//	    // Handle error
//	}
//	prs, err := client.ListPullRequests(ctx, "jfieger", "repo-tweet", github.FetchOptions{
//	    PageSize: 30,
//	    Since:    41,
//	})
package github
