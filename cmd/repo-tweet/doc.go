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

// Command repo-tweet announces a GitHub repository's new pull requests on a
// Twitter timeline.
//
// Each invocation runs one batch: it reads the credential file, fetches the
// newest pull requests, posts one message per pull request that has not been
// announced yet, and stores the highest announced number back into the
// credential file (or a separate state file).
//
// Usage:
//
//	repo-tweet [--config FILE] [--dry-run] [--mode auto|sequence|text] [--output FILE]
//	repo-tweet status [--json]
//
// Exit codes:
//
//	0  success, including nothing to announce
//	1  general error, including a batch where some postings failed
//	2  authentication or authorization failure, or repository not found
//	3  network failure
//	4  credential file missing or unreadable
package main
