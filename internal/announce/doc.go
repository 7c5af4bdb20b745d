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

// Package announce decides which pull requests still need to be announced
// and announces them.
//
// The primary record is a high-water mark: the highest pull request number
// already announced. Pull requests above the mark are posted oldest first,
// and afterwards the mark moves to the highest number fetched. A failed
// posting holds the mark below itself so it is retried on the next run,
// while later successes in the same batch still go out.
//
// When no mark has been stored yet, the account's recent postings are used
// instead: a pull request is announced unless its exact text already
// appears on the timeline. This fallback breaks when the service shortens
// URLs or truncates text, so the mark takes over as soon as one is stored.
package announce
