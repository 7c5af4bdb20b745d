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

// Package state persists the announcement high-water mark between runs.
//
// A Store loads and saves a Mark, the highest pull request number already
// posted to the timeline. Two stores exist: the credential file itself
// (config.CredentialStore, the default) and FileStore, a dedicated JSON file
// carrying a schema version and a SHA-256 checksum so a truncated or edited
// file is rejected instead of silently rewinding the mark.
//
// Every write goes through WriteFileAtomic: data is written to a temporary
// file in the target directory, synced, and renamed over the target, so a
// crash mid-write leaves the previous contents intact.
package state
