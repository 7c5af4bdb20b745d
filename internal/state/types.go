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

package state

import (
	"time"
)

// CurrentVersion is the schema version written by FileStore.
const CurrentVersion = 1

// Mark is the persisted high-water mark. Known is false on a first run,
// when nothing has been persisted yet; Sequence is then zero.
type Mark struct {
	Sequence int
	Known    bool
}

// Store loads and saves the high-water mark.
type Store interface {
	// LoadMark returns the persisted mark. A missing mark is not an error.
	LoadMark() (Mark, error)

	// SaveMark persists sequence as the new mark.
	SaveMark(sequence int) error
}

// AnnounceState is the on-disk format of FileStore.
type AnnounceState struct {
	// Version indicates the schema version of this state file.
	Version int `json:"version"`

	// Checksum is the SHA256 hash of the state content (excluding this field).
	// Used to detect corruption or tampering.
	Checksum string `json:"checksum"`

	// Repository is the full repository name in "org/repo" format.
	Repository string `json:"repository"`

	// LastAnnouncedSequence is the highest pull request number announced.
	LastAnnouncedSequence int `json:"last_announced_sequence"`

	// LastRunTime records when the mark was last written.
	LastRunTime time.Time `json:"last_run_time"`
}
