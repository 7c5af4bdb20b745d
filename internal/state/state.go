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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GetStateFilePath returns the default state file location for a repository.
func GetStateFilePath(repository string) string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	// Replace slashes with dashes for filesystem compatibility
	safeRepoName := strings.ReplaceAll(repository, "/", "-")

	return filepath.Join(homeDir, ".repo-tweet", "state", safeRepoName+".state")
}

// FileStore keeps the mark in a dedicated checksummed JSON file.
type FileStore struct {
	path       string
	repository string
	now        func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a FileStore for repository at path. An empty path
// selects GetStateFilePath(repository).
func NewFileStore(path, repository string) *FileStore {
	if path == "" {
		path = GetStateFilePath(repository)
	}
	return &FileStore{path: path, repository: repository, now: time.Now}
}

// Path returns the state file location.
func (s *FileStore) Path() string {
	return s.path
}

// LoadMark implements Store.
func (s *FileStore) LoadMark() (Mark, error) {
	st, err := LoadState(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Mark{}, nil
		}
		return Mark{}, err
	}
	if st.Repository != "" && s.repository != "" && st.Repository != s.repository {
		return Mark{}, fmt.Errorf("state file %s belongs to %s, not %s", s.path, st.Repository, s.repository)
	}
	return Mark{Sequence: st.LastAnnouncedSequence, Known: true}, nil
}

// SaveMark implements Store.
func (s *FileStore) SaveMark(sequence int) error {
	return SaveState(&AnnounceState{
		Repository:            s.repository,
		LastAnnouncedSequence: sequence,
		LastRunTime:           s.now().UTC(),
	}, s.path)
}

// SaveState writes state to stateFile atomically with a fresh checksum.
func SaveState(state *AnnounceState, stateFile string) error {
	state.Version = CurrentVersion

	checksum, err := calculateChecksum(state)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}
	state.Checksum = checksum

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	return WriteFileAtomic(stateFile, data, 0o600)
}

// LoadState reads and validates a state file. A missing file yields an
// error wrapping fs.ErrNotExist.
func LoadState(stateFile string) (*AnnounceState, error) {
	data, err := os.ReadFile(stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no previous announce state found at %s: %w", stateFile, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", stateFile, err)
	}

	var state AnnounceState
	if unmarshalErr := json.Unmarshal(data, &state); unmarshalErr != nil {
		return nil, fmt.Errorf("state file is corrupted (invalid JSON): %w", unmarshalErr)
	}

	if state.Version != CurrentVersion {
		return nil, fmt.Errorf("state file version (%d) is incompatible with current version (%d)",
			state.Version, CurrentVersion)
	}

	savedChecksum := state.Checksum
	calculatedChecksum, err := calculateChecksum(&state)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksum for validation: %w", err)
	}
	if savedChecksum != calculatedChecksum {
		return nil, fmt.Errorf("state file is corrupted (checksum mismatch)")
	}

	return &state, nil
}

// WriteFileAtomic replaces path with data using a synced temporary file in
// the same directory and a rename. The directory is created if needed.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

func calculateChecksum(state *AnnounceState) (string, error) {
	stateCopy := *state
	stateCopy.Checksum = ""

	data, err := json.Marshal(stateCopy)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
