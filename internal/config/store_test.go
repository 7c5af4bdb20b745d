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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCredentialStore_YAMLRoundTrip(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "creds.yaml", sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	store := NewCredentialStore(cfg)

	mark, err := store.LoadMark()
	require.NoError(t, err)
	assert.False(t, mark.Known)
	assert.Zero(t, mark.Sequence)

	require.NoError(t, store.SaveMark(7))

	mark, err = store.LoadMark()
	require.NoError(t, err)
	assert.True(t, mark.Known)
	assert.Equal(t, 7, mark.Sequence)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# repo-tweet credentials", "comments are preserved")
	assert.Contains(t, string(data), "api_token: gh-secret")
	assert.Contains(t, string(data), "last_announced_sequence: 7")

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Sink.LastAnnouncedSequence)
	assert.Equal(t, 7, *reloaded.Sink.LastAnnouncedSequence)
	assert.Equal(t, "cs", reloaded.Sink.BearerCredentials.ConsumerSecret)

	require.NoError(t, NewCredentialStore(reloaded).SaveMark(9))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "last_announced_sequence: 9")
	assert.NotContains(t, string(data), "last_announced_sequence: 7")
}

func TestCredentialStore_DoesNotPersistEnvOverrides(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "creds.yaml", sampleYAML)
	t.Setenv("GITHUB_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, NewCredentialStore(cfg).SaveMark(3))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "from-env")
	assert.Contains(t, string(data), "gh-secret")
}

func TestCredentialStore_PreservesMode(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "creds.yaml", sampleYAML)
	require.NoError(t, os.Chmod(path, 0o640))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, NewCredentialStore(cfg).SaveMark(1))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestCredentialStore_TOML(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "creds.toml", `
[source]
api_token = "gh-secret"
repo_name = "jfieger/repo-tweet"

[sink]
screen_name = "repotweet"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, NewCredentialStore(cfg).SaveMark(21))

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Sink.LastAnnouncedSequence)
	assert.Equal(t, 21, *reloaded.Sink.LastAnnouncedSequence)
	assert.Equal(t, "gh-secret", reloaded.Source.APIToken)
	assert.Equal(t, "repotweet", reloaded.Sink.ScreenName)
}

func TestSetYAMLMark(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "no sink section", input: "source:\n  repo_name: a/b\n"},
		{name: "null sink", input: "sink:\nsource:\n  repo_name: a/b\n"},
		{name: "existing quoted value", input: "sink:\n  last_announced_sequence: \"4\"\n"},
		{name: "empty document", input: ""},
		{name: "sink is a list", input: "sink:\n  - a\n", wantErr: true},
		{name: "top level list", input: "- a\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := setYAMLMark([]byte(tt.input), 15)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var parsed struct {
				Sink struct {
					Mark int `yaml:"last_announced_sequence"`
				} `yaml:"sink"`
			}
			require.NoError(t, yaml.Unmarshal(out, &parsed))
			assert.Equal(t, 15, parsed.Sink.Mark)
		})
	}
}

func TestCredentialStore_NotLoadedFromFile(t *testing.T) {
	err := NewCredentialStore(DefaultConfig()).SaveMark(1)
	assert.Error(t, err)
}

func TestCredentialStore_NoTempFilesLeft(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "creds.yaml", sampleYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, NewCredentialStore(cfg).SaveMark(2))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}
