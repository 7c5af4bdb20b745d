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

	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
)

const sampleYAML = `# repo-tweet credentials
source:
  api_token: gh-secret
  repo_name: jfieger/repo-tweet
sink:
  bearer_credentials:
    consumer_key: ck
    consumer_secret: cs
  screen_name: repotweet
`

// isolate clears environment overrides and the gh CLI token lookup so the
// host machine cannot leak into a test.
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "REPO_TWEET_REPO", "GITHUB_API_ENDPOINT", "GITHUB_GRAPHQL_ENDPOINT",
		"REPO_TWEET_SCREEN_NAME", "REPO_TWEET_STATE_FILE", "REPO_TWEET_MODE",
	} {
		t.Setenv(key, "")
	}
	orig := tokenForHost
	tokenForHost = func(string) (string, string) { return "", "" }
	t.Cleanup(func() { tokenForHost = orig })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, APIREST, cfg.Source.API)
	assert.Equal(t, "https://api.github.com/", cfg.Source.APIEndpoint)
	assert.Equal(t, "https://api.github.com/graphql", cfg.Source.GraphQLEndpoint)
	assert.Equal(t, 30, cfg.Source.PageSize)
	assert.Equal(t, "https://api.twitter.com", cfg.Sink.APIEndpoint)
	assert.Equal(t, "https://api.twitter.com/oauth2/token", cfg.Sink.TokenURL)
	assert.Equal(t, 100, cfg.Sink.TimelineLimit)
	assert.Equal(t, ModeAuto, cfg.State.Mode)
	assert.Nil(t, cfg.Sink.LastAnnouncedSequence)
}

func TestLoad_YAML(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "creds.yaml", sampleYAML+"  last_announced_sequence: 7\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, FormatYAML, cfg.Format())
	assert.Equal(t, "gh-secret", cfg.Source.APIToken)
	assert.Equal(t, "jfieger/repo-tweet", cfg.Source.RepoName)
	require.NotNil(t, cfg.Sink.BearerCredentials)
	assert.Equal(t, "ck", cfg.Sink.BearerCredentials.ConsumerKey)
	assert.Nil(t, cfg.Sink.APIKeys)
	assert.Equal(t, "repotweet", cfg.Sink.ScreenName)
	require.NotNil(t, cfg.Sink.LastAnnouncedSequence)
	assert.Equal(t, 7, *cfg.Sink.LastAnnouncedSequence)

	// defaults survive for unset keys
	assert.Equal(t, APIREST, cfg.Source.API)
	assert.Equal(t, 100, cfg.Sink.TimelineLimit)
}

func TestLoad_TOML(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "creds.toml", `
[source]
api_token = "gh-secret"
repo_name = "jfieger/repo-tweet"
api = "graphql"

[sink]
screen_name = "repotweet"
last_announced_sequence = 12

[sink.api_keys]
consumer_key = "ck"
consumer_secret = "cs"
access_token = "at"
access_token_secret = "ats"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, FormatTOML, cfg.Format())
	assert.Equal(t, APIGraphQL, cfg.Source.API)
	require.NotNil(t, cfg.Sink.APIKeys)
	assert.Equal(t, "ats", cfg.Sink.APIKeys.AccessTokenSecret)
	require.NotNil(t, cfg.Sink.LastAnnouncedSequence)
	assert.Equal(t, 12, *cfg.Sink.LastAnnouncedSequence)
}

func TestLoad_Missing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, rterrors.ErrConfigMissing)
}

func TestLoad_Unparseable(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "creds.yaml", "source: [unclosed\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, rterrors.ErrConfigMissing)
}

func TestLoad_Discovery(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = Load("")
	require.ErrorIs(t, err, rterrors.ErrConfigMissing)

	require.NoError(t, os.MkdirAll(filepath.Join(home, ".repo-tweet"), 0o755))
	homePath := writeFile(t, filepath.Join(home, ".repo-tweet"), "credentials.yaml", sampleYAML)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, homePath, cfg.Path())

	// the working directory wins over the home directory
	writeFile(t, ".", ".repo-tweet.yaml", sampleYAML)
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, ".repo-tweet.yaml", cfg.Path())
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "creds.yaml", sampleYAML)

	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("REPO_TWEET_REPO", "other/repo")
	t.Setenv("REPO_TWEET_SCREEN_NAME", "envname")
	t.Setenv("REPO_TWEET_MODE", " TEXT ")
	t.Setenv("REPO_TWEET_STATE_FILE", "$HOME/state.json")
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Source.APIToken)
	assert.Equal(t, "other/repo", cfg.Source.RepoName)
	assert.Equal(t, "envname", cfg.Sink.ScreenName)
	assert.Equal(t, ModeText, cfg.State.Mode)
	assert.Equal(t, "/home/tester/state.json", cfg.State.File)
}

func TestLoad_GhTokenFallback(t *testing.T) {
	isolate(t)
	var askedHost string
	tokenForHost = func(host string) (string, string) {
		askedHost = host
		return "gh-cli-token", "oauth_token"
	}

	path := writeFile(t, t.TempDir(), "creds.yaml", `
source:
  repo_name: jfieger/repo-tweet
sink:
  screen_name: repotweet
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gh-cli-token", cfg.Source.APIToken)
	assert.Equal(t, "github.com", askedHost)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Source.RepoName = "jfieger/repo-tweet"
		cfg.Sink.ScreenName = "repotweet"
		return cfg
	}
	negative := -1

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid", modify: func(c *Config) {}},
		{name: "missing repo", modify: func(c *Config) { c.Source.RepoName = "" }, wantErr: "source.repo_name"},
		{name: "malformed repo", modify: func(c *Config) { c.Source.RepoName = "too/many/parts" }, wantErr: "source.repo_name"},
		{name: "unknown api", modify: func(c *Config) { c.Source.API = "soap" }, wantErr: "source.api"},
		{name: "page size too large", modify: func(c *Config) { c.Source.PageSize = 101 }, wantErr: "source.page_size"},
		{name: "page size zero", modify: func(c *Config) { c.Source.PageSize = 0 }, wantErr: "source.page_size"},
		{name: "graphql without endpoint", modify: func(c *Config) {
			c.Source.API = APIGraphQL
			c.Source.GraphQLEndpoint = ""
		}, wantErr: "source.graphql_endpoint"},
		{name: "missing screen name", modify: func(c *Config) { c.Sink.ScreenName = "" }, wantErr: "sink.screen_name"},
		{name: "timeline limit too small", modify: func(c *Config) { c.Sink.TimelineLimit = 1 }, wantErr: "sink.timeline_limit"},
		{name: "negative mark", modify: func(c *Config) { c.Sink.LastAnnouncedSequence = &negative }, wantErr: "cannot be negative"},
		{name: "unknown mode", modify: func(c *Config) { c.State.Mode = "fuzzy" }, wantErr: "state.mode"},
		{name: "no sink credentials is allowed", modify: func(c *Config) {
			c.Sink.BearerCredentials = nil
			c.Sink.APIKeys = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseRepository(t *testing.T) {
	tests := []struct {
		input     string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{input: "golang/go", wantOwner: "golang", wantRepo: "go"},
		{input: " jfieger / repo-tweet ", wantOwner: "jfieger", wantRepo: "repo-tweet"},
		{input: "invalid", wantErr: true},
		{input: "too/many/slashes", wantErr: true},
		{input: "/repo", wantErr: true},
		{input: "owner/", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			owner, repo, err := ParseRepository(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func TestHostForEndpoint(t *testing.T) {
	assert.Equal(t, "github.com", hostForEndpoint("https://api.github.com/"))
	assert.Equal(t, "ghe.example.com", hostForEndpoint("https://ghe.example.com/api/v3/"))
	assert.Equal(t, "github.com", hostForEndpoint("::not a url"))
}
