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

// Package config loads the credential file with a well-defined precedence
// order:
//  1. Command-line flags (applied by the caller)
//  2. Environment variables
//  3. The credential file
//  4. Built-in defaults
//
// The file is YAML unless its extension is .toml. When no path is given the
// standard locations are searched; finding none is ErrConfigMissing.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	clog "github.com/charmbracelet/log"
	"github.com/cli/go-gh/v2/pkg/auth"
	"gopkg.in/yaml.v3"

	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
)

// tokenForHost looks up a token stored by the gh CLI. Replaced in tests.
var tokenForHost = auth.TokenForHost

// SearchPaths returns the standard credential file locations in lookup order.
func SearchPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return []string{
		".repo-tweet.yaml",
		".repo-tweet.yml",
		".repo-tweet.toml",
		filepath.Join(home, ".repo-tweet", "credentials.yaml"),
		filepath.Join(home, ".repo-tweet", "credentials.yml"),
		filepath.Join(home, ".repo-tweet", "credentials.toml"),
	}
}

// Load reads the credential file at configPath, or the first existing file
// from SearchPaths when configPath is empty, then applies environment
// overrides and validates the result.
//
// A missing or unreadable file returns an error wrapping ErrConfigMissing.
func Load(configPath string) (*Config, error) {
	path := configPath
	if path == "" {
		for _, candidate := range SearchPaths() {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				path = candidate
				break
			}
		}
		if path == "" {
			return nil, fmt.Errorf("no credential file in %s: %w",
				strings.Join(SearchPaths(), ", "), rterrors.ErrConfigMissing)
		}
	}

	cfg := DefaultConfig()
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if cfg.Source.APIToken == "" {
		if token, source := tokenForHost(hostForEndpoint(cfg.Source.APIEndpoint)); token != "" {
			clog.Default().WithPrefix("config").Debug("using gh CLI token", "source", source)
			cfg.Source.APIToken = token
		}
	}

	cfg.State.File = expandPath(cfg.State.File)
	cfg.State.ReportDir = expandPath(cfg.State.ReportDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credential file %s: %w", path, err)
	}

	return cfg, nil
}

// loadFile parses path into cfg according to its extension.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("credential file %s does not exist: %w", path, rterrors.ErrConfigMissing)
		}
		return fmt.Errorf("failed to read credential file %s: %v: %w", path, err, rterrors.ErrConfigMissing)
	}

	cfg.path = path
	cfg.format = formatForPath(path)

	switch cfg.format {
	case FormatTOML:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("failed to parse credential file %s: %v: %w", path, err, rterrors.ErrConfigMissing)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			clog.Default().WithPrefix("config").Warn("unknown config keys", "path", path, "keys", undecoded)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse credential file %s: %v: %w", path, err, rterrors.ErrConfigMissing)
		}
	}

	return nil
}

func formatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Source.APIToken = token
	}
	if repo := os.Getenv("REPO_TWEET_REPO"); repo != "" {
		cfg.Source.RepoName = repo
	}
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.Source.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.Source.GraphQLEndpoint = endpoint
	}
	if name := os.Getenv("REPO_TWEET_SCREEN_NAME"); name != "" {
		cfg.Sink.ScreenName = name
	}
	if stateFile := os.Getenv("REPO_TWEET_STATE_FILE"); stateFile != "" {
		cfg.State.File = stateFile
	}
	if mode := os.Getenv("REPO_TWEET_MODE"); mode != "" {
		cfg.State.Mode = strings.ToLower(strings.TrimSpace(mode))
	}
}

// hostForEndpoint maps an API endpoint to the host gh stores tokens under.
func hostForEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "github.com"
	}
	host := u.Hostname()
	if host == "api.github.com" {
		return "github.com"
	}
	return host
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// ParseRepository parses an org/repo string into owner and repo components
func ParseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <org>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <org>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}

// ValidMode reports whether mode names a reconciliation mode.
func ValidMode(mode string) bool {
	switch mode {
	case ModeAuto, ModeSequence, ModeText:
		return true
	}
	return false
}

// Validate checks if the configuration contains valid values. Missing sink
// credentials are not an error here: the run still fetches pull requests and
// reports what would have been posted.
func (c *Config) Validate() error {
	if _, _, err := ParseRepository(c.Source.RepoName); err != nil {
		return fmt.Errorf("source.repo_name: %w", err)
	}
	if c.Source.API != APIREST && c.Source.API != APIGraphQL {
		return fmt.Errorf("source.api must be %q or %q, got: %q", APIREST, APIGraphQL, c.Source.API)
	}
	if c.Source.PageSize <= 0 || c.Source.PageSize > 100 {
		return fmt.Errorf("source.page_size must be between 1 and 100, got: %d", c.Source.PageSize)
	}
	if c.Source.API == APIREST && c.Source.APIEndpoint == "" {
		return fmt.Errorf("source.api_endpoint cannot be empty")
	}
	if c.Source.API == APIGraphQL && c.Source.GraphQLEndpoint == "" {
		return fmt.Errorf("source.graphql_endpoint cannot be empty")
	}
	if c.Sink.ScreenName == "" {
		return fmt.Errorf("sink.screen_name cannot be empty")
	}
	if c.Sink.APIEndpoint == "" {
		return fmt.Errorf("sink.api_endpoint cannot be empty")
	}
	if c.Sink.TimelineLimit < 5 || c.Sink.TimelineLimit > 100 {
		return fmt.Errorf("sink.timeline_limit must be between 5 and 100, got: %d", c.Sink.TimelineLimit)
	}
	if c.Sink.LastAnnouncedSequence != nil && *c.Sink.LastAnnouncedSequence < 0 {
		return fmt.Errorf("sink.last_announced_sequence cannot be negative, got: %d", *c.Sink.LastAnnouncedSequence)
	}
	if !ValidMode(c.State.Mode) {
		return fmt.Errorf("state.mode must be one of auto, sequence, text, got: %q", c.State.Mode)
	}
	return nil
}
