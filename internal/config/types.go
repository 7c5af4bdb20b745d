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

// Package config types define the credential file read by repo-tweet. The
// file holds two independent sections, one per external service, plus
// optional state settings. Each collaborator receives only its own section.
package config

// Format is the encoding of the credential file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Source API flavors.
const (
	APIREST    = "rest"
	APIGraphQL = "graphql"
)

// Reconciliation modes.
const (
	ModeAuto     = "auto"
	ModeSequence = "sequence"
	ModeText     = "text"
)

// Config is the parsed credential file.
type Config struct {
	Source SourceConfig `yaml:"source" toml:"source"`
	Sink   SinkConfig   `yaml:"sink" toml:"sink"`
	State  StateConfig  `yaml:"state" toml:"state"`

	path   string
	format Format
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// Format returns the encoding of the file the configuration was loaded from.
func (c *Config) Format() Format { return c.format }

// SourceConfig holds the pull request source settings. The token is used
// only by the GitHub client.
type SourceConfig struct {
	APIToken        string `yaml:"api_token" toml:"api_token"`
	RepoName        string `yaml:"repo_name" toml:"repo_name"`
	API             string `yaml:"api" toml:"api"`
	APIEndpoint     string `yaml:"api_endpoint" toml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint" toml:"graphql_endpoint"`
	PageSize        int    `yaml:"page_size" toml:"page_size"`
}

// BearerCredentials are exchanged for an app-only bearer token.
type BearerCredentials struct {
	ConsumerKey    string `yaml:"consumer_key" toml:"consumer_key"`
	ConsumerSecret string `yaml:"consumer_secret" toml:"consumer_secret"`
}

// APIKeys sign requests on behalf of the posting account.
type APIKeys struct {
	ConsumerKey       string `yaml:"consumer_key" toml:"consumer_key"`
	ConsumerSecret    string `yaml:"consumer_secret" toml:"consumer_secret"`
	AccessToken       string `yaml:"access_token" toml:"access_token"`
	AccessTokenSecret string `yaml:"access_token_secret" toml:"access_token_secret"`
}

// SinkConfig holds the timeline settings.
type SinkConfig struct {
	BearerCredentials *BearerCredentials `yaml:"bearer_credentials,omitempty" toml:"bearer_credentials,omitempty"`
	APIKeys           *APIKeys           `yaml:"api_keys,omitempty" toml:"api_keys,omitempty"`
	ScreenName        string             `yaml:"screen_name" toml:"screen_name"`
	APIEndpoint       string             `yaml:"api_endpoint" toml:"api_endpoint"`
	TokenURL          string             `yaml:"token_url" toml:"token_url"`
	TimelineLimit     int                `yaml:"timeline_limit" toml:"timeline_limit"`

	// LastAnnouncedSequence is the persisted high-water mark. Nil on a first run.
	LastAnnouncedSequence *int `yaml:"last_announced_sequence,omitempty" toml:"last_announced_sequence,omitempty"`
}

// StateConfig controls where the mark lives and how runs are recorded.
type StateConfig struct {
	// File, when set, stores the mark in a checksummed state file instead
	// of the credential file.
	File      string `yaml:"file" toml:"file"`
	ReportDir string `yaml:"report_dir" toml:"report_dir"`
	Mode      string `yaml:"mode" toml:"mode"`
}

// DefaultConfig returns a Config pointing at the public GitHub and Twitter APIs.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			API:             APIREST,
			APIEndpoint:     "https://api.github.com/",
			GraphQLEndpoint: "https://api.github.com/graphql",
			PageSize:        30,
		},
		Sink: SinkConfig{
			APIEndpoint:   "https://api.twitter.com",
			TokenURL:      "https://api.twitter.com/oauth2/token",
			TimelineLimit: 100,
		},
		State: StateConfig{
			Mode: ModeAuto,
		},
	}
}
