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

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/repo-tweet/internal/announce"
	"github.com/sirseerhq/repo-tweet/internal/config"
	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
	"github.com/sirseerhq/repo-tweet/internal/github"
	"github.com/sirseerhq/repo-tweet/internal/metadata"
	"github.com/sirseerhq/repo-tweet/internal/output"
	"github.com/sirseerhq/repo-tweet/internal/state"
	"github.com/sirseerhq/repo-tweet/internal/timeline"
	"github.com/sirseerhq/repo-tweet/pkg/version"
)

// Collaborator constructors. Replaced in tests.
var (
	newSource = defaultSource
	newSink   = func(cfg config.SinkConfig) timeline.Sink {
		return timeline.NewTwitterSink(cfg, nil)
	}
)

type rootFlags struct {
	configPath string
	debug      bool

	dryRun     bool
	mode       string
	outputFile string
	timeout    time.Duration
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "repo-tweet",
		Short: "Announce new GitHub pull requests on Twitter",
		Long: `repo-tweet fetches the newest pull requests of one GitHub repository and
posts a message for each one that has not been announced yet.

Credentials and the repository are read from a credential file:
  .repo-tweet.yaml, .repo-tweet.yml, .repo-tweet.toml in the current directory,
  then ~/.repo-tweet/credentials.{yaml,yml,toml}

The highest announced pull request number is written back to that file
(sink.last_announced_sequence) unless state.file names a separate state file.`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.debug {
				clog.SetLevel(clog.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if flags.timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, flags.timeout)
				defer cancel()
			}
			return runAnnounce(ctx, flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Credential file (default: search standard locations)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the postings that would be made without posting or saving state")
	cmd.Flags().StringVar(&flags.mode, "mode", "", "Eligibility mode: auto, sequence or text (overrides state.mode)")
	cmd.Flags().StringVar(&flags.outputFile, "output", "", "Preview output file (default: stdout)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Abort the run after this long (default: no limit)")

	cmd.AddCommand(newStatusCommand(&flags))

	return cmd
}

// runAnnounce executes one batch.
func runAnnounce(ctx context.Context, flags rootFlags) error {
	log := clog.Default().WithPrefix("repo-tweet")

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	mode := cfg.State.Mode
	if flags.mode != "" {
		if !config.ValidMode(flags.mode) {
			return fmt.Errorf("invalid --mode %q: must be auto, sequence or text", flags.mode)
		}
		mode = flags.mode
	}

	owner, repo, err := config.ParseRepository(cfg.Source.RepoName)
	if err != nil {
		return err
	}

	source, err := newSource(ctx, cfg.Source)
	if err != nil {
		return err
	}

	tl, authErr := newSink(cfg.Sink).Authenticate(ctx)
	if authErr != nil {
		if !errors.Is(authErr, rterrors.ErrSinkAuth) {
			return authErr
		}
		log.Warn("Timeline authentication failed, previewing postings instead", "err", authErr)
		tl = nil
	}

	tracker := metadata.New()
	opts := []announce.Option{announce.WithTracker(tracker)}
	if flags.dryRun || tl == nil {
		w, err := output.Open(flags.outputFile)
		if err != nil {
			return err
		}
		defer w.Close()
		opts = append(opts, announce.WithPreview(w))
	}

	reconciler := announce.NewReconciler(source, tl, newStore(cfg), opts...)
	result, runErr := reconciler.Run(ctx, announce.Options{
		Owner:    owner,
		Repo:     repo,
		Account:  cfg.Sink.ScreenName,
		PageSize: cfg.Source.PageSize,
		Mode:     announce.Mode(mode),
		DryRun:   flags.dryRun,
	})

	if result != nil {
		log.Info("Run complete",
			"mode", result.Mode,
			"fetched", result.Fetched,
			"posted", result.Count(announce.StatusPosted),
			"skipped", result.Count(announce.StatusSkipped),
			"failed", result.Count(announce.StatusFailed),
			"pending", result.Count(announce.StatusPending),
			"mark", result.NewMark,
			"recovered", result.MarkRecovered,
			"saved", result.Persisted)

		if cfg.State.ReportDir != "" {
			saveReport(log, tracker, cfg, result, flags.dryRun)
		}
	}

	switch {
	case runErr != nil:
		return runErr
	case authErr != nil:
		return authErr
	}

	if failed := result.Count(announce.StatusFailed); failed > 0 {
		return fmt.Errorf("%d of %d postings failed (%v): %w", failed, result.Eligible(), result.Err(), errPartialPosting)
	}
	return nil
}

// defaultSource builds the pull request client selected by source.api.
func defaultSource(ctx context.Context, cfg config.SourceConfig) (github.Client, error) {
	if cfg.API == config.APIGraphQL {
		return github.NewGraphQLClient(cfg.APIToken, cfg.GraphQLEndpoint), nil
	}
	return github.NewRESTClient(ctx, cfg.APIToken, cfg.APIEndpoint)
}

// newStore picks where the mark lives.
func newStore(cfg *config.Config) state.Store {
	if cfg.State.File != "" {
		return state.NewFileStore(cfg.State.File, cfg.Source.RepoName)
	}
	return config.NewCredentialStore(cfg)
}

func saveReport(log *clog.Logger, tracker *metadata.Tracker, cfg *config.Config, result *announce.Result, dryRun bool) {
	var previous *int
	if result.PreviousMark.Known {
		seq := result.PreviousMark.Sequence
		previous = &seq
	}

	report := tracker.GenerateReport(version.Version, metadata.RunParams{
		Repository: cfg.Source.RepoName,
		Account:    cfg.Sink.ScreenName,
		API:        cfg.Source.API,
		Mode:       string(result.Mode),
		DryRun:     dryRun,
	}, metadata.MarkChange{
		Previous:  previous,
		New:       result.NewMark,
		Persisted: result.Persisted,
	})

	path, err := metadata.SaveReport(report, cfg.State.ReportDir)
	if err != nil {
		log.Warn("Could not save run report", "err", err)
		return
	}
	log.Debug("Saved run report", "path", path, "run", report.RunID)
}
