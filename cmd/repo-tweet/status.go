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
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sirseerhq/repo-tweet/internal/config"
	"github.com/sirseerhq/repo-tweet/internal/metadata"
	"github.com/sirseerhq/repo-tweet/internal/state"
)

func newStatusCommand(root *rootFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the stored high-water mark and the last run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.OutOrStdout(), root.configPath, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the last run report as JSON")

	return cmd
}

func runStatus(w io.Writer, configPath string, asJSON bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store := newStore(cfg)
	mark, err := store.LoadMark()
	if err != nil {
		return fmt.Errorf("failed to load announcement state: %w", err)
	}

	var report *metadata.RunReport
	if cfg.State.ReportDir != "" {
		report, err = metadata.LoadLatestReport(cfg.State.ReportDir, cfg.Source.RepoName)
		if err != nil {
			return err
		}
	}

	if asJSON {
		if report == nil {
			return fmt.Errorf("no run report recorded for %s (set state.report_dir)", cfg.Source.RepoName)
		}
		return metadata.WriteReport(report, w)
	}

	_, err = fmt.Fprintln(w, statusTable(cfg, store, mark, report))
	return err
}

func statusTable(cfg *config.Config, store state.Store, mark state.Mark, report *metadata.RunReport) *table.Table {
	purple := lipgloss.Color("99")
	keyStyle := lipgloss.NewStyle().Foreground(purple).Bold(true).Padding(0, 1)
	valueStyle := lipgloss.NewStyle().Padding(0, 1)

	markValue := "none (first run reads the timeline)"
	if mark.Known {
		markValue = "#" + strconv.Itoa(mark.Sequence)
	}

	location := cfg.Path()
	if fs, ok := store.(*state.FileStore); ok {
		location = fs.Path()
	}

	rows := [][]string{
		{"Repository", cfg.Source.RepoName},
		{"Account", "@" + cfg.Sink.ScreenName},
		{"Mode", cfg.State.Mode},
		{"High-water mark", markValue},
		{"Stored in", location},
	}

	if report != nil {
		r := report.Results
		rows = append(rows,
			[]string{"Last run", humanize.Time(r.CompletedAt)},
			[]string{"Last result", fmt.Sprintf("%d posted, %d skipped, %d failed, %d pending of %d fetched",
				r.Posted, r.Skipped, r.Failed, r.Pending, r.Fetched)},
		)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(purple)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle
			}
			return valueStyle
		}).
		Rows(rows...)
}
