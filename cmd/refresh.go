// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cellar-vault/cvdata/data"
	"github.com/cellar-vault/cvdata/healthcheck"
	"github.com/cellar-vault/cvdata/ingest"
	"github.com/cellar-vault/cvdata/report"
	"github.com/cellar-vault/cvdata/warehouse"
	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the vendor sales summary table",
	Long: `The refresh sub-command rebuilds the vendor sales summary from the
purchases, purchase_prices, sales and vendor_invoice tables. The summary is
aggregated in the database, cleaned, and written back in a single
transaction that replaces the previous table contents. Each run is recorded
in the refresh log, and when a healthchecks.io monitor is configured the run
reports its start and outcome to the monitor.`,
	Run: func(cmd *cobra.Command, args []string) {
		startTime := time.Now()

		checkID := viper.GetString("healthchecks.checkid")
		if checkID != "" {
			if err := healthcheck.Start(checkID); err != nil {
				log.Error().Err(err).Msg("could not signal healthcheck start")
			}
		}

		numRows, err := refreshSummary(context.Background())

		runTime := time.Since(startTime)

		if err != nil {
			if checkID != "" {
				if pingErr := healthcheck.Fail(checkID); pingErr != nil {
					log.Error().Err(pingErr).Msg("could not signal healthcheck failure")
				}
			}

			log.Fatal().Err(err).Msg("vendor summary refresh failed")
		}

		if checkID != "" {
			if err := healthcheck.Success(checkID); err != nil {
				log.Error().Err(err).Msg("could not signal healthcheck success")
			}
		}

		log.Info().Str("RunTime", durafmt.Parse(runTime).String()).Msg("refresh complete")

		// Print refresh summary
		{
			var sb strings.Builder
			keyword := func(s string) string {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s)
			}

			fmt.Fprintf(&sb,
				"%s\n\nTable: %s\nRows: %s\nElapsed: %s\n",
				lipgloss.NewStyle().Bold(true).Render("VENDOR SALES SUMMARY"),
				keyword(data.DataTypes[data.VendorSummaryKey].TableName),
				keyword(fmt.Sprintf("%d", numRows)),
				keyword(durafmt.Parse(runTime).String()),
			)

			fmt.Println(
				lipgloss.NewStyle().
					Width(60).
					BorderStyle(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color("63")).
					Padding(1, 2).
					Render(sb.String()),
			)
		}
	},
}

// refreshSummary builds, cleans and persists the vendor sales summary. It
// runs inside a helper so the database pool is released on every exit path
// before the command decides whether to exit.
func refreshSummary(ctx context.Context) (int64, error) {
	myWarehouse, err := warehouse.NewFromDB(ctx, viper.GetString("db.url"))
	if err != nil {
		return 0, err
	}
	defer myWarehouse.Close()

	summaryTable := data.DataTypes[data.VendorSummaryKey].TableName

	subLog := log.With().Str("Table", summaryTable).Logger()
	ctx = subLog.WithContext(ctx)

	refresh := &warehouse.Refresh{
		TableName: summaryTable,
		StartedAt: time.Now(),
		Status:    warehouse.RefreshFailed,
	}

	defer func() {
		refresh.FinishedAt = time.Now()
		if err := myWarehouse.RecordRefresh(ctx, refresh); err != nil {
			subLog.Error().Err(err).Msg("could not record refresh in log")
		}
	}()

	subLog.Info().Msg("building vendor summary")

	rows, err := report.VendorSummary(ctx, myWarehouse.Pool)
	if err != nil {
		return 0, err
	}

	subLog.Info().Int("NumRows", len(rows)).Msg("vendor summary query complete")

	for _, row := range rows[:min(5, len(rows))] {
		subLog.Debug().Object("Row", row).Msg("raw summary row")
	}

	subLog.Info().Msg("cleaning vendor summary")

	cleaned, err := report.Clean(rows)
	if err != nil {
		return 0, err
	}

	for _, row := range cleaned[:min(5, len(cleaned))] {
		subLog.Debug().Object("Row", row).Msg("cleaned summary row")
	}

	subLog.Info().Msg("saving vendor summary")

	if err := ingest.Replace(ctx, myWarehouse.Pool, summaryTable, cleaned); err != nil {
		return 0, err
	}

	refresh.NumRows = int64(len(cleaned))
	refresh.Status = warehouse.RefreshSucceeded

	subLog.Info().Int("NumRows", len(cleaned)).Msg("vendor summary saved")

	return int64(len(cleaned)), nil
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
