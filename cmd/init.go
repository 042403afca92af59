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
	"os"
	"path/filepath"
	"strings"

	"github.com/cellar-vault/cvdata/db"
	"github.com/cellar-vault/cvdata/healthcheck"
	"github.com/cellar-vault/cvdata/warehouse"
	"github.com/charmbracelet/huh"
	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cliConfig is the layout of the .cvdata.toml config file. Keys line up with
// the viper paths the commands read: db.url, healthchecks.apikey and so on.
type cliConfig struct {
	DB           dbConfig `toml:"db"`
	Healthchecks hcConfig `toml:"healthchecks,omitempty"`
}

type dbConfig struct {
	URL string `toml:"url"`
}

type hcConfig struct {
	APIKey  string `toml:"apikey,omitempty"`
	CheckID string `toml:"checkid,omitempty"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather database configuration and setup schema",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			hcAPIKey  string
			monitored bool
		)

		ctx := context.Background()

		myWarehouse := &warehouse.Warehouse{}

		form := huh.NewForm(
			// Gather details about the warehouse and who owns it
			huh.NewGroup(
				huh.NewInput().
					Title("Give the warehouse a name:").
					Value(&myWarehouse.Name),

				huh.NewInput().
					Title("Who owns the warehouse?").
					Value(&myWarehouse.Owner),
			),

			// Get details about the database
			huh.NewGroup(
				huh.NewInput().
					Title("Provide the DSN for connecting to your PostgreSQL database (postgres://[user[:password]@][netloc][:port][/dbname][?param1=value1&...])").
					Value(&myWarehouse.DBUrl).
					Validate(func(dsn string) error {
						_, err := pgx.ParseConfig(dsn)
						return err
					}),
			),

			// Optionally monitor the refresh with healthchecks.io
			huh.NewGroup(
				huh.NewConfirm().
					Title("Should a healthchecks.io monitor be created for the summary refresh?").
					Value(&monitored),

				huh.NewInput().
					Title("healthchecks.io API key (leave blank to skip monitoring):").
					Value(&hcAPIKey),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering database settings")
		}

		log.Info().Msg("creating database tables")

		// run migration
		dbURL := strings.Replace(myWarehouse.DBUrl, "postgres://", "pgx5://", -1)
		err = db.Migrate(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		log.Info().Msg("database tables created")

		// create the feed tables and save warehouse name and owner
		if err := myWarehouse.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}
		defer myWarehouse.Close()

		if err := myWarehouse.CreateDataTables(ctx); err != nil {
			log.Fatal().Err(err).Msg("error creating feed tables")
		}

		log.Info().Msg("Saving warehouse name and owner to database")

		err = myWarehouse.SaveDB(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("error saving warehouse settings to database")
		}

		config := cliConfig{
			DB: dbConfig{URL: myWarehouse.DBUrl},
		}

		// register the refresh monitor
		if monitored && hcAPIKey != "" {
			viper.Set("healthchecks.apikey", hcAPIKey)

			checkSlug := slug.Make(fmt.Sprintf("%s vendor summary", myWarehouse.Name))
			checkID, err := healthcheck.Create(
				fmt.Sprintf("%s vendor summary refresh", myWarehouse.Name),
				checkSlug,
				[]string{"cvdata", "vendor-summary"},
				"0 6 * * *",
			)
			if err != nil {
				log.Fatal().Err(err).Msg("creating healthcheck failed")
			}

			config.Healthchecks = hcConfig{APIKey: hcAPIKey, CheckID: checkID}
			log.Info().Str("CheckID", checkID).Msg("created healthchecks.io monitor")
		}

		// save database settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".cvdata.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving database connection info to config file")
		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("Your warehouse has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// initCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// initCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
