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
	"os"
	"path/filepath"
	"time"

	"github.com/cellar-vault/cvdata/backblaze"
	"github.com/cellar-vault/cvdata/data"
	"github.com/cellar-vault/cvdata/warehouse"
	"github.com/gocarina/gocsv"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

var (
	exportOutput string
	exportUpload bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the vendor sales summary to a file",
	Long: `The export sub-command writes the persisted vendor sales summary to
a local file. The format is chosen from the output file's extension: .csv,
.json and .parquet are supported. Rows are written in the report's order,
largest purchase total first. Pass --upload to also copy the file to the
configured backblaze bucket.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myWarehouse, err := warehouse.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to warehouse")
		}
		defer myWarehouse.Close()

		rows, err := data.LoadVendorSummary(ctx, myWarehouse.Pool, data.DataTypes[data.VendorSummaryKey].TableName)
		if err != nil {
			log.Fatal().Err(err).Msg("could not load vendor summary")
		}

		switch filepath.Ext(exportOutput) {
		case ".csv":
			err = exportCSV(exportOutput, rows)
		case ".json":
			err = exportJSON(exportOutput, rows)
		case ".parquet":
			err = exportParquet(exportOutput, rows)
		default:
			log.Fatal().Str("FileName", exportOutput).Msg("unsupported export format")
		}

		if err != nil {
			log.Fatal().Err(err).Str("FileName", exportOutput).Msg("export failed")
		}

		log.Info().Str("FileName", exportOutput).Int("NumRows", len(rows)).Msg("exported vendor summary")

		if exportUpload && viper.GetString("backblaze.application_id") != "" {
			dirname := time.Now().Format("2006-01-02")
			if err := backblaze.Upload(exportOutput, viper.GetString("backblaze.bucket"), dirname); err != nil {
				log.Fatal().Err(err).Msg("upload to backblaze failed")
			}
		}
	},
}

func exportCSV(fn string, rows []*data.VendorSummary) error {
	fh, err := os.Create(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	return gocsv.MarshalFile(&rows, fh)
}

func exportJSON(fn string, rows []*data.VendorSummary) error {
	body, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(fn, body, 0644)
}

func exportParquet(fn string, rows []*data.VendorSummary) error {
	fh, err := local.NewLocalFileWriter(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("cannot create parquet file")
		return err
	}
	defer fh.Close()

	pw, err := writer.NewParquetWriter(fh, new(data.VendorSummary), 4)
	if err != nil {
		log.Error().Err(err).Msg("cannot create parquet writer")
		return err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_ZSTD

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			log.Error().Err(err).Int64("VendorNumber", row.VendorNumber).Int64("Brand", row.Brand).Msg("parquet write failed")
		}
	}

	if err := pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("parquet write-stop failed")
		return err
	}

	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "vendor_sales_summary.parquet", "file to write the summary to")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "upload the export to backblaze")
}
