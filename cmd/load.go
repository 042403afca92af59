/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cellar-vault/cvdata/data"
	"github.com/cellar-vault/cvdata/warehouse"
	"github.com/gocarina/gocsv"
	"github.com/hashicorp/go-multierror"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var truncateFirst bool

var errUnknownFeed = errors.New("file does not match a known feed")

// feedDatasets maps a feed file's base name to the data type it loads into.
var feedDatasets = map[string]string{
	"purchases":       data.PurchasesKey,
	"purchase_prices": data.PurchasePricesKey,
	"sales":           data.SalesKey,
	"vendor_invoice":  data.VendorInvoiceKey,
}

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <file>...",
	Short: "Load CSV feed files into the warehouse",
	Long: `The load sub-command imports CSV extracts into the warehouse feed
tables. The target table is picked from the file name: purchases.csv,
purchase_prices.csv, sales.csv and vendor_invoice.csv load into the table of
the same name. Each file loads in its own transaction; a file that fails
leaves its table untouched and the remaining files still load. Pass
--truncate to replace the table contents instead of appending.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		myWarehouse, err := warehouse.NewFromDB(ctx, viper.GetString("db.url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to warehouse")
		}
		defer myWarehouse.Close()

		var loadErr error
		for _, fn := range args {
			if err := loadFile(ctx, myWarehouse, fn, truncateFirst); err != nil {
				log.Error().Err(err).Str("FileName", fn).Msg("feed file failed to load")
				loadErr = multierror.Append(loadErr, err)
			}
		}

		if loadErr != nil {
			log.Fatal().Err(loadErr).Msg("one or more feed files failed to load")
		}
	},
}

func loadFile(ctx context.Context, myWarehouse *warehouse.Warehouse, fn string, truncate bool) error {
	base := strings.TrimSuffix(filepath.Base(fn), filepath.Ext(fn))
	key, ok := feedDatasets[base]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownFeed, fn)
	}

	dataType := data.DataTypes[key]

	fh, err := os.Open(fn)
	if err != nil {
		return err
	}
	defer fh.Close()

	tx, err := myWarehouse.Pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			if !errors.Is(err, pgx.ErrTxClosed) {
				log.Error().Err(err).Msg("error rolling back transaction")
			}
		}
	}()

	if truncate {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", dataType.TableName)); err != nil {
			return err
		}
	}

	numRows := 0

	switch key {
	case data.PurchasesKey:
		var rows []*data.Purchase
		if err := gocsv.UnmarshalFile(fh, &rows); err != nil {
			return err
		}
		for _, row := range rows {
			if err := row.SaveDB(ctx, dataType.TableName, tx); err != nil {
				return err
			}
		}
		numRows = len(rows)
	case data.PurchasePricesKey:
		var rows []*data.PurchasePrice
		if err := gocsv.UnmarshalFile(fh, &rows); err != nil {
			return err
		}
		for _, row := range rows {
			if err := row.SaveDB(ctx, dataType.TableName, tx); err != nil {
				return err
			}
		}
		numRows = len(rows)
	case data.SalesKey:
		var rows []*data.Sale
		if err := gocsv.UnmarshalFile(fh, &rows); err != nil {
			return err
		}
		for _, row := range rows {
			if err := row.SaveDB(ctx, dataType.TableName, tx); err != nil {
				return err
			}
		}
		numRows = len(rows)
	case data.VendorInvoiceKey:
		var rows []*data.VendorInvoice
		if err := gocsv.UnmarshalFile(fh, &rows); err != nil {
			return err
		}
		for _, row := range rows {
			if err := row.SaveDB(ctx, dataType.TableName, tx); err != nil {
				return err
			}
		}
		numRows = len(rows)
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Str("FileName", fn).Str("Table", dataType.TableName).Int("NumRows", numRows).Msg("loaded feed file")

	return nil
}

func init() {
	rootCmd.AddCommand(loadCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// loadCmd.PersistentFlags().String("foo", "", "A help for foo")

	loadCmd.Flags().BoolVar(&truncateFirst, "truncate", false, "replace table contents instead of appending")
}
