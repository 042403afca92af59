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
package warehouse

import (
	"context"
	"errors"
	"fmt"

	"github.com/cellar-vault/cvdata/data"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

type Warehouse struct {
	DBUrl string
	Name  string
	Owner string

	Pool *pgxpool.Pool
}

// sourceTableKeys lists the feed tables in presentation order.
var sourceTableKeys = []string{data.PurchasesKey, data.PurchasePricesKey, data.SalesKey, data.VendorInvoiceKey}

// VendorSpend is one line of the vendor leaderboard shown in the warehouse
// summary.
type VendorSpend struct {
	VendorNumber    int64   `db:"vendor_number"`
	VendorName      string  `db:"vendor_name"`
	PurchaseDollars float64 `db:"purchase_dollars"`
}

// Connect to the database configured for the warehouse
func (myWarehouse *Warehouse) Connect(ctx context.Context) error {
	if myWarehouse.Pool != nil {
		return nil
	}

	pool, err := pgxpool.New(context.Background(), myWarehouse.DBUrl)
	if err != nil {
		return err
	}
	myWarehouse.Pool = pool

	return nil
}

// Close the database pool
func (myWarehouse *Warehouse) Close() {
	myWarehouse.Pool.Close()
}

// NewFromDB creates a new warehouse object with values from the database.
// The pool is closed again when the settings row cannot be read.
func NewFromDB(ctx context.Context, dbURL string) (*Warehouse, error) {
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		return nil, err
	}

	myWarehouse := Warehouse{
		DBUrl: dbURL,
		Pool:  pool,
	}

	if err := myWarehouse.loadInfo(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return &myWarehouse, nil
}

// loadInfo reads the warehouse name and owner saved by init
func (myWarehouse *Warehouse) loadInfo(ctx context.Context, db pgxscan.Querier) error {
	info := struct {
		Name  string `db:"name"`
		Owner string `db:"owner"`
	}{}

	if err := pgxscan.Get(ctx, db, &info, "SELECT name, owner FROM warehouse"); err != nil {
		return err
	}

	myWarehouse.Name = info.Name
	myWarehouse.Owner = info.Owner

	return nil
}

// SaveDB creates a new record in the warehouse table for this warehouse
func (myWarehouse *Warehouse) SaveDB(ctx context.Context) error {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `INSERT INTO warehouse ("name", "owner") VALUES ($1, $2)`, myWarehouse.Name, myWarehouse.Owner)
	return err
}

// CreateDataTables creates the source tables that feeds are loaded into.
// Schemas use IF NOT EXISTS so running init against an existing warehouse
// leaves data alone.
func (myWarehouse *Warehouse) CreateDataTables(ctx context.Context) error {
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

	for _, key := range sourceTableKeys {
		dataType := data.DataTypes[key]
		if _, err := tx.Exec(ctx, dataType.ExpandedSchema(dataType.TableName)); err != nil {
			log.Error().Err(err).Str("DataType", dataType.Name).Msg("could not create data table")
			return err
		}
	}

	return tx.Commit(ctx)
}

// NumVendors returns the count of distinct vendors seen in the purchases table
func (myWarehouse *Warehouse) NumVendors(ctx context.Context) (int, error) {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(DISTINCT vendor_number) FROM purchases").Scan(&count)
	return count, err
}

// NumBrands returns the count of distinct brands in the price book
func (myWarehouse *Warehouse) NumBrands(ctx context.Context) (int, error) {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	count := 0
	err = conn.QueryRow(ctx, "SELECT count(DISTINCT brand) FROM purchase_prices").Scan(&count)
	return count, err
}

// RowCount returns the number of rows in the named table
func (myWarehouse *Warehouse) RowCount(ctx context.Context, tbl string) (int64, error) {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var count int64
	err = conn.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", tbl)).Scan(&count)
	return count, err
}

// TableExists reports whether the named table is present in the database.
// The summary table only exists after the first refresh.
func (myWarehouse *Warehouse) TableExists(ctx context.Context, tbl string) (bool, error) {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	exists := false
	err = conn.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", tbl).Scan(&exists)
	return exists, err
}

// TopVendors returns the vendors with the largest purchase totals in the
// summary table
func (myWarehouse *Warehouse) TopVendors(ctx context.Context, tbl string, limit int) ([]*VendorSpend, error) {
	var vendors []*VendorSpend
	err := pgxscan.Select(ctx, myWarehouse.Pool, &vendors, fmt.Sprintf(
		`SELECT vendor_number, vendor_name, sum(total_purchase_dollars) AS purchase_dollars
FROM %s GROUP BY vendor_number, vendor_name ORDER BY purchase_dollars DESC LIMIT $1`, tbl), limit)
	return vendors, err
}
