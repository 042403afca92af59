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
package report

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

var (
	ErrDataAccess = errors.New("could not query source tables")
	ErrSchema     = errors.New("source tables do not match the expected schema")
)

// SummaryRow is a raw row of the vendor summary aggregation, straight from
// the database. Columns that can legally be NULL are pointers: the text
// columns are nullable in the warehouse, sales columns are NULL for brands
// that were purchased but never sold, and freight_cost is NULL for vendors
// with no invoices.
type SummaryRow struct {
	VendorNumber          int64    `db:"vendor_number"`
	VendorName            *string  `db:"vendor_name"`
	Brand                 int64    `db:"brand"`
	Description           *string  `db:"description"`
	PurchasePrice         float64  `db:"purchase_price"`
	ActualPrice           float64  `db:"actual_price"`
	Volume                *string  `db:"volume"`
	TotalPurchaseQuantity int64    `db:"total_purchase_quantity"`
	TotalPurchaseDollars  float64  `db:"total_purchase_dollars"`
	TotalSalesQuantity    *int64   `db:"total_sales_quantity"`
	TotalSalesDollars     *float64 `db:"total_sales_dollars"`
	TotalSalesPrice       *float64 `db:"total_sales_price"`
	TotalExciseTax        *float64 `db:"total_excise_tax"`
	FreightCost           *float64 `db:"freight_cost"`
}

func (row *SummaryRow) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("VendorNumber", row.VendorNumber).
		Int64("Brand", row.Brand).
		Float64("PurchasePrice", row.PurchasePrice).
		Int64("TotalPurchaseQuantity", row.TotalPurchaseQuantity).
		Float64("TotalPurchaseDollars", row.TotalPurchaseDollars)
	if row.VendorName != nil {
		e.Str("VendorName", *row.VendorName)
	}
	if row.TotalSalesDollars != nil {
		e.Float64("TotalSalesDollars", *row.TotalSalesDollars)
	}
	if row.FreightCost != nil {
		e.Float64("FreightCost", *row.FreightCost)
	}
}

// VendorSummary aggregates purchases, sales and freight into one row per
// vendor and brand. Purchases and the price book join on brand; sales joins
// on vendor and brand; freight rolls up per vendor. Brands with purchases
// but no sales keep their row with NULL sales columns. Note that
// total_sales_price sums the per-line unit price, matching the report this
// replaces.
func VendorSummary(ctx context.Context, db pgxscan.Querier) ([]*SummaryRow, error) {
	subLog := zerolog.Ctx(ctx)

	rows := make([]*SummaryRow, 0, 100)
	sql := `WITH freight_summary AS (
	SELECT
		vendor_number,
		SUM(freight) AS freight_cost
	FROM vendor_invoice
	GROUP BY vendor_number
),
purchase_summary AS (
	SELECT
		p.vendor_number,
		p.vendor_name,
		p.brand,
		p.description,
		p.purchase_price,
		pp.price AS actual_price,
		pp.volume,
		SUM(p.quantity)::BIGINT AS total_purchase_quantity,
		SUM(p.dollars)::DOUBLE PRECISION AS total_purchase_dollars
	FROM purchases p
	INNER JOIN purchase_prices pp ON p.brand = pp.brand
	WHERE p.purchase_price > 0
	GROUP BY p.vendor_number, p.vendor_name, p.brand, p.description,
		p.purchase_price, pp.price, pp.volume
),
sales_summary AS (
	SELECT
		vendor_no,
		brand,
		SUM(sales_quantity)::BIGINT AS total_sales_quantity,
		SUM(sales_dollars)::DOUBLE PRECISION AS total_sales_dollars,
		SUM(sales_price)::DOUBLE PRECISION AS total_sales_price,
		SUM(excise_tax)::DOUBLE PRECISION AS total_excise_tax
	FROM sales
	GROUP BY vendor_no, brand
)
SELECT
	ps.vendor_number,
	ps.vendor_name,
	ps.brand,
	ps.description,
	ps.purchase_price::DOUBLE PRECISION AS purchase_price,
	ps.actual_price::DOUBLE PRECISION AS actual_price,
	ps.volume,
	ps.total_purchase_quantity,
	ps.total_purchase_dollars,
	ss.total_sales_quantity,
	ss.total_sales_dollars,
	ss.total_sales_price,
	ss.total_excise_tax,
	fs.freight_cost::DOUBLE PRECISION AS freight_cost
FROM purchase_summary ps
LEFT JOIN sales_summary ss ON ps.vendor_number = ss.vendor_no AND ps.brand = ss.brand
LEFT JOIN freight_summary fs ON ps.vendor_number = fs.vendor_number
ORDER BY ps.total_purchase_dollars DESC;`

	if err := pgxscan.Select(ctx, db, &rows, sql); err != nil {
		err = classifyQueryErr(err)
		subLog.Error().Err(err).Msg("vendor summary query failed")
		return nil, err
	}

	return rows, nil
}

// classifyQueryErr sorts database failures into the report error taxonomy.
// A missing source table is a data access problem; a missing column means
// the warehouse schema drifted from what the report expects.
func classifyQueryErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UndefinedTable:
			return fmt.Errorf("%w: %s", ErrDataAccess, pgErr.Message)
		case pgerrcode.UndefinedColumn:
			return fmt.Errorf("%w: %s", ErrSchema, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: %s", ErrDataAccess, err.Error())
}
