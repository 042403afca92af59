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
package data

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// VendorSummary is one fully-cleaned row of the vendor sales summary report.
// Every field is concrete; the cleaner guarantees no NULLs survive into this
// type. CSV headers match the legacy report so downstream spreadsheets keep
// working, including the historical SalestoPurchaseRatio capitalization.
type VendorSummary struct {
	VendorNumber          int64   `db:"vendor_number" csv:"VendorNumber" json:"vendor_number" parquet:"name=vendor_number, type=INT64"`
	VendorName            string  `db:"vendor_name" csv:"VendorName" json:"vendor_name" parquet:"name=vendor_name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Brand                 int64   `db:"brand" csv:"Brand" json:"brand" parquet:"name=brand, type=INT64"`
	Description           string  `db:"description" csv:"Description" json:"description" parquet:"name=description, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	PurchasePrice         float64 `db:"purchase_price" csv:"PurchasePrice" json:"purchase_price" parquet:"name=purchase_price, type=DOUBLE"`
	ActualPrice           float64 `db:"actual_price" csv:"ActualPrice" json:"actual_price" parquet:"name=actual_price, type=DOUBLE"`
	Volume                float64 `db:"volume" csv:"Volume" json:"volume" parquet:"name=volume, type=DOUBLE"`
	TotalPurchaseQuantity int64   `db:"total_purchase_quantity" csv:"TotalPurchaseQuantity" json:"total_purchase_quantity" parquet:"name=total_purchase_quantity, type=INT64"`
	TotalPurchaseDollars  float64 `db:"total_purchase_dollars" csv:"TotalPurchaseDollars" json:"total_purchase_dollars" parquet:"name=total_purchase_dollars, type=DOUBLE"`
	TotalSalesQuantity    int64   `db:"total_sales_quantity" csv:"TotalSalesQuantity" json:"total_sales_quantity" parquet:"name=total_sales_quantity, type=INT64"`
	TotalSalesDollars     float64 `db:"total_sales_dollars" csv:"TotalSalesDollars" json:"total_sales_dollars" parquet:"name=total_sales_dollars, type=DOUBLE"`
	TotalSalesPrice       float64 `db:"total_sales_price" csv:"TotalSalesPrice" json:"total_sales_price" parquet:"name=total_sales_price, type=DOUBLE"`
	TotalExciseTax        float64 `db:"total_excise_tax" csv:"TotalExciseTax" json:"total_excise_tax" parquet:"name=total_excise_tax, type=DOUBLE"`
	FreightCost           float64 `db:"freight_cost" csv:"FreightCost" json:"freight_cost" parquet:"name=freight_cost, type=DOUBLE"`
	GrossProfit           float64 `db:"gross_profit" csv:"GrossProfit" json:"gross_profit" parquet:"name=gross_profit, type=DOUBLE"`
	ProfitMargin          float64 `db:"profit_margin" csv:"ProfitMargin" json:"profit_margin" parquet:"name=profit_margin, type=DOUBLE"`
	StockTurnover         float64 `db:"stock_turnover" csv:"StockTurnover" json:"stock_turnover" parquet:"name=stock_turnover, type=DOUBLE"`
	SalesToPurchaseRatio  float64 `db:"sales_to_purchase_ratio" csv:"SalestoPurchaseRatio" json:"sales_to_purchase_ratio" parquet:"name=sales_to_purchase_ratio, type=DOUBLE"`
}

func (summary *VendorSummary) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("VendorNumber", summary.VendorNumber).
		Str("VendorName", summary.VendorName).
		Int64("Brand", summary.Brand).
		Str("Description", summary.Description).
		Float64("PurchasePrice", summary.PurchasePrice).
		Float64("ActualPrice", summary.ActualPrice).
		Float64("Volume", summary.Volume).
		Int64("TotalPurchaseQuantity", summary.TotalPurchaseQuantity).
		Float64("TotalPurchaseDollars", summary.TotalPurchaseDollars).
		Int64("TotalSalesQuantity", summary.TotalSalesQuantity).
		Float64("TotalSalesDollars", summary.TotalSalesDollars).
		Float64("FreightCost", summary.FreightCost).
		Float64("GrossProfit", summary.GrossProfit).
		Float64("ProfitMargin", summary.ProfitMargin)
}

func (summary *VendorSummary) SaveDB(ctx context.Context, tbl string, tx pgx.Tx) error {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"vendor_number",
		"vendor_name",
		"brand",
		"description",
		"purchase_price",
		"actual_price",
		"volume",
		"total_purchase_quantity",
		"total_purchase_dollars",
		"total_sales_quantity",
		"total_sales_dollars",
		"total_sales_price",
		"total_excise_tax",
		"freight_cost",
		"gross_profit",
		"profit_margin",
		"stock_turnover",
		"sales_to_purchase_ratio"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18
	);`, tbl)

	_, err := tx.Exec(ctx, sql, summary.VendorNumber, summary.VendorName,
		summary.Brand, summary.Description, summary.PurchasePrice,
		summary.ActualPrice, summary.Volume, summary.TotalPurchaseQuantity,
		summary.TotalPurchaseDollars, summary.TotalSalesQuantity,
		summary.TotalSalesDollars, summary.TotalSalesPrice, summary.TotalExciseTax,
		summary.FreightCost, summary.GrossProfit, summary.ProfitMargin,
		summary.StockTurnover, summary.SalesToPurchaseRatio)
	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("error saving vendor summary to database")
		return err
	}

	return nil
}

// LoadVendorSummary reads the persisted report back in spend order, largest
// purchase total first.
func LoadVendorSummary(ctx context.Context, db pgxscan.Querier, tbl string) ([]*VendorSummary, error) {
	subLog := zerolog.Ctx(ctx)

	rows := make([]*VendorSummary, 0, 100)
	sql := fmt.Sprintf(`SELECT
		"vendor_number",
		"vendor_name",
		"brand",
		"description",
		"purchase_price",
		"actual_price",
		"volume",
		"total_purchase_quantity",
		"total_purchase_dollars",
		"total_sales_quantity",
		"total_sales_dollars",
		"total_sales_price",
		"total_excise_tax",
		"freight_cost",
		"gross_profit",
		"profit_margin",
		"stock_turnover",
		"sales_to_purchase_ratio"
	FROM %[1]s ORDER BY total_purchase_dollars DESC;`, tbl)

	if err := pgxscan.Select(ctx, db, &rows, sql); err != nil {
		subLog.Error().Err(err).Str("Table", tbl).Msg("could not load vendor summary")
		return nil, err
	}

	return rows, nil
}
