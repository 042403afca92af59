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

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Sale is a single register transaction line. The sales feed identifies the
// vendor as VendorNo where every other feed says VendorNumber; the column
// name is preserved so the feeds can be reloaded without renaming headers.
type Sale struct {
	InventoryID    string  `csv:"InventoryId" db:"inventory_id"`
	Store          int     `csv:"Store" db:"store"`
	Brand          int64   `csv:"Brand" db:"brand"`
	Description    string  `csv:"Description" db:"description"`
	Size           string  `csv:"Size" db:"size"`
	SalesQuantity  int64   `csv:"SalesQuantity" db:"sales_quantity"`
	SalesDollars   float64 `csv:"SalesDollars" db:"sales_dollars"`
	SalesPrice     float64 `csv:"SalesPrice" db:"sales_price"`
	SalesDate      *string `csv:"SalesDate" db:"sales_date"`
	Volume         string  `csv:"Volume" db:"volume"`
	Classification int     `csv:"Classification" db:"classification"`
	ExciseTax      float64 `csv:"ExciseTax" db:"excise_tax"`
	VendorNo       int64   `csv:"VendorNo" db:"vendor_no"`
	VendorName     string  `csv:"VendorName" db:"vendor_name"`
}

func (sale *Sale) SaveDB(ctx context.Context, tbl string, tx pgx.Tx) error {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"inventory_id",
		"store",
		"brand",
		"description",
		"size",
		"sales_quantity",
		"sales_dollars",
		"sales_price",
		"sales_date",
		"volume",
		"classification",
		"excise_tax",
		"vendor_no",
		"vendor_name"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
	);`, tbl)

	_, err := tx.Exec(ctx, sql, sale.InventoryID, sale.Store, sale.Brand,
		sale.Description, sale.Size, sale.SalesQuantity, sale.SalesDollars,
		sale.SalesPrice, sale.SalesDate, sale.Volume, sale.Classification,
		sale.ExciseTax, sale.VendorNo, sale.VendorName)
	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("error saving sale to database")
		return err
	}

	return nil
}
