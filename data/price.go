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

// PurchasePrice is one row of the vendor price book. Volume stays text here,
// NULL when the cell is empty; the report cleaner coerces it to a number.
type PurchasePrice struct {
	Brand          int64   `csv:"Brand" db:"brand"`
	Description    string  `csv:"Description" db:"description"`
	Price          float64 `csv:"Price" db:"price"`
	Size           string  `csv:"Size" db:"size"`
	Volume         *string `csv:"Volume" db:"volume"`
	Classification int     `csv:"Classification" db:"classification"`
	PurchasePrice  float64 `csv:"PurchasePrice" db:"purchase_price"`
	VendorNumber   int64   `csv:"VendorNumber" db:"vendor_number"`
	VendorName     string  `csv:"VendorName" db:"vendor_name"`
}

func (price *PurchasePrice) SaveDB(ctx context.Context, tbl string, tx pgx.Tx) error {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"brand",
		"description",
		"price",
		"size",
		"volume",
		"classification",
		"purchase_price",
		"vendor_number",
		"vendor_name"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	);`, tbl)

	_, err := tx.Exec(ctx, sql, price.Brand, price.Description, price.Price,
		price.Size, price.Volume, price.Classification, price.PurchasePrice,
		price.VendorNumber, price.VendorName)
	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("error saving purchase price to database")
		return err
	}

	return nil
}
