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

// Purchase is a single receiving line from the purchases ledger. Date fields
// are pointers so an empty CSV cell lands as NULL instead of an invalid date.
type Purchase struct {
	InventoryID    string  `csv:"InventoryId" db:"inventory_id"`
	Store          int     `csv:"Store" db:"store"`
	Brand          int64   `csv:"Brand" db:"brand"`
	Description    string  `csv:"Description" db:"description"`
	Size           string  `csv:"Size" db:"size"`
	VendorNumber   int64   `csv:"VendorNumber" db:"vendor_number"`
	VendorName     string  `csv:"VendorName" db:"vendor_name"`
	PONumber       int64   `csv:"PONumber" db:"po_number"`
	PODate         *string `csv:"PODate" db:"po_date"`
	ReceivingDate  *string `csv:"ReceivingDate" db:"receiving_date"`
	InvoiceDate    *string `csv:"InvoiceDate" db:"invoice_date"`
	PayDate        *string `csv:"PayDate" db:"pay_date"`
	PurchasePrice  float64 `csv:"PurchasePrice" db:"purchase_price"`
	Quantity       int64   `csv:"Quantity" db:"quantity"`
	Dollars        float64 `csv:"Dollars" db:"dollars"`
	Classification int     `csv:"Classification" db:"classification"`
}

func (purchase *Purchase) SaveDB(ctx context.Context, tbl string, tx pgx.Tx) error {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"inventory_id",
		"store",
		"brand",
		"description",
		"size",
		"vendor_number",
		"vendor_name",
		"po_number",
		"po_date",
		"receiving_date",
		"invoice_date",
		"pay_date",
		"purchase_price",
		"quantity",
		"dollars",
		"classification"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
	);`, tbl)

	_, err := tx.Exec(ctx, sql, purchase.InventoryID, purchase.Store, purchase.Brand,
		purchase.Description, purchase.Size, purchase.VendorNumber, purchase.VendorName,
		purchase.PONumber, purchase.PODate, purchase.ReceivingDate, purchase.InvoiceDate,
		purchase.PayDate, purchase.PurchasePrice, purchase.Quantity, purchase.Dollars,
		purchase.Classification)
	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("error saving purchase to database")
		return err
	}

	return nil
}
