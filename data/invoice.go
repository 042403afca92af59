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

// VendorInvoice is one invoice from a vendor, carrying the freight charge
// that the summary report rolls up per vendor.
type VendorInvoice struct {
	VendorNumber int64   `csv:"VendorNumber" db:"vendor_number"`
	VendorName   string  `csv:"VendorName" db:"vendor_name"`
	InvoiceDate  *string `csv:"InvoiceDate" db:"invoice_date"`
	PONumber     int64   `csv:"PONumber" db:"po_number"`
	PODate       *string `csv:"PODate" db:"po_date"`
	PayDate      *string `csv:"PayDate" db:"pay_date"`
	Quantity     int64   `csv:"Quantity" db:"quantity"`
	Dollars      float64 `csv:"Dollars" db:"dollars"`
	Freight      float64 `csv:"Freight" db:"freight"`
	Approval     string  `csv:"Approval" db:"approval"`
}

func (invoice *VendorInvoice) SaveDB(ctx context.Context, tbl string, tx pgx.Tx) error {
	sql := fmt.Sprintf(`INSERT INTO %[1]s (
		"vendor_number",
		"vendor_name",
		"invoice_date",
		"po_number",
		"po_date",
		"pay_date",
		"quantity",
		"dollars",
		"freight",
		"approval"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	);`, tbl)

	_, err := tx.Exec(ctx, sql, invoice.VendorNumber, invoice.VendorName,
		invoice.InvoiceDate, invoice.PONumber, invoice.PODate, invoice.PayDate,
		invoice.Quantity, invoice.Dollars, invoice.Freight, invoice.Approval)
	if err != nil {
		log.Error().Err(err).Str("SQL", sql).Msg("error saving vendor invoice to database")
		return err
	}

	return nil
}
