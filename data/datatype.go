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

import "fmt"

type DataType struct {
	Name      string
	TableName string
	Schema    string
	Version   int
}

const (
	PurchasesKey      = "purchases"
	PurchasePricesKey = "purchase-prices"
	SalesKey          = "sales"
	VendorInvoiceKey  = "vendor-invoice"
	VendorSummaryKey  = "vendor-summary"
)

var DataTypes = map[string]*DataType{
	PurchasesKey: {
		Name:      PurchasesKey,
		TableName: "purchases",
		Schema: `CREATE TABLE IF NOT EXISTS %[1]s (
inventory_id   TEXT,
store          INT,
brand          BIGINT        NOT NULL,
description    TEXT,
size           TEXT,
vendor_number  BIGINT        NOT NULL,
vendor_name    TEXT,
po_number      BIGINT,
po_date        DATE,
receiving_date DATE,
invoice_date   DATE,
pay_date       DATE,
purchase_price NUMERIC(12,2) NOT NULL DEFAULT 0,
quantity       BIGINT        NOT NULL DEFAULT 0,
dollars        NUMERIC(14,2) NOT NULL DEFAULT 0,
classification INT
);

CREATE INDEX IF NOT EXISTS %[1]s_brand_idx ON %[1]s(brand);
CREATE INDEX IF NOT EXISTS %[1]s_vendor_idx ON %[1]s(vendor_number);`,
		Version: 0,
	},
	PurchasePricesKey: {
		Name:      PurchasePricesKey,
		TableName: "purchase_prices",
		// volume is free text on purpose: vendor price books arrive as CSV
		// with values like "750" and "1.75L" mixed in the same column. The
		// cleaner coerces it to a number at report time.
		Schema: `CREATE TABLE IF NOT EXISTS %[1]s (
brand          BIGINT        NOT NULL,
description    TEXT,
price          NUMERIC(12,2) NOT NULL DEFAULT 0,
size           TEXT,
volume         TEXT,
classification INT,
purchase_price NUMERIC(12,2) NOT NULL DEFAULT 0,
vendor_number  BIGINT        NOT NULL,
vendor_name    TEXT
);

CREATE INDEX IF NOT EXISTS %[1]s_brand_idx ON %[1]s(brand);`,
		Version: 0,
	},
	SalesKey: {
		Name:      SalesKey,
		TableName: "sales",
		Schema: `CREATE TABLE IF NOT EXISTS %[1]s (
inventory_id   TEXT,
store          INT,
brand          BIGINT        NOT NULL,
description    TEXT,
size           TEXT,
sales_quantity BIGINT        NOT NULL DEFAULT 0,
sales_dollars  NUMERIC(14,2) NOT NULL DEFAULT 0,
sales_price    NUMERIC(12,2) NOT NULL DEFAULT 0,
sales_date     DATE,
volume         TEXT,
classification INT,
excise_tax     NUMERIC(12,2) NOT NULL DEFAULT 0,
vendor_no      BIGINT        NOT NULL,
vendor_name    TEXT
);

CREATE INDEX IF NOT EXISTS %[1]s_vendor_brand_idx ON %[1]s(vendor_no, brand);`,
		Version: 0,
	},
	VendorInvoiceKey: {
		Name:      VendorInvoiceKey,
		TableName: "vendor_invoice",
		Schema: `CREATE TABLE IF NOT EXISTS %[1]s (
vendor_number BIGINT        NOT NULL,
vendor_name   TEXT,
invoice_date  DATE,
po_number     BIGINT,
po_date       DATE,
pay_date      DATE,
quantity      BIGINT        NOT NULL DEFAULT 0,
dollars       NUMERIC(14,2) NOT NULL DEFAULT 0,
freight       NUMERIC(12,2) NOT NULL DEFAULT 0,
approval      TEXT
);

CREATE INDEX IF NOT EXISTS %[1]s_vendor_idx ON %[1]s(vendor_number);`,
		Version: 0,
	},
	VendorSummaryKey: {
		Name:      VendorSummaryKey,
		TableName: "vendor_sales_summary",
		// Created fresh on every refresh inside the replace transaction, so
		// no IF NOT EXISTS here.
		Schema: `CREATE TABLE %[1]s (
vendor_number           BIGINT           NOT NULL,
vendor_name             TEXT             NOT NULL DEFAULT '',
brand                   BIGINT           NOT NULL,
description             TEXT             NOT NULL DEFAULT '',
purchase_price          DOUBLE PRECISION NOT NULL DEFAULT 0,
actual_price            DOUBLE PRECISION NOT NULL DEFAULT 0,
volume                  DOUBLE PRECISION NOT NULL DEFAULT 0,
total_purchase_quantity BIGINT           NOT NULL DEFAULT 0,
total_purchase_dollars  DOUBLE PRECISION NOT NULL DEFAULT 0,
total_sales_quantity    BIGINT           NOT NULL DEFAULT 0,
total_sales_dollars     DOUBLE PRECISION NOT NULL DEFAULT 0,
total_sales_price       DOUBLE PRECISION NOT NULL DEFAULT 0,
total_excise_tax        DOUBLE PRECISION NOT NULL DEFAULT 0,
freight_cost            DOUBLE PRECISION NOT NULL DEFAULT 0,
gross_profit            DOUBLE PRECISION NOT NULL DEFAULT 0,
profit_margin           DOUBLE PRECISION NOT NULL DEFAULT 0,
sales_to_purchase_ratio DOUBLE PRECISION NOT NULL DEFAULT 0,
stock_turnover          DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE INDEX %[1]s_vendor_idx ON %[1]s(vendor_number);
CREATE INDEX %[1]s_brand_idx ON %[1]s(brand);`,
		Version: 0,
	},
}

// Schema returns the schema of the data type. A getter is used to ensure that the value is immutable after construction
func (dt *DataType) ExpandedSchema(tableName string) string {
	return fmt.Sprintf(dt.Schema, tableName)
}
