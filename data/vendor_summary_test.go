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
package data_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/cellar-vault/cvdata/data"
)

var _ = Describe("LoadVendorSummary", func() {
	var (
		ctx  context.Context
		mock pgxmock.PgxPoolIface
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mock.Close()
	})

	It("reads rows back in spend order", func() {
		cols := []string{
			"vendor_number", "vendor_name", "brand", "description", "purchase_price",
			"actual_price", "volume", "total_purchase_quantity", "total_purchase_dollars",
			"total_sales_quantity", "total_sales_dollars", "total_sales_price",
			"total_excise_tax", "freight_cost", "gross_profit", "profit_margin",
			"stock_turnover", "sales_to_purchase_ratio",
		}

		mock.ExpectQuery("ORDER BY total_purchase_dollars DESC").WillReturnRows(
			pgxmock.NewRows(cols).
				AddRow(int64(7), "North Shore Imports", int64(42), "Pinot Noir", 10.0,
					20.0, 750.0, int64(10), 100.0, int64(8), 160.0, 20.0, 4.0, 7.0,
					60.0, 37.5, 0.8, 1.6).
				AddRow(int64(1), "Vendor 1", int64(1), "Brand 1", 10.0,
					12.0, 750.0, int64(5), 50.0, int64(0), 0.0, 0.0, 0.0, 3.0,
					-50.0, 0.0, 0.0, 0.0),
		)

		rows, err := data.LoadVendorSummary(ctx, mock, "vendor_sales_summary")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))

		Expect(rows[0].VendorNumber).To(Equal(int64(7)))
		Expect(rows[0].TotalPurchaseDollars).To(Equal(100.0))
		Expect(rows[0].SalesToPurchaseRatio).To(Equal(1.6))

		Expect(rows[1].VendorNumber).To(Equal(int64(1)))
		Expect(rows[1].GrossProfit).To(Equal(-50.0))
		Expect(rows[1].FreightCost).To(Equal(3.0))

		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("returns the database error", func() {
		mock.ExpectQuery("ORDER BY total_purchase_dollars DESC").
			WillReturnError(errors.New("connection reset"))

		_, err := data.LoadVendorSummary(ctx, mock, "vendor_sales_summary")
		Expect(err).To(HaveOccurred())
	})
})
