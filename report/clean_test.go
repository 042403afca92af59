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
package report_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cellar-vault/cvdata/report"
)

var _ = Describe("Clean", func() {
	Context("when a brand was purchased but never sold", func() {
		var rows []*report.SummaryRow

		BeforeEach(func() {
			rows = []*report.SummaryRow{{
				VendorNumber:          1,
				VendorName:            strPtr("Vendor 1"),
				Brand:                 1,
				Description:           strPtr("Brand 1"),
				PurchasePrice:         10,
				ActualPrice:           12,
				Volume:                strPtr("750"),
				TotalPurchaseQuantity: 5,
				TotalPurchaseDollars:  50,
			}}
		})

		It("fills the sales columns with zero", func() {
			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(cleaned).To(HaveLen(1))

			Expect(cleaned[0].TotalSalesQuantity).To(BeZero())
			Expect(cleaned[0].TotalSalesDollars).To(BeZero())
			Expect(cleaned[0].TotalSalesPrice).To(BeZero())
			Expect(cleaned[0].TotalExciseTax).To(BeZero())
		})

		It("fills a missing freight cost with zero", func() {
			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(cleaned[0].FreightCost).To(BeZero())
		})

		It("reports the unsold purchases as negative gross profit", func() {
			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(cleaned[0].GrossProfit).To(Equal(-50.0))
		})

		It("zeroes every ratio instead of dividing by zero", func() {
			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())

			Expect(cleaned[0].ProfitMargin).To(BeZero())
			Expect(cleaned[0].SalesToPurchaseRatio).To(BeZero())
			Expect(cleaned[0].StockTurnover).To(BeZero())
		})

		It("carries the purchase columns through", func() {
			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())

			Expect(cleaned[0].VendorNumber).To(Equal(int64(1)))
			Expect(cleaned[0].Brand).To(Equal(int64(1)))
			Expect(cleaned[0].PurchasePrice).To(Equal(10.0))
			Expect(cleaned[0].ActualPrice).To(Equal(12.0))
			Expect(cleaned[0].Volume).To(Equal(750.0))
			Expect(cleaned[0].TotalPurchaseQuantity).To(Equal(int64(5)))
			Expect(cleaned[0].TotalPurchaseDollars).To(Equal(50.0))
		})
	})

	Context("when a brand has sales and freight", func() {
		var rows []*report.SummaryRow

		BeforeEach(func() {
			rows = []*report.SummaryRow{{
				VendorNumber:          7,
				VendorName:            strPtr("North Shore Imports"),
				Brand:                 42,
				Description:           strPtr("Pinot Noir"),
				PurchasePrice:         10,
				ActualPrice:           20,
				Volume:                strPtr("750"),
				TotalPurchaseQuantity: 10,
				TotalPurchaseDollars:  100,
				TotalSalesQuantity:    i64Ptr(8),
				TotalSalesDollars:     f64Ptr(160),
				TotalSalesPrice:       f64Ptr(20),
				TotalExciseTax:        f64Ptr(4),
				FreightCost:           f64Ptr(7),
			}}
		})

		It("derives the profitability metrics", func() {
			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())

			Expect(cleaned[0].GrossProfit).To(Equal(60.0))
			Expect(cleaned[0].ProfitMargin).To(Equal(37.5))
			Expect(cleaned[0].SalesToPurchaseRatio).To(Equal(1.6))
			Expect(cleaned[0].StockTurnover).To(Equal(0.8))
		})

		It("carries total sales price through unchanged", func() {
			// total_sales_price is a sum of unit prices, not a weighted
			// average; the cleaner must not try to repair it
			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(cleaned[0].TotalSalesPrice).To(Equal(20.0))
		})

		It("carries the freight cost through", func() {
			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(cleaned[0].FreightCost).To(Equal(7.0))
		})
	})

	Context("scrubbing text columns", func() {
		It("trims whitespace from vendor name and description", func() {
			rows := []*report.SummaryRow{{
				VendorNumber:  3,
				VendorName:    strPtr("  Lakeside Wine Co   "),
				Brand:         9,
				Description:   strPtr("\tDry Riesling "),
				PurchasePrice: 8,
			}}

			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())

			Expect(cleaned[0].VendorName).To(Equal("Lakeside Wine Co"))
			Expect(cleaned[0].Description).To(Equal("Dry Riesling"))
		})

		It("maps NULL vendor name and description to empty strings", func() {
			rows := []*report.SummaryRow{{
				VendorNumber:  3,
				Brand:         9,
				PurchasePrice: 8,
			}}

			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())

			Expect(cleaned[0].VendorName).To(Equal(""))
			Expect(cleaned[0].Description).To(Equal(""))
		})
	})

	Context("coercing the volume column", func() {
		It("treats a NULL volume as zero", func() {
			rows := []*report.SummaryRow{{VendorNumber: 1, Brand: 1}}

			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(cleaned[0].Volume).To(BeZero())
		})

		It("trims whitespace before parsing", func() {
			rows := []*report.SummaryRow{{VendorNumber: 1, Brand: 1, Volume: strPtr("  1750 ")}}

			cleaned, err := report.Clean(rows)
			Expect(err).NotTo(HaveOccurred())
			Expect(cleaned[0].Volume).To(Equal(1750.0))
		})

		It("rejects text that is not a number", func() {
			rows := []*report.SummaryRow{{VendorNumber: 1, Brand: 1, Volume: strPtr("1.75L")}}

			_, err := report.Clean(rows)
			Expect(err).To(MatchError(report.ErrTypeMismatch))
		})

		It("rejects an empty volume string", func() {
			rows := []*report.SummaryRow{{VendorNumber: 1, Brand: 1, Volume: strPtr("")}}

			_, err := report.Clean(rows)
			Expect(err).To(MatchError(report.ErrTypeMismatch))
		})
	})

	It("preserves row count and order", func() {
		rows := []*report.SummaryRow{
			{VendorNumber: 5, Brand: 1, TotalPurchaseDollars: 900},
			{VendorNumber: 2, Brand: 7, TotalPurchaseDollars: 500},
			{VendorNumber: 9, Brand: 3, TotalPurchaseDollars: 100},
		}

		cleaned, err := report.Clean(rows)
		Expect(err).NotTo(HaveOccurred())
		Expect(cleaned).To(HaveLen(3))

		Expect(cleaned[0].VendorNumber).To(Equal(int64(5)))
		Expect(cleaned[1].VendorNumber).To(Equal(int64(2)))
		Expect(cleaned[2].VendorNumber).To(Equal(int64(9)))
	})

	It("does not modify the input rows", func() {
		name := "  Padded Vendor  "
		rows := []*report.SummaryRow{{VendorNumber: 1, Brand: 1, VendorName: &name}}

		_, err := report.Clean(rows)
		Expect(err).NotTo(HaveOccurred())

		Expect(*rows[0].VendorName).To(Equal("  Padded Vendor  "))
		Expect(rows[0].TotalSalesDollars).To(BeNil())
	})
})
