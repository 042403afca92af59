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
package ingest_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/cellar-vault/cvdata/data"
	"github.com/cellar-vault/cvdata/ingest"
)

// anySummaryArgs matches the 18 bound columns of a summary insert.
func anySummaryArgs() []interface{} {
	args := make([]interface{}, 18)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

var _ = Describe("Replace", func() {
	var (
		ctx  context.Context
		mock pgxmock.PgxPoolIface
		rows []*data.VendorSummary
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())

		rows = []*data.VendorSummary{{
			VendorNumber:          1,
			VendorName:            "Vendor 1",
			Brand:                 1,
			Description:           "Brand 1",
			PurchasePrice:         10,
			ActualPrice:           12,
			Volume:                750,
			TotalPurchaseQuantity: 5,
			TotalPurchaseDollars:  50,
			FreightCost:           3,
			GrossProfit:           -50,
		}}
	})

	AfterEach(func() {
		mock.Close()
	})

	It("replaces the table contents in a single transaction", func() {
		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS vendor_sales_summary").
			WillReturnResult(pgxmock.NewResult("DROP", 0))
		mock.ExpectExec("CREATE TABLE vendor_sales_summary").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectExec("INSERT INTO vendor_sales_summary").
			WithArgs(anySummaryArgs()...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		err := ingest.Replace(ctx, mock, "vendor_sales_summary", rows)
		Expect(err).NotTo(HaveOccurred())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("still swaps in a fresh table when there are no rows", func() {
		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS vendor_sales_summary").
			WillReturnResult(pgxmock.NewResult("DROP", 0))
		mock.ExpectExec("CREATE TABLE vendor_sales_summary").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectCommit()
		mock.ExpectRollback()

		err := ingest.Replace(ctx, mock, "vendor_sales_summary", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("rolls back when an insert fails", func() {
		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS vendor_sales_summary").
			WillReturnResult(pgxmock.NewResult("DROP", 0))
		mock.ExpectExec("CREATE TABLE vendor_sales_summary").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectExec("INSERT INTO vendor_sales_summary").
			WithArgs(anySummaryArgs()...).
			WillReturnError(errors.New("out of disk"))
		mock.ExpectRollback()

		err := ingest.Replace(ctx, mock, "vendor_sales_summary", rows)
		Expect(err).To(MatchError(ingest.ErrPersist))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("rolls back when the old table cannot be dropped", func() {
		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS vendor_sales_summary").
			WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		err := ingest.Replace(ctx, mock, "vendor_sales_summary", rows)
		Expect(err).To(MatchError(ingest.ErrPersist))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("reports a failure to open the transaction", func() {
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := ingest.Replace(ctx, mock, "vendor_sales_summary", rows)
		Expect(err).To(MatchError(ingest.ErrPersist))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("reports a failed commit", func() {
		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE IF EXISTS vendor_sales_summary").
			WillReturnResult(pgxmock.NewResult("DROP", 0))
		mock.ExpectExec("CREATE TABLE vendor_sales_summary").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))
		mock.ExpectExec("INSERT INTO vendor_sales_summary").
			WithArgs(anySummaryArgs()...).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit().WillReturnError(errors.New("server shutdown"))
		mock.ExpectRollback()

		err := ingest.Replace(ctx, mock, "vendor_sales_summary", rows)
		Expect(err).To(MatchError(ingest.ErrPersist))
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})
})
