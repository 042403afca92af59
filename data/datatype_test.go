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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/cellar-vault/cvdata/data"
)

var _ = Describe("DataTypes", func() {
	It("registers every warehouse table", func() {
		Expect(data.DataTypes).To(HaveKey(data.PurchasesKey))
		Expect(data.DataTypes).To(HaveKey(data.PurchasePricesKey))
		Expect(data.DataTypes).To(HaveKey(data.SalesKey))
		Expect(data.DataTypes).To(HaveKey(data.VendorInvoiceKey))
		Expect(data.DataTypes).To(HaveKey(data.VendorSummaryKey))
	})

	It("substitutes the table name into the schema", func() {
		schema := data.DataTypes[data.VendorSummaryKey].ExpandedSchema("summary_staging")
		Expect(schema).To(ContainSubstring("CREATE TABLE summary_staging"))
		Expect(schema).NotTo(ContainSubstring("%[1]s"))
	})

	It("creates feed tables idempotently", func() {
		for _, key := range []string{data.PurchasesKey, data.PurchasePricesKey, data.SalesKey, data.VendorInvoiceKey} {
			dataType := data.DataTypes[key]
			schema := dataType.ExpandedSchema(dataType.TableName)
			Expect(schema).To(ContainSubstring("IF NOT EXISTS"), "feed table %s must be safe to re-create", dataType.TableName)
		}
	})

	It("creates the summary table fresh", func() {
		// the summary table is dropped and re-created on every refresh, so
		// its schema must fail loudly if the drop did not happen
		dataType := data.DataTypes[data.VendorSummaryKey]
		schema := dataType.ExpandedSchema(dataType.TableName)
		Expect(schema).NotTo(ContainSubstring("IF NOT EXISTS"))
	})

	It("gives every data type a distinct table", func() {
		seen := map[string]string{}
		for key, dataType := range data.DataTypes {
			Expect(dataType.TableName).NotTo(BeEmpty())
			Expect(seen).NotTo(HaveKey(dataType.TableName))
			seen[dataType.TableName] = key
		}
	})
})
