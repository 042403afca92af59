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
package warehouse

import (
	"context"
	"fmt"
	"strings"

	"github.com/cellar-vault/cvdata/data"
	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary returns a description of the warehouse in markdown
func (myWarehouse *Warehouse) Summary(ctx context.Context) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	if _, err := builder.WriteString(fmt.Sprintf("# %s\n", myWarehouse.Name)); err != nil {
		return "", err
	}

	if _, err := builder.WriteString("## Details\n\n"); err != nil {
		return "", err
	}

	// Database connection string
	if _, err := builder.WriteString(fmt.Sprintf("Database: %s\n\n", myWarehouse.DBUrl)); err != nil {
		return "", err
	}

	// Distinct vendor count
	numVendors, err := myWarehouse.NumVendors(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Vendors: %d\n", numVendors)); err != nil {
		return "", err
	}

	// Distinct brand count
	numBrands, err := myWarehouse.NumBrands(ctx)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * Brands: %d\n\n", numBrands)); err != nil {
		return "", err
	}

	// Last refresh time
	lastRefresh, err := myWarehouse.LastRefresh(ctx)
	if err != nil {
		return "", err
	}

	if lastRefresh == nil {
		if _, err := builder.WriteString("Last Refreshed: Never\n\n"); err != nil {
			return "", err
		}
	} else {
		age := timeago.English.Format(lastRefresh.FinishedAt)
		if _, err := builder.WriteString(p.Sprintf("Last Refreshed: %s (%s) - %d rows\n\n", age,
			lastRefresh.FinishedAt.Local().Format("01/02/2006"), lastRefresh.NumRows)); err != nil {
			return "", err
		}
	}

	// Source tables
	if _, err := builder.WriteString("## Source tables\n\n"); err != nil {
		return "", err
	}

	for _, key := range sourceTableKeys {
		dataType := data.DataTypes[key]
		count, err := myWarehouse.RowCount(ctx, dataType.TableName)
		if err != nil {
			return "", err
		}

		if _, err := builder.WriteString(p.Sprintf("  * %s: %d rows\n", dataType.TableName, count)); err != nil {
			return "", err
		}
	}

	// Vendor summary
	if _, err := builder.WriteString("\n## Vendor summary\n\n"); err != nil {
		return "", err
	}

	summaryTable := data.DataTypes[data.VendorSummaryKey].TableName
	exists, err := myWarehouse.TableExists(ctx, summaryTable)
	if err != nil {
		return "", err
	}

	if !exists {
		if _, err := builder.WriteString("The vendor summary has not been built yet. Run `cvdata refresh` to build it.\n"); err != nil {
			return "", err
		}

		return builder.String(), nil
	}

	count, err := myWarehouse.RowCount(ctx, summaryTable)
	if err != nil {
		return "", err
	}

	if _, err := builder.WriteString(p.Sprintf("  * %s: %d rows\n\n", summaryTable, count)); err != nil {
		return "", err
	}

	// Vendor leaderboard
	topVendors, err := myWarehouse.TopVendors(ctx, summaryTable, 5)
	if err != nil {
		return "", err
	}

	if len(topVendors) > 0 {
		if _, err := builder.WriteString("### Top vendors by purchase dollars\n\n"); err != nil {
			return "", err
		}

		for _, vendor := range topVendors {
			if _, err := builder.WriteString(p.Sprintf("  * %s (%d): $%.2f\n", vendor.VendorName,
				vendor.VendorNumber, vendor.PurchaseDollars)); err != nil {
				return "", err
			}
		}
	}

	return builder.String(), nil
}
