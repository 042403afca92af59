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
package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cellar-vault/cvdata/data"
)

var ErrTypeMismatch = errors.New("column value cannot be coerced to the expected type")

// Clean converts raw summary rows into finished report records: the free-text
// volume column becomes a number, names and descriptions lose their padding,
// NULLs become zero, and the derived profitability metrics are computed. The
// input rows are not modified. A volume that cannot be parsed aborts the whole
// batch.
func Clean(rows []*SummaryRow) ([]*data.VendorSummary, error) {
	cleaned := make([]*data.VendorSummary, 0, len(rows))
	for _, row := range rows {
		summary, err := cleanRow(row)
		if err != nil {
			return nil, err
		}
		cleaned = append(cleaned, summary)
	}

	return cleaned, nil
}

func cleanRow(row *SummaryRow) (*data.VendorSummary, error) {
	volume, err := parseVolume(row.Volume)
	if err != nil {
		return nil, err
	}

	summary := &data.VendorSummary{
		VendorNumber:          row.VendorNumber,
		VendorName:            strings.TrimSpace(orBlank(row.VendorName)),
		Brand:                 row.Brand,
		Description:           strings.TrimSpace(orBlank(row.Description)),
		PurchasePrice:         row.PurchasePrice,
		ActualPrice:           row.ActualPrice,
		Volume:                volume,
		TotalPurchaseQuantity: row.TotalPurchaseQuantity,
		TotalPurchaseDollars:  row.TotalPurchaseDollars,
		TotalSalesQuantity:    orZeroInt(row.TotalSalesQuantity),
		TotalSalesDollars:     orZero(row.TotalSalesDollars),
		TotalSalesPrice:       orZero(row.TotalSalesPrice),
		TotalExciseTax:        orZero(row.TotalExciseTax),
		FreightCost:           orZero(row.FreightCost),
	}

	// Ratios with a zero denominator come out as zero, never NaN or Inf.
	// Gross profit is the one metric that can go negative. The margin is a
	// percentage, the other two are plain ratios.
	summary.GrossProfit = summary.TotalSalesDollars - summary.TotalPurchaseDollars
	if summary.TotalSalesDollars != 0 {
		summary.ProfitMargin = summary.GrossProfit / summary.TotalSalesDollars * 100
	}
	if summary.TotalPurchaseDollars != 0 {
		summary.SalesToPurchaseRatio = summary.TotalSalesDollars / summary.TotalPurchaseDollars
	}
	if summary.TotalPurchaseQuantity != 0 {
		summary.StockTurnover = float64(summary.TotalSalesQuantity) / float64(summary.TotalPurchaseQuantity)
	}

	return summary, nil
}

// parseVolume coerces the price book's free-text volume to a number. A NULL
// volume is zero; any non-NULL text must parse, so a price book with entries
// like "1.75L" fails loudly instead of silently dropping the suffix.
func parseVolume(raw *string) (float64, error) {
	if raw == nil {
		return 0, nil
	}

	volume, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: volume %q is not a number", ErrTypeMismatch, *raw)
	}

	return volume, nil
}

func orBlank(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}

func orZero(val *float64) float64 {
	if val == nil {
		return 0
	}
	return *val
}

func orZeroInt(val *int64) int64 {
	if val == nil {
		return 0
	}
	return *val
}
