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
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/cellar-vault/cvdata/data"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

var ErrPersist = errors.New("could not persist vendor summary")

// Database is the slice of a connection pool that Replace needs.
type Database interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Replace swaps the contents of the summary table for the given rows inside
// a single transaction: drop, re-create, insert, commit. Readers never see a
// partially written table. An empty row set still replaces the table, leaving
// it freshly created and empty.
func Replace(ctx context.Context, db Database, tbl string, rows []*data.VendorSummary) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPersist, err.Error())
	}

	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			if !errors.Is(err, pgx.ErrTxClosed) {
				log.Error().Err(err).Msg("error rolling back transaction")
			}
		}
	}()

	if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", tbl)); err != nil {
		return fmt.Errorf("%w: %s", ErrPersist, err.Error())
	}

	if _, err := tx.Exec(ctx, data.DataTypes[data.VendorSummaryKey].ExpandedSchema(tbl)); err != nil {
		return fmt.Errorf("%w: %s", ErrPersist, err.Error())
	}

	for _, row := range rows {
		if err := row.SaveDB(ctx, tbl, tx); err != nil {
			return fmt.Errorf("%w: %s", ErrPersist, err.Error())
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %s", ErrPersist, err.Error())
	}

	return nil
}
