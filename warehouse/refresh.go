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
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	RefreshSucceeded = "succeeded"
	RefreshFailed    = "failed"
)

// Refresh is one recorded run of the vendor summary refresh, successful or
// not.
type Refresh struct {
	ID         uuid.UUID `db:"id"`
	TableName  string    `db:"table_name"`
	NumRows    int64     `db:"num_rows"`
	Status     string    `db:"status"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
}

func (refresh *Refresh) MarshalZerologObject(e *zerolog.Event) {
	e.Str("ID", refresh.ID.String()).
		Str("TableName", refresh.TableName).
		Int64("NumRows", refresh.NumRows).
		Str("Status", refresh.Status).
		Time("StartedAt", refresh.StartedAt).
		Time("FinishedAt", refresh.FinishedAt)
}

// RecordRefresh appends the refresh to the refresh log
func (myWarehouse *Warehouse) RecordRefresh(ctx context.Context, refresh *Refresh) error {
	conn, err := myWarehouse.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if refresh.ID == uuid.Nil {
		refresh.ID = uuid.New()
	}

	_, err = conn.Exec(ctx, `INSERT INTO refresh_log (
		"id",
		"table_name",
		"num_rows",
		"status",
		"started_at",
		"finished_at"
	) VALUES (
		$1, $2, $3, $4, $5, $6
	)`, refresh.ID, refresh.TableName, refresh.NumRows, refresh.Status,
		refresh.StartedAt, refresh.FinishedAt)
	return err
}

// LastRefresh returns the most recent successful refresh, or nil when the
// summary has never been built
func (myWarehouse *Warehouse) LastRefresh(ctx context.Context) (*Refresh, error) {
	refresh := &Refresh{}
	err := pgxscan.Get(ctx, myWarehouse.Pool, refresh,
		`SELECT id, table_name, num_rows, status, started_at, finished_at
FROM refresh_log WHERE status = $1 ORDER BY finished_at DESC LIMIT 1`, RefreshSucceeded)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return refresh, nil
}
