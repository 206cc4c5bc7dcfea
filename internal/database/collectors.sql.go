// internal/database/collectors.sql.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const collectorColumns = `id, name, collector_type, online, enabled, last_executed, all_fields, unique_fields, created_at`

func scanCollector(row interface{ Scan(...any) error }) (Collector, error) {
	var i Collector
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CollectorType,
		&i.Online,
		&i.Enabled,
		&i.LastExecuted,
		&i.AllFields,
		&i.UniqueFields,
		&i.CreatedAt,
	)
	return i, err
}

const createCollector = `-- name: CreateCollector :one
INSERT INTO collectors (name, collector_type, online, enabled, all_fields, unique_fields)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + collectorColumns

type CreateCollectorParams struct {
	Name          string
	CollectorType string
	Online        bool
	Enabled       bool
	AllFields     map[string]any
	UniqueFields  map[string]any
}

func (q *Queries) CreateCollector(ctx context.Context, arg CreateCollectorParams) (Collector, error) {
	row := q.db.QueryRow(ctx, createCollector,
		arg.Name,
		arg.CollectorType,
		arg.Online,
		arg.Enabled,
		arg.AllFields,
		arg.UniqueFields,
	)
	return scanCollector(row)
}

const getCollector = `-- name: GetCollector :one
SELECT ` + collectorColumns + ` FROM collectors WHERE id = $1`

func (q *Queries) GetCollector(ctx context.Context, id int64) (Collector, error) {
	return scanCollector(q.db.QueryRow(ctx, getCollector, id))
}

const getCollectorByName = `-- name: GetCollectorByName :one
SELECT ` + collectorColumns + ` FROM collectors WHERE name = $1`

func (q *Queries) GetCollectorByName(ctx context.Context, name string) (Collector, error) {
	return scanCollector(q.db.QueryRow(ctx, getCollectorByName, name))
}

const updateCollectorLastExecuted = `-- name: UpdateCollectorLastExecuted :exec
UPDATE collectors SET last_executed = $2, online = TRUE WHERE id = $1`

type UpdateCollectorLastExecutedParams struct {
	ID           int64
	LastExecuted pgtype.Timestamptz
}

func (q *Queries) UpdateCollectorLastExecuted(ctx context.Context, arg UpdateCollectorLastExecutedParams) error {
	_, err := q.db.Exec(ctx, updateCollectorLastExecuted, arg.ID, arg.LastExecuted)
	return err
}
