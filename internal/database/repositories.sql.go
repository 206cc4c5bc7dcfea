// internal/database/repositories.sql.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const repositoryColumns = `id, collector_id, repo_url, branch, enabled, last_update_time, last_update_commit, created_at`

func scanRepository(row interface{ Scan(...any) error }) (Repository, error) {
	var i Repository
	err := row.Scan(
		&i.ID,
		&i.CollectorID,
		&i.RepoUrl,
		&i.Branch,
		&i.Enabled,
		&i.LastUpdateTime,
		&i.LastUpdateCommit,
		&i.CreatedAt,
	)
	return i, err
}

func collectRepositories(rows pgx.Rows, err error) ([]Repository, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Repository
	for rows.Next() {
		i, err := scanRepository(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRepository = `-- name: GetRepository :one
SELECT ` + repositoryColumns + ` FROM collector_items WHERE id = $1`

func (q *Queries) GetRepository(ctx context.Context, id int64) (Repository, error) {
	return scanRepository(q.db.QueryRow(ctx, getRepository, id))
}

const listEnabledRepositories = `-- name: ListEnabledRepositories :many
SELECT ` + repositoryColumns + `
FROM collector_items
WHERE collector_id = $1 AND enabled
ORDER BY id`

func (q *Queries) ListEnabledRepositories(ctx context.Context, collectorID int64) ([]Repository, error) {
	return collectRepositories(q.db.Query(ctx, listEnabledRepositories, collectorID))
}

const listRepositoriesByCollectorIDs = `-- name: ListRepositoriesByCollectorIDs :many
SELECT ` + repositoryColumns + `
FROM collector_items
WHERE collector_id = ANY($1::bigint[])
ORDER BY id`

func (q *Queries) ListRepositoriesByCollectorIDs(ctx context.Context, collectorIds []int64) ([]Repository, error) {
	return collectRepositories(q.db.Query(ctx, listRepositoriesByCollectorIDs, collectorIds))
}

const setRepositoryEnabled = `-- name: SetRepositoriesEnabled :batchexec
UPDATE collector_items SET enabled = $2 WHERE id = $1`

type SetRepositoriesEnabledParams struct {
	ID      int64
	Enabled bool
}

// SetRepositoriesEnabled writes every enabled flag in a single round trip.
func (q *Queries) SetRepositoriesEnabled(ctx context.Context, arg []SetRepositoriesEnabledParams) error {
	if len(arg) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range arg {
		batch.Queue(setRepositoryEnabled, a.ID, a.Enabled)
	}
	br := q.db.SendBatch(ctx, batch)
	for range arg {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}

const updateRepositorySyncData = `-- name: UpdateRepositorySyncData :one
UPDATE collector_items
SET last_update_time = $2, last_update_commit = $3
WHERE id = $1
RETURNING ` + repositoryColumns

type UpdateRepositorySyncDataParams struct {
	ID               int64
	LastUpdateTime   pgtype.Timestamptz
	LastUpdateCommit string
}

func (q *Queries) UpdateRepositorySyncData(ctx context.Context, arg UpdateRepositorySyncDataParams) (Repository, error) {
	row := q.db.QueryRow(ctx, updateRepositorySyncData, arg.ID, arg.LastUpdateTime, arg.LastUpdateCommit)
	return scanRepository(row)
}

const upsertRepository = `-- name: UpsertRepository :one
INSERT INTO collector_items (collector_id, repo_url, branch)
VALUES ($1, $2, $3)
ON CONFLICT (collector_id, repo_url, branch) DO UPDATE SET repo_url = EXCLUDED.repo_url
RETURNING ` + repositoryColumns

type UpsertRepositoryParams struct {
	CollectorID int64
	RepoUrl     string
	Branch      string
}

func (q *Queries) UpsertRepository(ctx context.Context, arg UpsertRepositoryParams) (Repository, error) {
	row := q.db.QueryRow(ctx, upsertRepository, arg.CollectorID, arg.RepoUrl, arg.Branch)
	return scanRepository(row)
}
