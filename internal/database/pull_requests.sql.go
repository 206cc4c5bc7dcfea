// internal/database/pull_requests.sql.go
package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertPullRequest = `-- name: UpsertPullRequest :one
INSERT INTO pull_requests (
    collector_item_id, number, title, state, author, url,
    pr_created_at, pr_updated_at, merged_at, closed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (collector_item_id, number) DO UPDATE SET
    title = EXCLUDED.title,
    state = EXCLUDED.state,
    pr_updated_at = EXCLUDED.pr_updated_at,
    merged_at = EXCLUDED.merged_at,
    closed_at = EXCLUDED.closed_at
RETURNING (xmax = 0) AS inserted`

type UpsertPullRequestParams struct {
	CollectorItemID int64
	Number          int32
	Title           string
	State           string
	Author          string
	Url             string
	PrCreatedAt     time.Time
	PrUpdatedAt     time.Time
	MergedAt        pgtype.Timestamptz
	ClosedAt        pgtype.Timestamptz
}

// UpsertPullRequest reports whether the pull request was seen for the first time.
func (q *Queries) UpsertPullRequest(ctx context.Context, arg UpsertPullRequestParams) (bool, error) {
	row := q.db.QueryRow(ctx, upsertPullRequest,
		arg.CollectorItemID,
		arg.Number,
		arg.Title,
		arg.State,
		arg.Author,
		arg.Url,
		arg.PrCreatedAt,
		arg.PrUpdatedAt,
		arg.MergedAt,
		arg.ClosedAt,
	)
	var inserted bool
	err := row.Scan(&inserted)
	return inserted, err
}

const getPullRequestsByRepoID = `-- name: GetPullRequestsByRepoID :many
SELECT id, collector_item_id, number, title, state, author, url, pr_created_at, pr_updated_at, merged_at, closed_at
FROM pull_requests
WHERE collector_item_id = $1
ORDER BY pr_updated_at DESC`

func (q *Queries) GetPullRequestsByRepoID(ctx context.Context, collectorItemID int64) ([]PullRequest, error) {
	rows, err := q.db.Query(ctx, getPullRequestsByRepoID, collectorItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PullRequest
	for rows.Next() {
		var i PullRequest
		if err := rows.Scan(
			&i.ID,
			&i.CollectorItemID,
			&i.Number,
			&i.Title,
			&i.State,
			&i.Author,
			&i.Url,
			&i.PrCreatedAt,
			&i.PrUpdatedAt,
			&i.MergedAt,
			&i.ClosedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
