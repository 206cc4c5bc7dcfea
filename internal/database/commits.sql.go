// internal/database/commits.sql.go
package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const commitColumns = `id, collector_item_id, sha, author_name, author_email, message, url, commit_date, created_at`

func scanCommit(row interface{ Scan(...any) error }) (Commit, error) {
	var i Commit
	err := row.Scan(
		&i.ID,
		&i.CollectorItemID,
		&i.Sha,
		&i.AuthorName,
		&i.AuthorEmail,
		&i.Message,
		&i.Url,
		&i.CommitDate,
		&i.CreatedAt,
	)
	return i, err
}

type CreateCommitsParams struct {
	CollectorItemID int64
	Sha             string
	AuthorName      string
	AuthorEmail     string
	Message         string
	Url             string
	CommitDate      time.Time
}

// CreateCommits bulk inserts commits with COPY.
func (q *Queries) CreateCommits(ctx context.Context, arg []CreateCommitsParams) (int64, error) {
	return q.db.CopyFrom(ctx,
		pgx.Identifier{"commits"},
		[]string{"collector_item_id", "sha", "author_name", "author_email", "message", "url", "commit_date"},
		pgx.CopyFromSlice(len(arg), func(i int) ([]any, error) {
			c := arg[i]
			return []any{c.CollectorItemID, c.Sha, c.AuthorName, c.AuthorEmail, c.Message, c.Url, c.CommitDate}, nil
		}),
	)
}

const getCommitByRevision = `-- name: GetCommitByRevision :one
SELECT ` + commitColumns + `
FROM commits
WHERE collector_item_id = $1 AND sha = $2`

type GetCommitByRevisionParams struct {
	CollectorItemID int64
	Sha             string
}

func (q *Queries) GetCommitByRevision(ctx context.Context, arg GetCommitByRevisionParams) (Commit, error) {
	return scanCommit(q.db.QueryRow(ctx, getCommitByRevision, arg.CollectorItemID, arg.Sha))
}

const getCommitsByRepoID = `-- name: GetCommitsByRepoID :many
SELECT ` + commitColumns + `
FROM commits
WHERE collector_item_id = $1
ORDER BY commit_date DESC`

func (q *Queries) GetCommitsByRepoID(ctx context.Context, collectorItemID int64) ([]Commit, error) {
	rows, err := q.db.Query(ctx, getCommitsByRepoID, collectorItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Commit
	for rows.Next() {
		i, err := scanCommit(rows)
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
