// internal/database/models.go
package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type Collector struct {
	ID            int64
	Name          string
	CollectorType string
	Online        bool
	Enabled       bool
	LastExecuted  pgtype.Timestamptz
	AllFields     map[string]any
	UniqueFields  map[string]any
	CreatedAt     time.Time
}

// Repository is a row of collector_items: one tracked repository and branch.
type Repository struct {
	ID               int64
	CollectorID      int64
	RepoUrl          string
	Branch           string
	Enabled          bool
	LastUpdateTime   pgtype.Timestamptz
	LastUpdateCommit string
	CreatedAt        time.Time
}

type Commit struct {
	ID              int64
	CollectorItemID int64
	Sha             string
	AuthorName      string
	AuthorEmail     string
	Message         string
	Url             string
	CommitDate      time.Time
	CreatedAt       time.Time
}

type PullRequest struct {
	ID              int64
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

type Component struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
