// internal/model/models.go
package model

import (
	"database/sql" // sql.NullTime is still useful for LastUpdateTime
	"time"
)

// CollectorTypeSCM is the collector type and the component collector-item category for source control.
const CollectorTypeSCM = "SCM"

// Option field names recognized on a tracked repository.
const (
	FieldRepoURL          = "url"
	FieldBranch           = "branch"
	FieldUserID           = "userID"
	FieldPassword         = "password"
	FieldLastUpdateTime   = "lastUpdate"
	FieldLastUpdateCommit = "lastUpdateCommit"
)

// PullRequestStateAll asks for open, closed and merged pull requests.
const PullRequestStateAll = "all"

// Repository is the view of a tracked repository handed to the SCM client.
type Repository struct {
	ID             int64
	URL            string
	Branch         string
	LastUpdateTime sql.NullTime
	// Branch head recorded by the last sync, empty if none was seen yet.
	LastUpdateCommit string
}

// Credentials authenticate against one configured SCM host.
// An empty Username means Password is an access token.
type Credentials struct {
	Username string
	Password string
}

type Commit struct {
	SHA         string
	AuthorName  string
	AuthorEmail string
	Message     string
	URL         string
	CommitDate  time.Time
}

type PullRequest struct {
	Number    int
	Title     string
	State     string
	Author    string
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
	MergedAt  sql.NullTime
	ClosedAt  sql.NullTime
}

// RunStats counts what a single sync run touched.
type RunStats struct {
	Repos        int `json:"repos"`
	Commits      int `json:"commits"`
	PullRequests int `json:"pull_requests"`
}

// RunReport is the signal emitted after every collector execution.
type RunReport struct {
	RunID       string        `json:"run_id"`
	CollectorID int64         `json:"collector_id"`
	Stats       RunStats      `json:"stats"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}
