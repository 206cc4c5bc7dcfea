// internal/syncer/save.go
package syncer

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"scm-collector/internal/database"
)

// SaveOutcome classifies the result of persisting one repository's sync state.
type SaveOutcome int

const (
	SaveOK SaveOutcome = iota
	// SaveRetryable leaves the repository stale until the next run.
	SaveRetryable
	// SaveFatal stops the current run.
	SaveFatal
)

func (o SaveOutcome) String() string {
	switch o {
	case SaveOK:
		return "saved"
	case SaveRetryable:
		return "retryable"
	case SaveFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

type SaveResult struct {
	Outcome SaveOutcome
	Err     error
}

// classifySave maps a store error to a SaveResult. Only a cancelled or
// expired context is fatal; every store-side failure is retried next run.
func classifySave(err error) SaveResult {
	switch {
	case err == nil:
		return SaveResult{Outcome: SaveOK}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return SaveResult{Outcome: SaveFatal, Err: err}
	default:
		return SaveResult{Outcome: SaveRetryable, Err: err}
	}
}

// saveRepository records the sync time and head revision of a repository.
func (s *Syncer) saveRepository(ctx context.Context, repoID int64, syncedAt time.Time, head string) SaveResult {
	_, err := s.db.UpdateRepositorySyncData(ctx, database.UpdateRepositorySyncDataParams{
		ID:               repoID,
		LastUpdateTime:   pgtype.Timestamptz{Time: syncedAt, Valid: true},
		LastUpdateCommit: head,
	})
	return classifySave(err)
}
