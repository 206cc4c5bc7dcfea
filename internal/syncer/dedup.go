// internal/syncer/dedup.go
package syncer

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"scm-collector/internal/database"
	"scm-collector/internal/model"
)

// CommitDeduplicator checks fetched commits against what is already stored.
// Every check reads through to the store.
type CommitDeduplicator struct {
	db database.Querier
}

func NewCommitDeduplicator(db database.Querier) *CommitDeduplicator {
	return &CommitDeduplicator{db: db}
}

// IsNew reports whether no commit with revision is stored for the repository.
func (d *CommitDeduplicator) IsNew(ctx context.Context, repoID int64, revision string) (bool, error) {
	_, err := d.db.GetCommitByRevision(ctx, database.GetCommitByRevisionParams{
		CollectorItemID: repoID,
		Sha:             revision,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Filter returns the commits not yet stored, keeping their order.
// A revision listed twice in commits is only returned once.
func (d *CommitDeduplicator) Filter(ctx context.Context, repoID int64, commits []model.Commit) ([]model.Commit, error) {
	var fresh []model.Commit
	seen := make(map[string]struct{}, len(commits))
	for _, c := range commits {
		if _, dup := seen[c.SHA]; dup {
			continue
		}
		seen[c.SHA] = struct{}{}

		isNew, err := d.IsNew(ctx, repoID, c.SHA)
		if err != nil {
			return nil, err
		}
		if isNew {
			fresh = append(fresh, c)
		}
	}
	return fresh, nil
}
