// internal/syncer/cleanup.go
package syncer

import (
	"context"
	"fmt"
	"log/slog"

	"scm-collector/internal/database"
	"scm-collector/internal/model"
)

// Reconciler keeps a collector's repositories enabled exactly while some
// component references them as an SCM collector item.
type Reconciler struct {
	db     database.Querier
	logger *slog.Logger
}

func NewReconciler(db database.Querier, logger *slog.Logger) *Reconciler {
	return &Reconciler{db: db, logger: logger}
}

// Reconcile updates the enabled flag of every repository owned by collector
// and persists them in one batch. References to items that no longer exist
// or belong to another collector are ignored.
func (r *Reconciler) Reconcile(ctx context.Context, collector database.Collector) error {
	refs, err := r.db.ListComponentCollectorItems(ctx, model.CollectorTypeSCM)
	if err != nil {
		return fmt.Errorf("failed to list component collector items: %w", err)
	}

	inUse := make(map[int64]struct{}, len(refs))
	for _, ref := range refs {
		if !ref.CollectorID.Valid || ref.CollectorID.Int64 != collector.ID {
			continue
		}
		inUse[ref.CollectorItemID] = struct{}{}
	}

	repos, err := r.db.ListRepositoriesByCollectorIDs(ctx, []int64{collector.ID})
	if err != nil {
		return fmt.Errorf("failed to list repositories: %w", err)
	}

	updates := make([]database.SetRepositoriesEnabledParams, 0, len(repos))
	var enabled int
	for _, repo := range repos {
		_, ok := inUse[repo.ID]
		if ok {
			enabled++
		}
		updates = append(updates, database.SetRepositoriesEnabledParams{ID: repo.ID, Enabled: ok})
	}

	if err := r.db.SetRepositoriesEnabled(ctx, updates); err != nil {
		return fmt.Errorf("failed to save repository flags: %w", err)
	}

	r.logger.Info("Cleaned up repositories",
		"collector_id", collector.ID,
		"enabled", enabled,
		"disabled", len(updates)-enabled)
	return nil
}
