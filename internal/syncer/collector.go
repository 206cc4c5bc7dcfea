// internal/syncer/collector.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"scm-collector/internal/database"
	"scm-collector/internal/model"
)

// collectorPrototype describes the collector registered on first start.
func collectorPrototype(name string, now time.Time) database.CreateCollectorParams {
	return database.CreateCollectorParams{
		Name:          name,
		CollectorType: model.CollectorTypeSCM,
		Online:        true,
		Enabled:       true,
		AllFields: map[string]any{
			model.FieldRepoURL:          "",
			model.FieldBranch:           "",
			model.FieldUserID:           "",
			model.FieldPassword:         "",
			model.FieldLastUpdateTime:   now.UnixMilli(),
			model.FieldLastUpdateCommit: "",
		},
		UniqueFields: map[string]any{
			model.FieldRepoURL: "",
			model.FieldBranch:  "",
		},
	}
}

// RegisterCollector returns the collector with the given name, creating it if needed.
func RegisterCollector(ctx context.Context, db database.Querier, logger *slog.Logger, name string) (database.Collector, error) {
	existing, err := db.GetCollectorByName(ctx, name)
	if err == nil {
		logger.Info("Collector found in DB", "collector_id", existing.ID, "name", name)
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return database.Collector{}, err
	}

	logger.Info("Collector not found in DB, creating new entry", "name", name)
	return db.CreateCollector(ctx, collectorPrototype(name, time.Now()))
}

// ReportPublisher receives the report of every executed run.
type ReportPublisher interface {
	PublishRun(ctx context.Context, report model.RunReport) error
}

// Task is one scheduled execution of the collector.
type Task struct {
	db          database.Querier
	syncer      *Syncer
	publisher   ReportPublisher
	logger      *slog.Logger
	collectorID int64
	now         func() time.Time
}

// NewTask creates a Task. publisher may be nil.
func NewTask(db database.Querier, s *Syncer, publisher ReportPublisher, logger *slog.Logger, collectorID int64) *Task {
	return &Task{
		db:          db,
		syncer:      s,
		publisher:   publisher,
		logger:      logger,
		collectorID: collectorID,
		now:         time.Now,
	}
}

// Execute reloads the collector and, when it is enabled, runs a full sync,
// records the execution time and publishes the run report.
func (t *Task) Execute(ctx context.Context) error {
	report := model.RunReport{
		RunID:       uuid.NewString(),
		CollectorID: t.collectorID,
		StartedAt:   t.now(),
	}
	logger := t.logger.With("run_id", report.RunID, "collector_id", t.collectorID)

	collector, err := t.db.GetCollector(ctx, t.collectorID)
	if err != nil {
		return fmt.Errorf("failed to load collector %d: %w", t.collectorID, err)
	}
	if !collector.Enabled {
		logger.Info("Collector is disabled, skipping run")
		return nil
	}

	stats, runErr := t.syncer.Run(ctx, collector)
	report.Stats = stats
	report.Duration = t.now().Sub(report.StartedAt)

	if runErr != nil {
		report.Error = runErr.Error()
	} else {
		err := t.db.UpdateCollectorLastExecuted(ctx, database.UpdateCollectorLastExecutedParams{
			ID:           collector.ID,
			LastExecuted: pgtype.Timestamptz{Time: report.StartedAt, Valid: true},
		})
		if err != nil {
			logger.Error("Failed to record collector execution time", "error", err)
		}
	}

	if t.publisher != nil {
		if err := t.publisher.PublishRun(ctx, report); err != nil {
			logger.Warn("Failed to publish run report", "error", err)
		}
	}
	return runErr
}
