// internal/syncer/syncer.go
package syncer

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"scm-collector/internal/config"
	"scm-collector/internal/database"
	custom_errors "scm-collector/internal/errors"
	"scm-collector/internal/model"
	"scm-collector/internal/repourl"
)

// SCMClient fetches history from a source control host.
// FetchCommits must return commits most recent first.
type SCMClient interface {
	FetchCommits(ctx context.Context, repo model.Repository, firstRun bool, creds model.Credentials) ([]model.Commit, error)
	FetchPullRequests(ctx context.Context, repo model.Repository, state string, creds model.Credentials) ([]model.PullRequest, error)
}

// Syncer orchestrates the fetching and storing of data.
type Syncer struct {
	db         database.Querier
	scm        SCMClient
	logger     *slog.Logger
	hosts      []config.SCMHost
	reconciler *Reconciler
	dedup      *CommitDeduplicator
	now        func() time.Time
}

// NewSyncer creates a new Syncer instance.
func NewSyncer(db database.Querier, scm SCMClient, logger *slog.Logger, hosts []config.SCMHost) *Syncer {
	return &Syncer{
		db:         db,
		scm:        scm,
		logger:     logger,
		hosts:      hosts,
		reconciler: NewReconciler(db, logger),
		dedup:      NewCommitDeduplicator(db),
		now:        time.Now,
	}
}

// Run performs one synchronization pass for the collector: cleanup first, then
// every configured host against the enabled repositories that live on it.
// Transport and store errors outside the per-repository save abort the run;
// whatever was persisted before the failure is kept.
func (s *Syncer) Run(ctx context.Context, collector database.Collector) (model.RunStats, error) {
	var stats model.RunStats
	start := s.now()
	logger := s.logger.With("collector_id", collector.ID)
	logger.Info("Starting sync run", "hosts", len(s.hosts))

	if err := s.reconciler.Reconcile(ctx, collector); err != nil {
		return stats, fmt.Errorf("failed to clean up repositories: %w", err)
	}

	for _, host := range s.hosts {
		hostLogger := logger.With("host", host.URL)
		hostLogger.Debug("Processing host")

		creds, err := decodeCredentials(host)
		if err != nil {
			hostLogger.Error("Skipping host", "error", err)
			continue
		}

		repos, err := s.db.ListEnabledRepositories(ctx, collector.ID)
		if err != nil {
			return stats, fmt.Errorf("failed to list enabled repositories: %w", err)
		}

		for _, repo := range repos {
			if !repourl.MatchesHost(repo.RepoUrl, host.URL) {
				continue
			}
			repoStats, err := s.syncRepo(ctx, hostLogger, repo, creds)
			stats.Repos += repoStats.Repos
			stats.Commits += repoStats.Commits
			stats.PullRequests += repoStats.PullRequests
			if err != nil {
				return stats, err
			}
		}

		elapsed := s.now().Sub(start).String()
		hostLogger.Info("Repo Count", "count", stats.Repos, "elapsed", elapsed)
		hostLogger.Info("New Commits", "count", stats.Commits, "elapsed", elapsed)
	}

	logger.Info("Finished",
		"repos", stats.Repos,
		"commits", stats.Commits,
		"pull_requests", stats.PullRequests,
		"elapsed", s.now().Sub(start).String())
	return stats, nil
}

// syncRepo handles the full synchronization logic for a single repository.
func (s *Syncer) syncRepo(ctx context.Context, logger *slog.Logger, repo database.Repository, creds model.Credentials) (model.RunStats, error) {
	var stats model.RunStats
	logger = logger.With("repo_id", repo.ID, "url", repo.RepoUrl, "branch", repo.Branch)

	firstRun := !repo.LastUpdateTime.Valid
	target := toModelRepository(repo)
	logger.Debug("Syncing repository", "first_run", firstRun)

	commits, err := s.scm.FetchCommits(ctx, target, firstRun, creds)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch commits for %s: %w", repo.RepoUrl, err)
	}

	newCommits, err := s.dedup.Filter(ctx, repo.ID, commits)
	if err != nil {
		return stats, fmt.Errorf("failed to check commits for %s: %w", repo.RepoUrl, err)
	}
	if len(newCommits) > 0 {
		n, err := s.db.CreateCommits(ctx, prepareCommitBulkInsert(repo.ID, newCommits))
		if err != nil {
			return stats, fmt.Errorf("failed to insert commits for %s: %w", repo.RepoUrl, err)
		}
		logger.Info("Inserted new commits", "count", n)
	}
	stats.Commits = len(newCommits)

	head := repo.LastUpdateCommit
	if len(commits) > 0 {
		head = commits[0].SHA
	}

	pulls, err := s.collectPullRequests(ctx, repo.ID, target, creds)
	stats.PullRequests = pulls
	if err != nil {
		return stats, fmt.Errorf("failed to collect pull requests for %s: %w", repo.RepoUrl, err)
	}

	res := s.saveRepository(ctx, repo.ID, s.now(), head)
	switch res.Outcome {
	case SaveFatal:
		return stats, fmt.Errorf("failed to save repository %s: %w", repo.RepoUrl, res.Err)
	case SaveRetryable:
		logger.Warn("Failed to save repository, it will be retried next run", "error", res.Err)
	}
	stats.Repos = 1
	return stats, nil
}

// collectPullRequests stores every fetched pull request and returns how many were new.
func (s *Syncer) collectPullRequests(ctx context.Context, repoID int64, target model.Repository, creds model.Credentials) (int, error) {
	pulls, err := s.scm.FetchPullRequests(ctx, target, model.PullRequestStateAll, creds)
	if err != nil {
		return 0, err
	}

	var created int
	for _, pr := range pulls {
		inserted, err := s.db.UpsertPullRequest(ctx, database.UpsertPullRequestParams{
			CollectorItemID: repoID,
			Number:          int32(pr.Number),
			Title:           pr.Title,
			State:           pr.State,
			Author:          pr.Author,
			Url:             pr.URL,
			PrCreatedAt:     pr.CreatedAt,
			PrUpdatedAt:     pr.UpdatedAt,
			MergedAt:        toTimestamptz(pr.MergedAt),
			ClosedAt:        toTimestamptz(pr.ClosedAt),
		})
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	return created, nil
}

func decodeCredentials(host config.SCMHost) (model.Credentials, error) {
	password, err := base64.StdEncoding.DecodeString(host.Password)
	if err != nil {
		return model.Credentials{}, &custom_errors.ErrCredentialDecode{Host: host.URL, Err: err}
	}
	return model.Credentials{Username: host.Username, Password: string(password)}, nil
}

func toModelRepository(r database.Repository) model.Repository {
	return model.Repository{
		ID:     r.ID,
		URL:    r.RepoUrl,
		Branch: r.Branch,
		LastUpdateTime: sql.NullTime{
			Time:  r.LastUpdateTime.Time,
			Valid: r.LastUpdateTime.Valid,
		},
		LastUpdateCommit: r.LastUpdateCommit,
	}
}

func prepareCommitBulkInsert(repoID int64, commits []model.Commit) []database.CreateCommitsParams {
	params := make([]database.CreateCommitsParams, len(commits))
	for i, c := range commits {
		params[i] = database.CreateCommitsParams{
			CollectorItemID: repoID,
			Sha:             c.SHA,
			AuthorName:      c.AuthorName,
			AuthorEmail:     c.AuthorEmail,
			Message:         c.Message,
			Url:             c.URL,
			CommitDate:      c.CommitDate,
		}
	}
	return params
}

func toTimestamptz(t sql.NullTime) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t.Time, Valid: t.Valid}
}
