// internal/syncer/store_test.go
package syncer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/mock"

	"scm-collector/internal/config"
	"scm-collector/internal/database"
	"scm-collector/internal/model"
)

// memStore is an in-memory database.Querier covering what a sync run touches.
// Methods it does not implement panic through the nil embedded interface.
type memStore struct {
	database.Querier

	collectors map[int64]database.Collector
	repos      map[int64]*database.Repository
	commits    []database.Commit
	pulls      map[[2]int64]database.UpsertPullRequestParams
	refs       []database.ListComponentCollectorItemsRow
	saveErrs   map[int64]error
}

func newMemStore() *memStore {
	return &memStore{
		collectors: map[int64]database.Collector{},
		repos:      map[int64]*database.Repository{},
		pulls:      map[[2]int64]database.UpsertPullRequestParams{},
		saveErrs:   map[int64]error{},
	}
}

// addRepo stores an enabled repository; referenced repositories also get a component reference.
func (m *memStore) addRepo(id, collectorID int64, url string, referenced bool) {
	m.repos[id] = &database.Repository{ID: id, CollectorID: collectorID, RepoUrl: url, Branch: "main", Enabled: true}
	if referenced {
		m.refs = append(m.refs, database.ListComponentCollectorItemsRow{
			ComponentID:     100 + id,
			CollectorItemID: id,
			CollectorID:     pgtype.Int8{Int64: collectorID, Valid: true},
		})
	}
}

func (m *memStore) sortedRepos(keep func(*database.Repository) bool) []database.Repository {
	var out []database.Repository
	for _, r := range m.repos {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) GetCollector(_ context.Context, id int64) (database.Collector, error) {
	c, ok := m.collectors[id]
	if !ok {
		return database.Collector{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *memStore) UpdateCollectorLastExecuted(_ context.Context, arg database.UpdateCollectorLastExecutedParams) error {
	c := m.collectors[arg.ID]
	c.LastExecuted = arg.LastExecuted
	m.collectors[arg.ID] = c
	return nil
}

func (m *memStore) ListComponentCollectorItems(_ context.Context, category string) ([]database.ListComponentCollectorItemsRow, error) {
	if category != model.CollectorTypeSCM {
		return nil, nil
	}
	return m.refs, nil
}

func (m *memStore) ListRepositoriesByCollectorIDs(_ context.Context, ids []int64) ([]database.Repository, error) {
	return m.sortedRepos(func(r *database.Repository) bool {
		for _, id := range ids {
			if r.CollectorID == id {
				return true
			}
		}
		return false
	}), nil
}

func (m *memStore) ListEnabledRepositories(_ context.Context, collectorID int64) ([]database.Repository, error) {
	return m.sortedRepos(func(r *database.Repository) bool {
		return r.CollectorID == collectorID && r.Enabled
	}), nil
}

func (m *memStore) SetRepositoriesEnabled(_ context.Context, arg []database.SetRepositoriesEnabledParams) error {
	for _, a := range arg {
		m.repos[a.ID].Enabled = a.Enabled
	}
	return nil
}

func (m *memStore) GetCommitByRevision(_ context.Context, arg database.GetCommitByRevisionParams) (database.Commit, error) {
	for _, c := range m.commits {
		if c.CollectorItemID == arg.CollectorItemID && c.Sha == arg.Sha {
			return c, nil
		}
	}
	return database.Commit{}, pgx.ErrNoRows
}

func (m *memStore) CreateCommits(ctx context.Context, arg []database.CreateCommitsParams) (int64, error) {
	for _, p := range arg {
		if _, err := m.GetCommitByRevision(ctx, database.GetCommitByRevisionParams{CollectorItemID: p.CollectorItemID, Sha: p.Sha}); err == nil {
			return 0, fmt.Errorf("duplicate key value violates unique constraint: (%d, %s)", p.CollectorItemID, p.Sha)
		}
		m.commits = append(m.commits, database.Commit{
			ID:              int64(len(m.commits) + 1),
			CollectorItemID: p.CollectorItemID,
			Sha:             p.Sha,
			Message:         p.Message,
			CommitDate:      p.CommitDate,
		})
	}
	return int64(len(arg)), nil
}

func (m *memStore) UpsertPullRequest(_ context.Context, arg database.UpsertPullRequestParams) (bool, error) {
	key := [2]int64{arg.CollectorItemID, int64(arg.Number)}
	_, exists := m.pulls[key]
	m.pulls[key] = arg
	return !exists, nil
}

func (m *memStore) UpdateRepositorySyncData(_ context.Context, arg database.UpdateRepositorySyncDataParams) (database.Repository, error) {
	if err := m.saveErrs[arg.ID]; err != nil {
		return database.Repository{}, err
	}
	r := m.repos[arg.ID]
	r.LastUpdateTime = arg.LastUpdateTime
	r.LastUpdateCommit = arg.LastUpdateCommit
	return *r, nil
}

// MockSCMClient is a mock of the SCMClient interface.
type MockSCMClient struct {
	mock.Mock
}

func (m *MockSCMClient) FetchCommits(ctx context.Context, repo model.Repository, firstRun bool, creds model.Credentials) ([]model.Commit, error) {
	args := m.Called(ctx, repo, firstRun, creds)
	return args.Get(0).([]model.Commit), args.Error(1)
}

func (m *MockSCMClient) FetchPullRequests(ctx context.Context, repo model.Repository, state string, creds model.Credentials) ([]model.PullRequest, error) {
	args := m.Called(ctx, repo, state, creds)
	return args.Get(0).([]model.PullRequest), args.Error(1)
}

func repoWithID(id int64) interface{} {
	return mock.MatchedBy(func(r model.Repository) bool { return r.ID == id })
}

var testNow = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestSyncer(t *testing.T, db database.Querier, scm SCMClient, hosts ...config.SCMHost) *Syncer {
	t.Helper()
	s := NewSyncer(db, scm, testLogger(), hosts)
	s.now = func() time.Time { return testNow }
	return s
}
