// internal/database/mocks/querier.go

// Package mocks holds a testify mock of database.Querier.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"scm-collector/internal/database"
)

// MockQuerier is a mock of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

var _ database.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) AddComponentCollectorItem(ctx context.Context, arg database.AddComponentCollectorItemParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) CreateCollector(ctx context.Context, arg database.CreateCollectorParams) (database.Collector, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Collector), args.Error(1)
}
func (m *MockQuerier) CreateCommits(ctx context.Context, arg []database.CreateCommitsParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) CreateComponent(ctx context.Context, name string) (database.Component, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(database.Component), args.Error(1)
}
func (m *MockQuerier) GetCollector(ctx context.Context, id int64) (database.Collector, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Collector), args.Error(1)
}
func (m *MockQuerier) GetCollectorByName(ctx context.Context, name string) (database.Collector, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(database.Collector), args.Error(1)
}
func (m *MockQuerier) GetCommitByRevision(ctx context.Context, arg database.GetCommitByRevisionParams) (database.Commit, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Commit), args.Error(1)
}
func (m *MockQuerier) GetCommitsByRepoID(ctx context.Context, collectorItemID int64) ([]database.Commit, error) {
	args := m.Called(ctx, collectorItemID)
	return args.Get(0).([]database.Commit), args.Error(1)
}
func (m *MockQuerier) GetPullRequestsByRepoID(ctx context.Context, collectorItemID int64) ([]database.PullRequest, error) {
	args := m.Called(ctx, collectorItemID)
	return args.Get(0).([]database.PullRequest), args.Error(1)
}
func (m *MockQuerier) GetRepository(ctx context.Context, id int64) (database.Repository, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) ListComponentCollectorItems(ctx context.Context, category string) ([]database.ListComponentCollectorItemsRow, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]database.ListComponentCollectorItemsRow), args.Error(1)
}
func (m *MockQuerier) ListEnabledRepositories(ctx context.Context, collectorID int64) ([]database.Repository, error) {
	args := m.Called(ctx, collectorID)
	return args.Get(0).([]database.Repository), args.Error(1)
}
func (m *MockQuerier) ListRepositoriesByCollectorIDs(ctx context.Context, collectorIds []int64) ([]database.Repository, error) {
	args := m.Called(ctx, collectorIds)
	return args.Get(0).([]database.Repository), args.Error(1)
}
func (m *MockQuerier) SetRepositoriesEnabled(ctx context.Context, arg []database.SetRepositoriesEnabledParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) UpdateCollectorLastExecuted(ctx context.Context, arg database.UpdateCollectorLastExecutedParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) UpdateRepositorySyncData(ctx context.Context, arg database.UpdateRepositorySyncDataParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}
func (m *MockQuerier) UpsertPullRequest(ctx context.Context, arg database.UpsertPullRequestParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}
func (m *MockQuerier) UpsertRepository(ctx context.Context, arg database.UpsertRepositoryParams) (database.Repository, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.Repository), args.Error(1)
}
