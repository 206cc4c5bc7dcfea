// internal/database/querier.go
package database

import (
	"context"
)

type Querier interface {
	AddComponentCollectorItem(ctx context.Context, arg AddComponentCollectorItemParams) error
	CreateCollector(ctx context.Context, arg CreateCollectorParams) (Collector, error)
	CreateCommits(ctx context.Context, arg []CreateCommitsParams) (int64, error)
	CreateComponent(ctx context.Context, name string) (Component, error)
	GetCollector(ctx context.Context, id int64) (Collector, error)
	GetCollectorByName(ctx context.Context, name string) (Collector, error)
	GetCommitByRevision(ctx context.Context, arg GetCommitByRevisionParams) (Commit, error)
	GetCommitsByRepoID(ctx context.Context, collectorItemID int64) ([]Commit, error)
	GetPullRequestsByRepoID(ctx context.Context, collectorItemID int64) ([]PullRequest, error)
	GetRepository(ctx context.Context, id int64) (Repository, error)
	ListComponentCollectorItems(ctx context.Context, category string) ([]ListComponentCollectorItemsRow, error)
	ListEnabledRepositories(ctx context.Context, collectorID int64) ([]Repository, error)
	ListRepositoriesByCollectorIDs(ctx context.Context, collectorIds []int64) ([]Repository, error)
	SetRepositoriesEnabled(ctx context.Context, arg []SetRepositoriesEnabledParams) error
	UpdateCollectorLastExecuted(ctx context.Context, arg UpdateCollectorLastExecutedParams) error
	UpdateRepositorySyncData(ctx context.Context, arg UpdateRepositorySyncDataParams) (Repository, error)
	UpsertPullRequest(ctx context.Context, arg UpsertPullRequestParams) (bool, error)
	UpsertRepository(ctx context.Context, arg UpsertRepositoryParams) (Repository, error)
}

var _ Querier = (*Queries)(nil)
