// internal/database/mocks/store.go
package mocks

import (
	"context"

	"scm-collector/internal/database"
)

// MockStore is a mock of the database.Store interface. ExecTx runs fn
// against the mock itself once its own expectation is met.
type MockStore struct {
	MockQuerier
}

var _ database.Store = (*MockStore)(nil)

func (m *MockStore) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}
