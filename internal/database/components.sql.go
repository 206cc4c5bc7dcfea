// internal/database/components.sql.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createComponent = `-- name: CreateComponent :one
INSERT INTO components (name) VALUES ($1)
RETURNING id, name, created_at`

func (q *Queries) CreateComponent(ctx context.Context, name string) (Component, error) {
	row := q.db.QueryRow(ctx, createComponent, name)
	var i Component
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const addComponentCollectorItem = `-- name: AddComponentCollectorItem :exec
INSERT INTO component_collector_items (component_id, category, collector_item_id)
VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING`

type AddComponentCollectorItemParams struct {
	ComponentID     int64
	Category        string
	CollectorItemID int64
}

func (q *Queries) AddComponentCollectorItem(ctx context.Context, arg AddComponentCollectorItemParams) error {
	_, err := q.db.Exec(ctx, addComponentCollectorItem, arg.ComponentID, arg.Category, arg.CollectorItemID)
	return err
}

const listComponentCollectorItems = `-- name: ListComponentCollectorItems :many
SELECT cci.component_id, cci.collector_item_id, ci.collector_id
FROM component_collector_items cci
LEFT JOIN collector_items ci ON ci.id = cci.collector_item_id
WHERE cci.category = $1`

type ListComponentCollectorItemsRow struct {
	ComponentID     int64
	CollectorItemID int64
	// CollectorID is NULL when the referenced item does not exist.
	CollectorID pgtype.Int8
}

func (q *Queries) ListComponentCollectorItems(ctx context.Context, category string) ([]ListComponentCollectorItemsRow, error) {
	rows, err := q.db.Query(ctx, listComponentCollectorItems, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListComponentCollectorItemsRow
	for rows.Next() {
		var i ListComponentCollectorItemsRow
		if err := rows.Scan(&i.ComponentID, &i.CollectorItemID, &i.CollectorID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
