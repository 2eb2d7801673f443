package booking

import (
	"context"
	"errors"
	"fmt"

	"stolik/internal/models"
)

// TableReconciler applies add/delete deltas to an order's table list.
type TableReconciler struct {
	tables TableSource
}

// NewTableReconciler creates a reconciler over the given table source.
func NewTableReconciler(tables TableSource) *TableReconciler {
	return &TableReconciler{tables: tables}
}

// Apply returns a new table list with addIDs resolved and appended and
// deleteIDs removed. Adding an unknown table id fails with a
// table_not_found rejection before anything is applied, so the list is
// never partially updated. Deleting an id the order never had is a no-op:
// removal is idempotent. Ids already present are not added twice.
func (r *TableReconciler) Apply(
	ctx context.Context,
	current []models.Table,
	addIDs, deleteIDs []int64,
) ([]models.Table, error) {
	existing := make(map[int64]bool, len(current))
	for _, t := range current {
		existing[t.ID] = true
	}

	// Resolve every addition before touching the list.
	var added []models.Table
	for _, id := range addIDs {
		if existing[id] {
			continue
		}
		table, err := r.tables.FindTable(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, reject(KindTableNotFound, "table %d does not exist", id)
			}
			return nil, fmt.Errorf("find table %d: %w", id, err)
		}
		added = append(added, *table)
		existing[id] = true
	}

	remove := make(map[int64]bool, len(deleteIDs))
	for _, id := range deleteIDs {
		remove[id] = true
	}

	result := make([]models.Table, 0, len(current)+len(added))
	for _, t := range current {
		if remove[t.ID] {
			continue
		}
		result = append(result, t)
	}
	for _, t := range added {
		if remove[t.ID] {
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// ResolveTables maps ids to table records, failing with table_not_found on
// the first unknown id.
func (r *TableReconciler) ResolveTables(ctx context.Context, ids []int64) ([]models.Table, error) {
	tables := make([]models.Table, 0, len(ids))
	for _, id := range ids {
		table, err := r.tables.FindTable(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil, reject(KindTableNotFound, "table %d does not exist", id)
			}
			return nil, fmt.Errorf("find table %d: %w", id, err)
		}
		tables = append(tables, *table)
	}
	return tables, nil
}
