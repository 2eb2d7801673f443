package booking

import (
	"context"
	"fmt"
	"sort"

	"stolik/internal/models"
)

// AvailabilityChecker decides whether a proposed time range collides with
// existing orders on the same tables.
type AvailabilityChecker struct {
	orders OrderSource
}

// NewAvailabilityChecker creates a checker over the given order source.
func NewAvailabilityChecker(orders OrderSource) *AvailabilityChecker {
	return &AvailabilityChecker{orders: orders}
}

// ConflictingTables returns the sorted ids of requested tables whose
// existing orders overlap proposed under the closed-interval policy.
// excludeOrderID skips the order being patched so it does not conflict
// with its own prior interval; pass 0 for create requests.
//
// An empty result means every requested table is free.
func (c *AvailabilityChecker) ConflictingTables(
	ctx context.Context,
	proposed models.TimeRange,
	tableIDs []int64,
	excludeOrderID int64,
) ([]int64, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}

	existing, err := c.orders.FindOrdersOnDate(ctx, proposed.Start, tableIDs)
	if err != nil {
		return nil, fmt.Errorf("find orders on %s: %w", proposed.Start.Format(models.DayFormat), err)
	}

	requested := make(map[int64]bool, len(tableIDs))
	for _, id := range tableIDs {
		requested[id] = true
	}

	busy := make(map[int64]bool)
	for i := range existing {
		order := &existing[i]
		if excludeOrderID != 0 && order.ID == excludeOrderID {
			continue
		}
		if !proposed.Overlaps(order.Range()) {
			continue
		}
		for _, id := range order.TableIDs() {
			if requested[id] {
				busy[id] = true
			}
		}
	}

	if len(busy) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(busy))
	for id := range busy {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
