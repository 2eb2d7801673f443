package booking

import (
	"context"
	"time"

	"stolik/internal/models"
)

// ScheduleSource looks up schedule rows by day key (weekday name or exact
// date). The validation core only ever reads schedules.
type ScheduleSource interface {
	FindSchedulesByDay(ctx context.Context, day string) ([]models.Schedule, error)
}

// OrderSource returns orders scheduled on the given calendar date that
// touch any of the given tables. Implementations must include orders in
// every status that occupies a table (processing and confirmed).
type OrderSource interface {
	FindOrdersOnDate(ctx context.Context, date time.Time, tableIDs []int64) ([]models.Order, error)
}

// TableSource resolves table reference data. A missing id yields an error
// matching models.ErrNotFound.
type TableSource interface {
	FindTable(ctx context.Context, id int64) (*models.Table, error)
}
