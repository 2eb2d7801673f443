package booking

import (
	"context"
	"fmt"
	"time"

	"stolik/internal/models"
)

// memStore is an in-memory stand-in for the database layer used across the
// booking tests. It implements ScheduleSource, OrderSource and TableSource.
type memStore struct {
	schedules []models.Schedule
	orders    []models.Order
	tables    map[int64]models.Table

	scheduleErr error
	orderErr    error
}

func newMemStore() *memStore {
	return &memStore{tables: make(map[int64]models.Table)}
}

func (m *memStore) FindSchedulesByDay(_ context.Context, day string) ([]models.Schedule, error) {
	if m.scheduleErr != nil {
		return nil, m.scheduleErr
	}
	var out []models.Schedule
	for _, s := range m.schedules {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) FindOrdersOnDate(_ context.Context, date time.Time, tableIDs []int64) ([]models.Order, error) {
	if m.orderErr != nil {
		return nil, m.orderErr
	}
	wanted := make(map[int64]bool, len(tableIDs))
	for _, id := range tableIDs {
		wanted[id] = true
	}
	var out []models.Order
	for _, o := range m.orders {
		oy, om, od := o.StartDatetime.Date()
		dy, dm, dd := date.Date()
		if oy != dy || om != dm || od != dd {
			continue
		}
		for _, id := range o.TableIDs() {
			if wanted[id] {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) FindTable(_ context.Context, id int64) (*models.Table, error) {
	t, ok := m.tables[id]
	if !ok {
		return nil, fmt.Errorf("table %d: %w", id, models.ErrNotFound)
	}
	return &t, nil
}

func (m *memStore) addTable(id int64, price float64) {
	m.tables[id] = models.Table{ID: id, Type: "standard", NumberOfSeats: 4, PricePerHour: price}
}

func (m *memStore) addWeekSchedule(open, close string) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		m.schedules = append(m.schedules, models.Schedule{
			Day: d.String(), OpenTime: open, CloseTime: close,
		})
	}
}

func (m *memStore) addOrder(id int64, start, end time.Time, tableIDs ...int64) {
	tables := make([]models.Table, 0, len(tableIDs))
	for _, tid := range tableIDs {
		tables = append(tables, models.Table{ID: tid})
	}
	m.orders = append(m.orders, models.Order{
		ID:            id,
		StartDatetime: start,
		EndDatetime:   end,
		Status:        models.StatusProcessing,
		Tables:        tables,
	})
}

// dayAt builds a timestamp on a fixed test date.
func dayAt(day string, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}
