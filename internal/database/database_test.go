package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stolik/internal/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustCreateUser(t *testing.T, db *DB) int64 {
	t.Helper()
	id, err := db.CreateUser(context.Background(), &models.User{Email: "client@example.com"})
	require.NoError(t, err)
	return id
}

func mustCreateTable(t *testing.T, db *DB, price float64) int64 {
	t.Helper()
	id, err := db.CreateTable(context.Background(), &models.Table{
		Type: "standard", NumberOfSeats: 4, PricePerHour: price,
	})
	require.NoError(t, err)
	return id
}

func ts(day, clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTableCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id := mustCreateTable(t, db, 100)

	table, err := db.FindTable(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "standard", table.Type)
	assert.Equal(t, float64(100), table.PricePerHour)

	table.PricePerHour = 120
	require.NoError(t, db.UpdateTable(ctx, table))

	table, err = db.FindTable(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, float64(120), table.PricePerHour)

	require.NoError(t, db.DeleteTable(ctx, id))
	_, err = db.FindTable(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, db.DeleteTable(ctx, id), models.ErrNotFound)
}

func TestScheduleCRUDAndDayLookup(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.CreateSchedule(ctx, &models.Schedule{
		Day: "Monday", OpenTime: "10:00", CloseTime: "22:00",
	})
	require.NoError(t, err)

	sched, err := db.GetSchedule(ctx, id)
	require.NoError(t, err)
	assert.False(t, sched.HasBreak())

	// The day key is unique.
	_, err = db.CreateSchedule(ctx, &models.Schedule{
		Day: "Monday", OpenTime: "09:00", CloseTime: "21:00",
	})
	assert.Error(t, err)

	_, err = db.CreateSchedule(ctx, &models.Schedule{
		Day: "2025-12-31", OpenTime: "10:00", CloseTime: "16:00",
		BreakStartTime: "12:00", BreakEndTime: "13:00",
	})
	require.NoError(t, err)

	byDay, err := db.FindSchedulesByDay(ctx, "2025-12-31")
	require.NoError(t, err)
	require.Len(t, byDay, 1)
	assert.True(t, byDay[0].HasBreak())
	assert.Equal(t, "12:00", byDay[0].BreakStartTime)

	byDay, err = db.FindSchedulesByDay(ctx, "Tuesday")
	require.NoError(t, err)
	assert.Empty(t, byDay)
}

func TestEnsureDefaultSchedules(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.EnsureDefaultSchedules(ctx))

	all, err := db.ListSchedules(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 7)

	// Idempotent, and it respects existing rows.
	require.NoError(t, db.EnsureDefaultSchedules(ctx))
	all, err = db.ListSchedules(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 7)
}

func TestOrderLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := mustCreateUser(t, db)
	t1 := mustCreateTable(t, db, 100)
	t2 := mustCreateTable(t, db, 150)

	var orderID int64
	err := db.InTx(ctx, func(tx *Tx) error {
		id, err := tx.InsertOrder(ctx, &models.Order{
			StartDatetime: ts("2025-03-10", "12:00"),
			EndDatetime:   ts("2025-03-10", "14:00"),
			Status:        models.StatusProcessing,
			Cost:          500,
			UserID:        userID,
			Tables:        []models.Table{{ID: t1}, {ID: t2}},
		})
		orderID = id
		return err
	})
	require.NoError(t, err)

	order, err := db.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.Equal(t, []int64{t1, t2}, order.TableIDs())

	// Update drops a table and confirms.
	order.Status = models.StatusConfirmed
	order.Tables = order.Tables[:1]
	err = db.InTx(ctx, func(tx *Tx) error {
		return tx.UpdateOrder(ctx, order)
	})
	require.NoError(t, err)

	order, err = db.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, order.Status)
	assert.Equal(t, []int64{t1}, order.TableIDs())

	require.NoError(t, db.DeleteOrder(ctx, orderID))
	_, err = db.GetOrder(ctx, orderID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFindOrdersOnDate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := mustCreateUser(t, db)
	t1 := mustCreateTable(t, db, 100)
	t2 := mustCreateTable(t, db, 150)

	insert := func(day, start, end string, tables ...int64) {
		t.Helper()
		order := &models.Order{
			StartDatetime: ts(day, start),
			EndDatetime:   ts(day, end),
			Status:        models.StatusProcessing,
			UserID:        userID,
		}
		for _, id := range tables {
			order.Tables = append(order.Tables, models.Table{ID: id})
		}
		err := db.InTx(ctx, func(tx *Tx) error {
			_, err := tx.InsertOrder(ctx, order)
			return err
		})
		require.NoError(t, err)
	}

	insert("2025-03-10", "12:00", "14:00", t1)
	insert("2025-03-10", "18:00", "20:00", t1, t2)
	insert("2025-03-11", "12:00", "14:00", t1)

	orders, err := db.FindOrdersOnDate(ctx, ts("2025-03-10", "09:00"), []int64{t1})
	require.NoError(t, err)
	require.Len(t, orders, 2, "other days excluded")
	// Full table sets come back, not only the requested ids.
	assert.Equal(t, []int64{t1, t2}, orders[1].TableIDs())

	orders, err = db.FindOrdersOnDate(ctx, ts("2025-03-10", "09:00"), []int64{t2})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = db.FindOrdersOnDate(ctx, ts("2025-03-10", "09:00"), nil)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListOrdersFilters(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := mustCreateUser(t, db)
	otherID, err := db.CreateUser(ctx, &models.User{Email: "other@example.com"})
	require.NoError(t, err)
	t1 := mustCreateTable(t, db, 100)

	insert := func(uid int64, status, day string) {
		t.Helper()
		err := db.InTx(ctx, func(tx *Tx) error {
			_, err := tx.InsertOrder(ctx, &models.Order{
				StartDatetime: ts(day, "12:00"),
				EndDatetime:   ts(day, "14:00"),
				Status:        status,
				UserID:        uid,
				Tables:        []models.Table{{ID: t1}},
			})
			return err
		})
		require.NoError(t, err)
	}

	insert(userID, models.StatusProcessing, "2025-03-10")
	insert(userID, models.StatusConfirmed, "2025-03-11")
	insert(otherID, models.StatusProcessing, "2025-03-12")

	orders, err := db.ListOrders(ctx, OrderFilter{UserID: &userID})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	orders, err = db.ListOrders(ctx, OrderFilter{Status: models.StatusConfirmed})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	from := ts("2025-03-11", "00:00")
	to := ts("2025-03-11", "23:59")
	orders, err = db.ListOrders(ctx, OrderFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	orders, err = db.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	userID := mustCreateUser(t, db)
	t1 := mustCreateTable(t, db, 100)

	boom := errors.New("boom")
	err := db.InTx(ctx, func(tx *Tx) error {
		_, err := tx.InsertOrder(ctx, &models.Order{
			StartDatetime: ts("2025-03-10", "12:00"),
			EndDatetime:   ts("2025-03-10", "14:00"),
			Status:        models.StatusProcessing,
			UserID:        userID,
			Tables:        []models.Table{{ID: t1}},
		})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	orders, err := db.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestUserCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	id, err := db.CreateUser(ctx, &models.User{Email: "a@example.com", Phone: "+100", IsAdmin: true})
	require.NoError(t, err)

	user, err := db.GetUser(ctx, id)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)
	assert.Equal(t, "+100", user.Phone)

	// Email is unique.
	_, err = db.CreateUser(ctx, &models.User{Email: "a@example.com"})
	assert.Error(t, err)

	byEmail, err := db.FindUserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, byEmail.ID)

	user.IsAdmin = false
	require.NoError(t, db.UpdateUser(ctx, user))
	user, err = db.GetUser(ctx, id)
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)

	require.NoError(t, db.DeleteUser(ctx, id))
	_, err = db.GetUser(ctx, id)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
