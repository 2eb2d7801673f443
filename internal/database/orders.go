package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stolik/internal/models"
)

// OrderFilter narrows ListOrders. Nil/zero fields are ignored.
type OrderFilter struct {
	UserID *int64
	Status string
	From   *time.Time
	To     *time.Time
}

// FindOrdersOnDate implements booking.OrderSource: every order starting on
// date's calendar day that touches any of the given tables, with its full
// table set loaded.
func (db *DB) FindOrdersOnDate(ctx context.Context, date time.Time, tableIDs []int64) ([]models.Order, error) {
	return findOrdersOnDate(ctx, db.DB, date, tableIDs)
}

// FindOrdersOnDate implements booking.OrderSource inside a transaction.
// Calling it through InTx is what serializes the availability check
// against competing order writes.
func (t *Tx) FindOrdersOnDate(ctx context.Context, date time.Time, tableIDs []int64) ([]models.Order, error) {
	return findOrdersOnDate(ctx, t.tx, date, tableIDs)
}

func findOrdersOnDate(ctx context.Context, r runner, date time.Time, tableIDs []int64) ([]models.Order, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	args := []any{startOfDay, endOfDay}
	placeholders := make([]string, len(tableIDs))
	for i, id := range tableIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT o.id, o.start_datetime, o.end_datetime, o.status, o.cost, o.user_id,
		       o.created_at, o.updated_at
		FROM orders o
		JOIN order_tables ot ON ot.order_id = o.id
		WHERE o.start_datetime >= ? AND o.start_datetime < ?
		AND ot.table_id IN (%s)
		ORDER BY o.start_datetime`, strings.Join(placeholders, ","))

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders on date: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		tables, err := loadOrderTables(ctx, r, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Tables = tables
	}
	return orders, nil
}

// GetOrder returns an order with its table set, or models.ErrNotFound.
func (db *DB) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return getOrder(ctx, db.DB, id)
}

// GetOrder returns an order inside a transaction.
func (t *Tx) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return getOrder(ctx, t.tx, id)
}

func getOrder(ctx context.Context, r runner, id int64) (*models.Order, error) {
	row := r.QueryRowContext(ctx, `
		SELECT id, start_datetime, end_datetime, status, cost, user_id, created_at, updated_at
		FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query order %d: %w", id, err)
	}
	tables, err := loadOrderTables(ctx, r, id)
	if err != nil {
		return nil, err
	}
	o.Tables = tables
	return o, nil
}

// ListOrders returns orders matching the filter, oldest id first.
func (db *DB) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := `
		SELECT id, start_datetime, end_datetime, status, cost, user_id, created_at, updated_at
		FROM orders WHERE 1=1`
	var args []any
	if filter.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *filter.UserID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		query += " AND end_datetime >= ?"
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		query += " AND start_datetime <= ?"
		args = append(args, *filter.To)
	}
	query += " ORDER BY id"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		tables, err := loadOrderTables(ctx, db.DB, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Tables = tables
	}
	return orders, nil
}

// InsertOrder writes a validated candidate order and its table edges.
// Must be called inside the same transaction that ran the availability
// check.
func (t *Tx) InsertOrder(ctx context.Context, o *models.Order) (int64, error) {
	res, err := t.tx.ExecContext(ctx, `
		INSERT INTO orders (start_datetime, end_datetime, status, cost, user_id)
		VALUES (?, ?, ?, ?, ?)`,
		o.StartDatetime, o.EndDatetime, o.Status, o.Cost, o.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := replaceOrderTables(ctx, t.tx, id, o.Tables); err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateOrder rewrites a validated candidate and its table edges. Same
// transactional requirement as InsertOrder.
func (t *Tx) UpdateOrder(ctx context.Context, o *models.Order) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE orders
		SET start_datetime = ?, end_datetime = ?, status = ?, cost = ?, user_id = ?, updated_at = ?
		WHERE id = ?`,
		o.StartDatetime, o.EndDatetime, o.Status, o.Cost, o.UserID, time.Now(), o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order %d: %w", o.ID, err)
	}
	if err := requireRow(res, o.ID); err != nil {
		return err
	}
	return replaceOrderTables(ctx, t.tx, o.ID, o.Tables)
}

// DeleteOrder removes an order; the join rows cascade.
func (db *DB) DeleteOrder(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return requireRow(res, id)
}

func replaceOrderTables(ctx context.Context, r runner, orderID int64, tables []models.Table) error {
	if _, err := r.ExecContext(ctx, `DELETE FROM order_tables WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("clear order tables: %w", err)
	}
	for _, t := range tables {
		if _, err := r.ExecContext(ctx,
			`INSERT INTO order_tables (order_id, table_id) VALUES (?, ?)`, orderID, t.ID); err != nil {
			return fmt.Errorf("link order %d to table %d: %w", orderID, t.ID, err)
		}
	}
	return nil
}

func loadOrderTables(ctx context.Context, r runner, orderID int64) ([]models.Table, error) {
	rows, err := r.QueryContext(ctx, `
		SELECT t.id, t.type, t.number_of_seats, t.price_per_hour, t.created_at, t.updated_at
		FROM tables t
		JOIN order_tables ot ON ot.table_id = t.id
		WHERE ot.order_id = ?
		ORDER BY t.id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order %d tables: %w", orderID, err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.Type, &t.NumberOfSeats, &t.PricePerHour, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.StartDatetime, &o.EndDatetime, &o.Status, &o.Cost, &o.UserID,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
