package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stolik/internal/models"
)

// CreateTable inserts a table and returns its id.
func (db *DB) CreateTable(ctx context.Context, t *models.Table) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO tables (type, number_of_seats, price_per_hour) VALUES (?, ?, ?)`,
		t.Type, t.NumberOfSeats, t.PricePerHour,
	)
	if err != nil {
		return 0, fmt.Errorf("insert table: %w", err)
	}
	return res.LastInsertId()
}

// FindTable returns the table with the given id, or models.ErrNotFound.
func (db *DB) FindTable(ctx context.Context, id int64) (*models.Table, error) {
	return findTable(ctx, db.DB, id)
}

// FindTable implements booking.TableSource inside a transaction.
func (t *Tx) FindTable(ctx context.Context, id int64) (*models.Table, error) {
	return findTable(ctx, t.tx, id)
}

func findTable(ctx context.Context, r runner, id int64) (*models.Table, error) {
	var tbl models.Table
	err := r.QueryRowContext(ctx, `
		SELECT id, type, number_of_seats, price_per_hour, created_at, updated_at
		FROM tables WHERE id = ?`, id,
	).Scan(&tbl.ID, &tbl.Type, &tbl.NumberOfSeats, &tbl.PricePerHour, &tbl.CreatedAt, &tbl.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("table %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query table %d: %w", id, err)
	}
	return &tbl, nil
}

// ListTables returns all tables ordered by id.
func (db *DB) ListTables(ctx context.Context) ([]models.Table, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, type, number_of_seats, price_per_hour, created_at, updated_at
		FROM tables ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
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

// UpdateTable rewrites a table's mutable fields.
func (db *DB) UpdateTable(ctx context.Context, t *models.Table) error {
	res, err := db.ExecContext(ctx, `
		UPDATE tables SET type = ?, number_of_seats = ?, price_per_hour = ?, updated_at = ?
		WHERE id = ?`,
		t.Type, t.NumberOfSeats, t.PricePerHour, time.Now(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update table %d: %w", t.ID, err)
	}
	return requireRow(res, t.ID)
}

// DeleteTable removes a table.
func (db *DB) DeleteTable(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete table %d: %w", id, err)
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", id, models.ErrNotFound)
	}
	return nil
}
