package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stolik/internal/models"
)

// CreateUser inserts a user and returns its id.
func (db *DB) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO users (email, phone, is_admin) VALUES (?, ?, ?)`,
		u.Email, nullIfEmpty(u.Phone), u.IsAdmin,
	)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

// GetUser returns the user with the given id, or models.ErrNotFound.
func (db *DB) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, email, phone, is_admin, created_at, updated_at
		FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user %d: %w", id, err)
	}
	return u, nil
}

// FindUserByEmail returns the user with the given email, or models.ErrNotFound.
func (db *DB) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, email, phone, is_admin, created_at, updated_at
		FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", email, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query user %q: %w", email, err)
	}
	return u, nil
}

// ListUsers returns all users ordered by id.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, email, phone, is_admin, created_at, updated_at
		FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser rewrites a user's mutable fields.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := db.ExecContext(ctx, `
		UPDATE users SET email = ?, phone = ?, is_admin = ?, updated_at = ?
		WHERE id = ?`,
		u.Email, nullIfEmpty(u.Phone), u.IsAdmin, time.Now(), u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return requireRow(res, u.ID)
}

// DeleteUser removes a user.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return requireRow(res, id)
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var phone sql.NullString
	err := row.Scan(&u.ID, &u.Email, &phone, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Phone = phone.String
	return &u, nil
}
