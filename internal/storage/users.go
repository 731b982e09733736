package storage

import (
	"context"
	"fmt"

	"github.com/claude/repflow/internal/models"
)

// GetOrCreateUser finds or creates a user by login name. Returns the user
// ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// GetUser retrieves a user by id.
func (db *DB) GetUser(ctx context.Context, id int) (*models.UserRow, error) {
	var u models.UserRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, login, display_name, is_admin, created_at, last_seen
		 FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Login, &u.DisplayName, &u.IsAdmin, &u.CreatedAt, &u.LastSeen)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &u, nil
}

// SetUserAdmin toggles a user's admin flag.
func (db *DB) SetUserAdmin(ctx context.Context, id int, isAdmin bool) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE users SET is_admin = $2 WHERE id = $1`, id, isAdmin)
	if err != nil {
		return fmt.Errorf("updating user admin flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// ListUsers returns all users ordered by id.
func (db *DB) ListUsers(ctx context.Context) ([]models.UserRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, login, display_name, is_admin, created_at, last_seen
		 FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var result []models.UserRow
	for rows.Next() {
		var u models.UserRow
		if err := rows.Scan(&u.ID, &u.Login, &u.DisplayName, &u.IsAdmin, &u.CreatedAt, &u.LastSeen); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}
