package storage

import (
	"context"
	"fmt"

	"github.com/claude/repflow/internal/models"
	"github.com/google/uuid"
)

// InsertImport records a social-media workout import.
func (db *DB) InsertImport(ctx context.Context, row models.ImportRow) (uuid.UUID, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_imports (id, user_id, source, url, title, status, raw_json)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		row.ID, row.UserID, row.Source, row.URL, row.Title, row.Status, row.RawJSON)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting import: %w", err)
	}
	return row.ID, nil
}

// UpdateImportStatus marks an import as materialized or failed.
func (db *DB) UpdateImportStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_imports SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating import status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("import %s not found", id)
	}
	return nil
}

// QueryImports lists a user's imports, newest first.
func (db *DB) QueryImports(ctx context.Context, userID, limit int) ([]models.ImportRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, source, url, title, status, created_at
		 FROM workout_imports WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying imports: %w", err)
	}
	defer rows.Close()

	var result []models.ImportRow
	for rows.Next() {
		var r models.ImportRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Source, &r.URL, &r.Title, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
