package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/claude/repflow/internal/models"
	_ "modernc.org/sqlite"
)

// Cache is a local SQLite-backed store of resolved workout records, keyed
// by workout id. Reads prefer the cache; remote fetches write through it.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the catalog cache at dir/catalog.db.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog cache: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS workout_refs (
		id        TEXT PRIMARY KEY,
		data      TEXT NOT NULL,
		cached_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating workout_refs table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get returns the cached workout record for an id, with found=false on a miss.
func (c *Cache) Get(id string) (models.WorkoutRef, bool, error) {
	var data string
	err := c.db.QueryRow(`SELECT data FROM workout_refs WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return models.WorkoutRef{}, false, nil
	}
	if err != nil {
		return models.WorkoutRef{}, false, err
	}

	var ref models.WorkoutRef
	if err := json.Unmarshal([]byte(data), &ref); err != nil {
		// A corrupt row is a miss, not a failure: the resolver will
		// refetch and overwrite it.
		return models.WorkoutRef{}, false, nil
	}
	return ref, true, nil
}

// Put stores (or replaces) a workout record.
func (c *Cache) Put(ref models.WorkoutRef) error {
	data, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("marshaling workout ref: %w", err)
	}
	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO workout_refs (id, data) VALUES (?, ?)`,
		ref.ID, string(data),
	)
	return err
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}
