package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection
func New(dataSourceName string) (*DB, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. It runs on every startup, so each
// statement must be a no-op against an already migrated file.
func (db *DB) RunMigrations() error {
	migration := `
-- Caregivers: chat identities allowed to write to the diary
CREATE TABLE IF NOT EXISTS caregivers (
    id TEXT PRIMARY KEY,
    chat_id TEXT NOT NULL UNIQUE,
    name TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Children
CREATE TABLE IF NOT EXISTS children (
    id TEXT PRIMARY KEY,
    caregiver_id TEXT NOT NULL,
    name TEXT NOT NULL,
    birth_date TIMESTAMP,
    gender TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (caregiver_id) REFERENCES caregivers(id)
);
CREATE INDEX IF NOT EXISTS idx_caregiver_children ON children(caregiver_id);

-- Activity records: one row per diary entry, flat union across kinds
CREATE TABLE IF NOT EXISTS activities (
    id TEXT PRIMARY KEY,
    child_id TEXT NOT NULL,
    kind TEXT NOT NULL CHECK(kind IN ('sleep', 'feeding', 'walk', 'diaper', 'temperature', 'medication', 'mood')),
    time TIMESTAMP NOT NULL,
    end_time TIMESTAMP,
    duration_minutes INTEGER,
    feeding_type TEXT,
    amount_ml INTEGER,
    food_name TEXT,
    side TEXT,
    quality TEXT,
    location TEXT,
    weather TEXT,
    diaper_type TEXT,
    consistency TEXT,
    color TEXT,
    temperature REAL,
    measurement_type TEXT,
    medication_name TEXT,
    dosage TEXT,
    mood TEXT,
    intensity TEXT,
    notes TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (child_id) REFERENCES children(id)
);
CREATE INDEX IF NOT EXISTS idx_child_activities ON activities(child_id, time);
CREATE INDEX IF NOT EXISTS idx_kind_activities ON activities(kind);

-- Backstop for the one-open-sleep-per-child rule
CREATE UNIQUE INDEX IF NOT EXISTS idx_one_open_sleep ON activities(child_id)
    WHERE kind = 'sleep' AND end_time IS NULL;

-- API keys for authentication
CREATE TABLE IF NOT EXISTS api_keys (
    key_hash TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX IF NOT EXISTS idx_owner_keys ON api_keys(owner_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
