package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkazmin/babylog/internal/repository"
)

// APIKeyRepository stores hashed API keys and their owners
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Resolve maps a hashed key to its owner and records the use
func (r *APIKeyRepository) Resolve(ctx context.Context, keyHash string) (string, error) {
	var ownerID string
	err := r.db.QueryRowContext(ctx,
		`SELECT owner_id FROM api_keys WHERE key_hash = ?`, keyHash).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	// Best effort; a failed touch must not block the request.
	_, _ = r.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now().UTC(), keyHash)

	return ownerID, nil
}

// InsertKey stores a hashed key for an owner
func (r *APIKeyRepository) InsertKey(ctx context.Context, keyHash, ownerID, description string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, owner_id, description) VALUES (?, ?, ?)`,
		keyHash, ownerID, description)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to insert api key: %w", err)
	}
	return nil
}
