package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkazmin/babylog/internal/domain/child"
	"github.com/pkazmin/babylog/internal/repository"
)

// ChildRepository implements child.Repository for SQLite
type ChildRepository struct {
	db *DB
}

// NewChildRepository creates a new ChildRepository
func NewChildRepository(db *DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// CreateCaregiver inserts a new caregiver
func (r *ChildRepository) CreateCaregiver(ctx context.Context, c *child.Caregiver) error {
	query := `INSERT INTO caregivers (id, chat_id, name, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.ChatID, c.Name, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create caregiver: %w", err)
	}
	return nil
}

// GetCaregiverByChatID retrieves a caregiver by external chat ID
func (r *ChildRepository) GetCaregiverByChatID(ctx context.Context, chatID string) (*child.Caregiver, error) {
	query := `SELECT id, chat_id, name, created_at FROM caregivers WHERE chat_id = ?`

	var (
		c    child.Caregiver
		name sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, chatID).Scan(&c.ID, &c.ChatID, &name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caregiver: %w", err)
	}
	c.Name = name.String
	c.CreatedAt = c.CreatedAt.UTC()
	return &c, nil
}

// CreateChild inserts a new child
func (r *ChildRepository) CreateChild(ctx context.Context, ch *child.Child) error {
	query := `
		INSERT INTO children (id, caregiver_id, name, birth_date, gender, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, ch.ID, ch.CaregiverID, ch.Name, ch.BirthDate, ch.Gender, ch.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create child: %w", err)
	}
	return nil
}

// GetChild retrieves a child by ID
func (r *ChildRepository) GetChild(ctx context.Context, id string) (*child.Child, error) {
	query := `SELECT id, caregiver_id, name, birth_date, gender, created_at FROM children WHERE id = ?`
	ch, err := scanChild(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}
	return ch, nil
}

// ListByCaregiver lists a caregiver's children
func (r *ChildRepository) ListByCaregiver(ctx context.Context, caregiverID string) ([]child.Child, error) {
	query := `
		SELECT id, caregiver_id, name, birth_date, gender, created_at
		FROM children
		WHERE caregiver_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, caregiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	var children []child.Child
	for rows.Next() {
		ch, err := scanChild(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, *ch)
	}
	return children, rows.Err()
}

func scanChild(row rowScanner) (*child.Child, error) {
	var (
		ch        child.Child
		birthDate sql.NullTime
		gender    sql.NullString
	)
	err := row.Scan(&ch.ID, &ch.CaregiverID, &ch.Name, &birthDate, &gender, &ch.CreatedAt)
	if err != nil {
		return nil, err
	}
	if birthDate.Valid {
		t := birthDate.Time.UTC()
		ch.BirthDate = &t
	}
	ch.Gender = gender.String
	ch.CreatedAt = ch.CreatedAt.UTC()
	return &ch, nil
}
