package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/repository"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `
	id, child_id, kind, time, end_time, duration_minutes,
	feeding_type, amount_ml, food_name, side,
	quality, location, weather,
	diaper_type, consistency, color,
	temperature, measurement_type,
	medication_name, dosage, mood, intensity, notes, created_at
`

// Create inserts a new activity record
func (r *ActivityRepository) Create(ctx context.Context, rec *activity.Record) error {
	query := `
		INSERT INTO activities (` + activityColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.ChildID,
		rec.Kind,
		rec.Time,
		rec.EndTime,
		rec.DurationMinutes,
		rec.FeedingType,
		rec.AmountML,
		rec.FoodName,
		rec.Side,
		rec.Quality,
		rec.Location,
		rec.Weather,
		rec.DiaperType,
		rec.Consistency,
		rec.Color,
		rec.Temperature,
		rec.MeasurementType,
		rec.MedicationName,
		rec.Dosage,
		rec.Mood,
		rec.Intensity,
		rec.Notes,
		rec.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// Get retrieves an activity by ID
func (r *ActivityRepository) Get(ctx context.Context, id string) (*activity.Record, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	rec, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return rec, nil
}

// ListByChild lists a child's activities in the half-open window [from, to)
func (r *ActivityRepository) ListByChild(ctx context.Context, childID string, from, to time.Time) ([]activity.Record, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE child_id = ? AND time >= ? AND time < ?
		ORDER BY time ASC
	`
	rows, err := r.db.QueryContext(ctx, query, childID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var records []activity.Record
	for rows.Next() {
		rec, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// OpenSleep returns the child's sleep record without an end time
func (r *ActivityRepository) OpenSleep(ctx context.Context, childID string) (*activity.Record, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE child_id = ? AND kind = 'sleep' AND end_time IS NULL
	`
	rec, err := scanActivity(r.db.QueryRowContext(ctx, query, childID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open sleep: %w", err)
	}
	return rec, nil
}

// CloseSleep sets the end time and duration of a still-open record
func (r *ActivityRepository) CloseSleep(ctx context.Context, id string, end time.Time, minutes int) error {
	query := `
		UPDATE activities
		SET end_time = ?, duration_minutes = ?
		WHERE id = ? AND end_time IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, end, minutes, id)
	if err != nil {
		return fmt.Errorf("failed to close sleep: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check close result: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Summary aggregates a child's activities in the half-open window [from, to)
func (r *ActivityRepository) Summary(ctx context.Context, childID string, from, to time.Time) (*activity.DailySummary, error) {
	query := `
		SELECT
			COUNT(CASE WHEN kind = 'sleep' THEN 1 END),
			COALESCE(SUM(CASE WHEN kind = 'sleep' THEN duration_minutes END), 0),
			COUNT(CASE WHEN kind = 'feeding' THEN 1 END),
			COALESCE(SUM(CASE WHEN kind = 'feeding' THEN amount_ml END), 0),
			COUNT(CASE WHEN kind = 'walk' THEN 1 END),
			COALESCE(SUM(CASE WHEN kind = 'walk' THEN duration_minutes END), 0),
			COUNT(CASE WHEN kind = 'diaper' AND diaper_type = 'pee' THEN 1 END),
			COUNT(CASE WHEN kind = 'diaper' AND diaper_type = 'poop' THEN 1 END),
			COUNT(CASE WHEN kind = 'diaper' AND diaper_type = 'both' THEN 1 END)
		FROM activities
		WHERE child_id = ? AND time >= ? AND time < ?
	`

	var summary activity.DailySummary
	err := r.db.QueryRowContext(ctx, query, childID, from, to).Scan(
		&summary.SleepCount,
		&summary.SleepMinutes,
		&summary.FeedingCount,
		&summary.FeedingML,
		&summary.WalkCount,
		&summary.WalkMinutes,
		&summary.DiaperPee,
		&summary.DiaperPoop,
		&summary.DiaperBoth,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate activities: %w", err)
	}

	var latest sql.NullFloat64
	err = r.db.QueryRowContext(ctx, `
		SELECT temperature FROM activities
		WHERE child_id = ? AND kind = 'temperature' AND time >= ? AND time < ?
		ORDER BY time DESC LIMIT 1
	`, childID, from, to).Scan(&latest)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get latest temperature: %w", err)
	}
	if latest.Valid {
		summary.LatestTemperature = &latest.Float64
	}

	return &summary, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*activity.Record, error) {
	var (
		rec      activity.Record
		endTime  sql.NullTime
		duration sql.NullInt64
		amountML sql.NullInt64
		temp     sql.NullFloat64
		text     [15]sql.NullString
	)

	err := row.Scan(
		&rec.ID,
		&rec.ChildID,
		&rec.Kind,
		&rec.Time,
		&endTime,
		&duration,
		&text[0], // feeding_type
		&amountML,
		&text[1], // food_name
		&text[2], // side
		&text[3], // quality
		&text[4], // location
		&text[5], // weather
		&text[6], // diaper_type
		&text[7], // consistency
		&text[8], // color
		&temp,
		&text[9],  // measurement_type
		&text[10], // medication_name
		&text[11], // dosage
		&text[12], // mood
		&text[13], // intensity
		&text[14], // notes
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time.UTC()
		rec.EndTime = &t
	}
	if duration.Valid {
		m := int(duration.Int64)
		rec.DurationMinutes = &m
	}
	if amountML.Valid {
		ml := int(amountML.Int64)
		rec.AmountML = &ml
	}
	if temp.Valid {
		rec.Temperature = &temp.Float64
	}
	rec.FeedingType = text[0].String
	rec.FoodName = text[1].String
	rec.Side = text[2].String
	rec.Quality = text[3].String
	rec.Location = text[4].String
	rec.Weather = text[5].String
	rec.DiaperType = text[6].String
	rec.Consistency = text[7].String
	rec.Color = text[8].String
	rec.MeasurementType = text[9].String
	rec.MedicationName = text[10].String
	rec.Dosage = text[11].String
	rec.Mood = text[12].String
	rec.Intensity = text[13].String
	rec.Notes = text[14].String
	rec.Time = rec.Time.UTC()
	rec.CreatedAt = rec.CreatedAt.UTC()

	return &rec, nil
}
