package activity

import (
	"context"
	"time"
)

// Repository provides persistence for activity records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	ListByChild(ctx context.Context, childID string, from, to time.Time) ([]Record, error)
	OpenSleep(ctx context.Context, childID string) (*Record, error)
	CloseSleep(ctx context.Context, id string, end time.Time, minutes int) error
	Summary(ctx context.Context, childID string, from, to time.Time) (*DailySummary, error)
}
