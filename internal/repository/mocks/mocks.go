package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/domain/child"
)

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Create(ctx context.Context, rec *activity.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *ActivityRepository) Get(ctx context.Context, id string) (*activity.Record, error) {
	args := m.Called(ctx, id)
	if rec, ok := args.Get(0).(*activity.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) ListByChild(ctx context.Context, childID string, from, to time.Time) ([]activity.Record, error) {
	args := m.Called(ctx, childID, from, to)
	if list, ok := args.Get(0).([]activity.Record); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) OpenSleep(ctx context.Context, childID string) (*activity.Record, error) {
	args := m.Called(ctx, childID)
	if rec, ok := args.Get(0).(*activity.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ActivityRepository) CloseSleep(ctx context.Context, id string, end time.Time, minutes int) error {
	args := m.Called(ctx, id, end, minutes)
	return args.Error(0)
}

func (m *ActivityRepository) Summary(ctx context.Context, childID string, from, to time.Time) (*activity.DailySummary, error) {
	args := m.Called(ctx, childID, from, to)
	if summary, ok := args.Get(0).(*activity.DailySummary); ok {
		return summary, args.Error(1)
	}
	return nil, args.Error(1)
}

// ChildRepository is a mock for child.Repository.
type ChildRepository struct {
	mock.Mock
}

func (m *ChildRepository) CreateCaregiver(ctx context.Context, c *child.Caregiver) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ChildRepository) GetCaregiverByChatID(ctx context.Context, chatID string) (*child.Caregiver, error) {
	args := m.Called(ctx, chatID)
	if c, ok := args.Get(0).(*child.Caregiver); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChildRepository) CreateChild(ctx context.Context, ch *child.Child) error {
	args := m.Called(ctx, ch)
	return args.Error(0)
}

func (m *ChildRepository) GetChild(ctx context.Context, id string) (*child.Child, error) {
	args := m.Called(ctx, id)
	if ch, ok := args.Get(0).(*child.Child); ok {
		return ch, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChildRepository) ListByCaregiver(ctx context.Context, caregiverID string) ([]child.Child, error) {
	args := m.Called(ctx, caregiverID)
	if list, ok := args.Get(0).([]child.Child); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// APIKeyRepository is a mock for repository.APIKeyRepository.
type APIKeyRepository struct {
	mock.Mock
}

func (m *APIKeyRepository) Resolve(ctx context.Context, keyHash string) (string, error) {
	args := m.Called(ctx, keyHash)
	return args.String(0), args.Error(1)
}
