package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkazmin/babylog/internal/observability"
	"github.com/pkazmin/babylog/internal/repository"
)

// Service handles diary business logic: classification, plausibility checks,
// the one-open-sleep rule, and day-window reads.
type Service struct {
	activities Repository
	limits     DurationLimits
	loc        *time.Location
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new activity service. loc is the civil timezone used
// for day windows; nil means UTC.
func NewService(activities Repository, limits DurationLimits, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		activities: activities,
		limits:     limits,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Log classifies and persists one diary entry. The returned validation is
// advisory: an implausible duration is stored anyway and reported back.
func (s *Service) Log(ctx context.Context, hint string, draft Record) (*Record, Validation, error) {
	rec, err := Classify(hint, draft, s.now())
	if err != nil {
		return nil, Validation{}, err
	}

	if rec.Kind == KindSleep && rec.EndTime == nil {
		if _, err := s.activities.OpenSleep(ctx, rec.ChildID); err == nil {
			return nil, Validation{}, ErrOpenSleepExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, Validation{}, fmt.Errorf("checking open sleep: %w", err)
		}
	}

	validation := Validation{Valid: true}
	if rec.DurationMinutes != nil {
		validation = s.limits.Validate(rec.Kind, *rec.DurationMinutes)
	}

	rec.ID = uuid.NewString()
	rec.Time = rec.Time.UTC()
	if rec.EndTime != nil {
		end := rec.EndTime.UTC()
		rec.EndTime = &end
	}
	rec.CreatedAt = s.now().UTC()

	if err := s.activities.Create(ctx, rec); err != nil {
		return nil, Validation{}, fmt.Errorf("storing activity: %w", err)
	}
	observability.RecordActivityPersisted(string(rec.Kind), rec.Time)

	s.logger.Info("activity logged",
		"activity_id", rec.ID,
		"child_id", rec.ChildID,
		"kind", rec.Kind,
		"valid", validation.Valid,
	)
	return rec, validation, nil
}

// EndSleep closes the child's open sleep. end may be nil to use the current
// instant. The duration is computed once, at close.
func (s *Service) EndSleep(ctx context.Context, childID string, end *time.Time) (*Record, error) {
	open, err := s.activities.OpenSleep(ctx, childID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenSleep
		}
		return nil, fmt.Errorf("finding open sleep: %w", err)
	}

	endAt := s.now().UTC()
	if end != nil {
		endAt = end.UTC()
	}
	closed, minutes, err := open.Interval().Close(endAt)
	if err != nil {
		return nil, err
	}
	if err := s.activities.CloseSleep(ctx, open.ID, *closed.End, minutes); err != nil {
		return nil, fmt.Errorf("closing sleep: %w", err)
	}

	open.EndTime = closed.End
	open.DurationMinutes = &minutes
	s.logger.Info("sleep ended",
		"activity_id", open.ID,
		"child_id", childID,
		"duration_minutes", minutes,
	)
	return open, nil
}

// OpenSleep returns the child's sleep in progress, if any.
func (s *Service) OpenSleep(ctx context.Context, childID string) (*Record, error) {
	open, err := s.activities.OpenSleep(ctx, childID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoOpenSleep
		}
		return nil, fmt.Errorf("finding open sleep: %w", err)
	}
	return open, nil
}

// TodayActivities returns the child's records for the current civil day,
// grouped by kind.
func (s *Service) TodayActivities(ctx context.Context, childID string) (*TodaySnapshot, error) {
	day := s.now().In(s.loc)
	from, to := s.dayWindow(day)
	records, err := s.activities.ListByChild(ctx, childID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	// Empty kinds must serialize as [], not null, per the tool output schema.
	snap := &TodaySnapshot{
		Date:        day.Format("2006-01-02"),
		Sleep:       []Record{},
		Feeding:     []Record{},
		Walk:        []Record{},
		Diaper:      []Record{},
		Temperature: []Record{},
		Medication:  []Record{},
		Mood:        []Record{},
	}
	for _, rec := range records {
		switch rec.Kind {
		case KindSleep:
			snap.Sleep = append(snap.Sleep, rec)
		case KindFeeding:
			snap.Feeding = append(snap.Feeding, rec)
		case KindWalk:
			snap.Walk = append(snap.Walk, rec)
		case KindDiaper:
			snap.Diaper = append(snap.Diaper, rec)
		case KindTemperature:
			snap.Temperature = append(snap.Temperature, rec)
		case KindMedication:
			snap.Medication = append(snap.Medication, rec)
		case KindMood:
			snap.Mood = append(snap.Mood, rec)
		}
	}
	return snap, nil
}

// Summary aggregates one civil day. date is "2006-01-02" or empty for today.
func (s *Service) Summary(ctx context.Context, childID, date string) (*DailySummary, error) {
	day := s.now().In(s.loc)
	if date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		day = parsed
	}
	from, to := s.dayWindow(day)
	summary, err := s.activities.Summary(ctx, childID, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregating day: %w", err)
	}
	summary.Date = day.Format("2006-01-02")
	return summary, nil
}

// LastFeedingTime returns the start of the child's most recent feeding today,
// or the zero time when none exists.
func (s *Service) LastFeedingTime(ctx context.Context, childID string) (time.Time, error) {
	return s.lastAnchor(ctx, childID, KindFeeding)
}

// LastSleepStart returns the start of the child's most recent sleep today,
// or the zero time when none exists.
func (s *Service) LastSleepStart(ctx context.Context, childID string) (time.Time, error) {
	return s.lastAnchor(ctx, childID, KindSleep)
}

func (s *Service) lastAnchor(ctx context.Context, childID string, kind Kind) (time.Time, error) {
	from, to := s.dayWindow(s.now().In(s.loc))
	records, err := s.activities.ListByChild(ctx, childID, from, to)
	if err != nil {
		return time.Time{}, err
	}
	var latest time.Time
	for _, rec := range records {
		if rec.Kind == kind && rec.Time.After(latest) {
			latest = rec.Time
		}
	}
	return latest, nil
}

// dayWindow returns the UTC half-open window [from, to) covering the civil
// day containing t.
func (s *Service) dayWindow(t time.Time) (time.Time, time.Time) {
	t = t.In(s.loc)
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	return from.UTC(), from.AddDate(0, 0, 1).UTC()
}
