package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/domain/child"
)

var moscow = time.FixedZone("MSK", 3*60*60)

type stubActivities struct {
	logHint       string
	logDraft      activity.Record
	logRec        *activity.Record
	logValidation activity.Validation
	logErr        error

	endRec *activity.Record
	endEnd *time.Time
	endErr error

	openRec *activity.Record
	openErr error

	snap    *activity.TodaySnapshot
	snapErr error

	summary    *activity.DailySummary
	summaryErr error
}

func (s *stubActivities) Log(_ context.Context, hint string, draft activity.Record) (*activity.Record, activity.Validation, error) {
	s.logHint = hint
	s.logDraft = draft
	if s.logErr != nil {
		return nil, activity.Validation{}, s.logErr
	}
	return s.logRec, s.logValidation, nil
}

func (s *stubActivities) EndSleep(_ context.Context, _ string, end *time.Time) (*activity.Record, error) {
	s.endEnd = end
	return s.endRec, s.endErr
}

func (s *stubActivities) OpenSleep(_ context.Context, _ string) (*activity.Record, error) {
	return s.openRec, s.openErr
}

func (s *stubActivities) TodayActivities(_ context.Context, _ string) (*activity.TodaySnapshot, error) {
	return s.snap, s.snapErr
}

func (s *stubActivities) Summary(_ context.Context, _, _ string) (*activity.DailySummary, error) {
	return s.summary, s.summaryErr
}

type stubChildren struct {
	caregiver *child.Caregiver
	child     *child.Child
	children  []child.Child
	err       error
}

func (s *stubChildren) RegisterCaregiver(_ context.Context, _, _ string) (*child.Caregiver, error) {
	return s.caregiver, s.err
}

func (s *stubChildren) AddChild(_ context.Context, _, _, _, _ string) (*child.Child, error) {
	return s.child, s.err
}

func (s *stubChildren) ListChildren(_ context.Context, _ string) ([]child.Child, error) {
	return s.children, s.err
}

type stubResolver struct {
	fn func(expr string, ref time.Time) time.Time
}

func (s *stubResolver) Resolve(expr string, ref time.Time) time.Time {
	if s.fn == nil {
		return ref
	}
	return s.fn(expr, ref)
}

type stubEventResolver struct {
	resolved  time.Time
	eventHint string
	childID   string
}

func (s *stubEventResolver) ResolveRelativeToEvent(_ context.Context, eventHint, _, childID string) time.Time {
	s.eventHint = eventHint
	s.childID = childID
	return s.resolved
}

func newHandlers(acts *stubActivities, kids *stubChildren) *toolHandlers {
	return &toolHandlers{svc: Services{
		Activities: acts,
		Children:   kids,
		Resolver:   &stubResolver{},
		Limits:     activity.DefaultDurationLimits(),
		Location:   moscow,
		Now: func() time.Time {
			return time.Date(2024, 1, 15, 14, 0, 0, 0, moscow)
		},
	}}
}

func TestLogActivity(t *testing.T) {
	t.Run("StoresAndReturnsRecord", func(t *testing.T) {
		acts := &stubActivities{
			logRec:        &activity.Record{ID: "act-1", ChildID: "child-1", Kind: activity.KindFeeding},
			logValidation: activity.Validation{Valid: true},
		}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.logActivity(context.Background(), nil, LogActivityParams{
			ActivityType: "feeding",
			ChildID:      "child-1",
			Time:         "2024-01-15T12:30:00+03:00",
			FeedingType:  "bottle",
		})
		require.NoError(t, err)
		require.Empty(t, result.Error)
		require.Empty(t, result.Warning)
		require.Equal(t, "act-1", result.Activity.ID)
		require.Equal(t, "feeding", acts.logHint)
		require.Equal(t, "bottle", acts.logDraft.FeedingType)
		require.Equal(t, time.Date(2024, 1, 15, 12, 30, 0, 0, moscow).Unix(), acts.logDraft.Time.Unix())
	})

	t.Run("SurfacesPlausibilityWarning", func(t *testing.T) {
		acts := &stubActivities{
			logRec:        &activity.Record{ID: "act-2", Kind: activity.KindSleep},
			logValidation: activity.Validation{Valid: false, Reason: "слишком долгий сон"},
		}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.logActivity(context.Background(), nil, LogActivityParams{
			ActivityType: "sleep",
			ChildID:      "child-1",
		})
		require.NoError(t, err)
		require.Equal(t, "слишком долгий сон", result.Warning)
		require.NotNil(t, result.Activity)
	})

	t.Run("MoodCarriesIntensity", func(t *testing.T) {
		acts := &stubActivities{
			logRec:        &activity.Record{ID: "act-4", Kind: activity.KindMood},
			logValidation: activity.Validation{Valid: true},
		}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.logActivity(context.Background(), nil, LogActivityParams{
			ActivityType: "настроение",
			ChildID:      "child-1",
			Mood:         "капризничал",
			Intensity:    "сильно",
		})
		require.NoError(t, err)
		require.Empty(t, result.Error)
		require.Equal(t, "капризничал", acts.logDraft.Mood)
		require.Equal(t, "сильно", acts.logDraft.Intensity)
	})

	t.Run("DomainErrorBecomesStructuredError", func(t *testing.T) {
		acts := &stubActivities{logErr: activity.ErrMissingChild}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.logActivity(context.Background(), nil, LogActivityParams{
			ActivityType: "sleep",
		})
		require.NoError(t, err)
		require.Nil(t, result.Activity)
		require.Contains(t, result.Error, "MISSING_CHILD")
	})

	t.Run("OpenSleepConflict", func(t *testing.T) {
		acts := &stubActivities{logErr: activity.ErrOpenSleepExists}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.logActivity(context.Background(), nil, LogActivityParams{
			ActivityType: "sleep",
			ChildID:      "child-1",
		})
		require.NoError(t, err)
		require.Contains(t, result.Error, "OPEN_SLEEP_EXISTS")
	})

	t.Run("RejectsUnparseableTime", func(t *testing.T) {
		h := newHandlers(&stubActivities{}, &stubChildren{})

		_, result, err := h.logActivity(context.Background(), nil, LogActivityParams{
			ActivityType: "sleep",
			ChildID:      "child-1",
			Time:         "вчера вечером",
		})
		require.NoError(t, err)
		require.Contains(t, result.Error, "invalid time")
	})

	t.Run("AcceptsZonelessTimestamp", func(t *testing.T) {
		acts := &stubActivities{
			logRec:        &activity.Record{ID: "act-3"},
			logValidation: activity.Validation{Valid: true},
		}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.logActivity(context.Background(), nil, LogActivityParams{
			ActivityType: "walk",
			ChildID:      "child-1",
			Time:         "2024-01-15T11:00:00",
		})
		require.NoError(t, err)
		require.Empty(t, result.Error)
		require.Equal(t, time.Date(2024, 1, 15, 11, 0, 0, 0, moscow).Unix(), acts.logDraft.Time.Unix())
	})
}

func TestEndSleep(t *testing.T) {
	t.Run("ClosesOpenSleep", func(t *testing.T) {
		minutes := 90
		end := time.Date(2024, 1, 15, 13, 30, 0, 0, moscow)
		acts := &stubActivities{
			endRec: &activity.Record{ID: "act-1", Kind: activity.KindSleep, EndTime: &end, DurationMinutes: &minutes},
		}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.endSleep(context.Background(), nil, EndSleepParams{
			ChildID: "child-1",
			EndTime: "2024-01-15T13:30:00+03:00",
		})
		require.NoError(t, err)
		require.Empty(t, result.Error)
		require.Equal(t, 90, *result.Activity.DurationMinutes)
		require.NotNil(t, acts.endEnd)
	})

	t.Run("DefaultsEndTimeToNow", func(t *testing.T) {
		acts := &stubActivities{endRec: &activity.Record{ID: "act-1"}}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.endSleep(context.Background(), nil, EndSleepParams{ChildID: "child-1"})
		require.NoError(t, err)
		require.Empty(t, result.Error)
		require.Nil(t, acts.endEnd)
	})

	t.Run("NoOpenSleep", func(t *testing.T) {
		acts := &stubActivities{endErr: activity.ErrNoOpenSleep}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.endSleep(context.Background(), nil, EndSleepParams{ChildID: "child-1"})
		require.NoError(t, err)
		require.Contains(t, result.Error, "NO_OPEN_SLEEP")
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		acts := &stubActivities{endErr: activity.ErrEndBeforeStart}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.endSleep(context.Background(), nil, EndSleepParams{ChildID: "child-1"})
		require.NoError(t, err)
		require.Contains(t, result.Error, "END_BEFORE_START")
	})
}

func TestGetOpenSleep(t *testing.T) {
	t.Run("Open", func(t *testing.T) {
		acts := &stubActivities{openRec: &activity.Record{ID: "act-1", Kind: activity.KindSleep}}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.getOpenSleep(context.Background(), nil, GetOpenSleepParams{ChildID: "child-1"})
		require.NoError(t, err)
		require.True(t, result.Open)
		require.Equal(t, "act-1", result.Activity.ID)
	})

	t.Run("NoneIsNotAnError", func(t *testing.T) {
		acts := &stubActivities{openErr: activity.ErrNoOpenSleep}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.getOpenSleep(context.Background(), nil, GetOpenSleepParams{ChildID: "child-1"})
		require.NoError(t, err)
		require.False(t, result.Open)
		require.Empty(t, result.Error)
		require.Nil(t, result.Activity)
	})

	t.Run("RepositoryFailure", func(t *testing.T) {
		acts := &stubActivities{openErr: errors.New("db locked")}
		h := newHandlers(acts, &stubChildren{})

		_, result, err := h.getOpenSleep(context.Background(), nil, GetOpenSleepParams{ChildID: "child-1"})
		require.NoError(t, err)
		require.Contains(t, result.Error, "db locked")
	})
}

func TestResolveTime(t *testing.T) {
	t.Run("ResolvesAgainstNow", func(t *testing.T) {
		h := newHandlers(&stubActivities{}, &stubChildren{})
		h.svc.Resolver = &stubResolver{fn: func(_ string, ref time.Time) time.Time {
			return ref.Add(-2 * time.Hour)
		}}

		_, result, err := h.resolveTime(context.Background(), nil, ResolveTimeParams{Expression: "2 часа назад"})
		require.NoError(t, err)
		require.Equal(t, "2024-01-15T12:00:00+03:00", result.Time)
	})

	t.Run("HonorsExplicitReference", func(t *testing.T) {
		h := newHandlers(&stubActivities{}, &stubChildren{})

		_, result, err := h.resolveTime(context.Background(), nil, ResolveTimeParams{
			Expression: "сейчас",
			Reference:  "2024-01-10T08:00:00+03:00",
		})
		require.NoError(t, err)
		require.Equal(t, "2024-01-10T08:00:00+03:00", result.Time)
	})

	t.Run("RejectsBadReference", func(t *testing.T) {
		h := newHandlers(&stubActivities{}, &stubChildren{})

		_, result, err := h.resolveTime(context.Background(), nil, ResolveTimeParams{
			Expression: "сейчас",
			Reference:  "not-a-time",
		})
		require.NoError(t, err)
		require.Contains(t, result.Error, "invalid reference")
	})

	t.Run("EventRelativeNeedsChildID", func(t *testing.T) {
		h := newHandlers(&stubActivities{}, &stubChildren{})

		_, result, err := h.resolveTime(context.Background(), nil, ResolveTimeParams{
			Expression:      "через час",
			RelativeToEvent: "кормление",
		})
		require.NoError(t, err)
		require.Contains(t, result.Error, "MISSING_CHILD")
	})

	t.Run("EventRelative", func(t *testing.T) {
		h := newHandlers(&stubActivities{}, &stubChildren{})
		ev := &stubEventResolver{resolved: time.Date(2024, 1, 15, 11, 0, 0, 0, moscow)}
		h.svc.EventResolver = ev

		_, result, err := h.resolveTime(context.Background(), nil, ResolveTimeParams{
			Expression:      "через час",
			RelativeToEvent: "кормление",
			ChildID:         "child-1",
		})
		require.NoError(t, err)
		require.Equal(t, "2024-01-15T11:00:00+03:00", result.Time)
		require.Equal(t, "кормление", ev.eventHint)
		require.Equal(t, "child-1", ev.childID)
	})
}

func TestValidateActivity(t *testing.T) {
	h := newHandlers(&stubActivities{}, &stubChildren{})
	minutes := func(n int) *int { return &n }

	t.Run("PlausibleDuration", func(t *testing.T) {
		_, result, err := h.validateActivity(context.Background(), nil, ValidateActivityParams{
			ActivityType:    "sleep",
			DurationMinutes: minutes(720),
		})
		require.NoError(t, err)
		require.True(t, result.Valid)
		require.Empty(t, result.Reason)
	})

	t.Run("ImplausibleDuration", func(t *testing.T) {
		_, result, err := h.validateActivity(context.Background(), nil, ValidateActivityParams{
			ActivityType:    "sleep",
			DurationMinutes: minutes(721),
		})
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.NotEmpty(t, result.Reason)
	})

	t.Run("MissingDurationIsValid", func(t *testing.T) {
		_, result, err := h.validateActivity(context.Background(), nil, ValidateActivityParams{
			ActivityType: "sleep",
		})
		require.NoError(t, err)
		require.True(t, result.Valid)
		require.Empty(t, result.Reason)
	})

	t.Run("RussianHint", func(t *testing.T) {
		_, result, err := h.validateActivity(context.Background(), nil, ValidateActivityParams{
			ActivityType:    "кормление",
			DurationMinutes: minutes(61),
		})
		require.NoError(t, err)
		require.False(t, result.Valid)
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, result, err := h.validateActivity(context.Background(), nil, ValidateActivityParams{
			ActivityType:    "чтение",
			DurationMinutes: minutes(30),
		})
		require.NoError(t, err)
		require.Contains(t, result.Error, "UNKNOWN_ACTIVITY")
	})
}

func TestCaregiverTools(t *testing.T) {
	t.Run("RegisterCaregiver", func(t *testing.T) {
		kids := &stubChildren{caregiver: &child.Caregiver{ID: "cg-1", ChatID: "chat-1"}}
		h := newHandlers(&stubActivities{}, kids)

		_, result, err := h.registerCaregiver(context.Background(), nil, RegisterCaregiverParams{ChatID: "chat-1"})
		require.NoError(t, err)
		require.Equal(t, "cg-1", result.Caregiver.ID)
	})

	t.Run("AddChildUnregisteredChat", func(t *testing.T) {
		kids := &stubChildren{err: child.ErrCaregiverNotFound}
		h := newHandlers(&stubActivities{}, kids)

		_, result, err := h.addChild(context.Background(), nil, AddChildParams{ChatID: "chat-9", Name: "Маша"})
		require.NoError(t, err)
		require.Contains(t, result.Error, "CAREGIVER_NOT_REGISTERED")
	})

	t.Run("ListChildren", func(t *testing.T) {
		birth := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
		kids := &stubChildren{children: []child.Child{
			{ID: "child-1", Name: "Маша", BirthDate: &birth},
			{ID: "child-2", Name: "Петя"},
		}}
		h := newHandlers(&stubActivities{}, kids)

		_, result, err := h.listChildren(context.Background(), nil, ListChildrenParams{ChatID: "chat-1"})
		require.NoError(t, err)
		require.Len(t, result.Children, 2)
		require.Equal(t, "child-1", result.Children[0].ID)
		// 2023-06-01 to the 2024-01-15 clock instant is 7 whole months.
		require.NotNil(t, result.Children[0].AgeMonths)
		require.Equal(t, 7, *result.Children[0].AgeMonths)
		require.Nil(t, result.Children[1].AgeMonths, "no birth date means no age")
	})
}

func TestMapError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{activity.ErrUnknownActivity, "UNKNOWN_ACTIVITY"},
		{activity.ErrMissingChild, "MISSING_CHILD"},
		{activity.ErrMissingField, "MISSING_FIELD"},
		{activity.ErrNoOpenSleep, "NO_OPEN_SLEEP"},
		{activity.ErrOpenSleepExists, "OPEN_SLEEP_EXISTS"},
		{activity.ErrEndBeforeStart, "END_BEFORE_START"},
		{child.ErrCaregiverNotFound, "CAREGIVER_NOT_REGISTERED"},
		{child.ErrChildNotFound, "CHILD_NOT_FOUND"},
	}
	for _, tc := range cases {
		apiErr := MapError(tc.err)
		require.NotNil(t, apiErr, tc.code)
		require.Equal(t, tc.code, apiErr.Code)
	}

	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("opaque")))
}
