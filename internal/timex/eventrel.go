package timex

import (
	"context"
	"strings"
	"time"
)

// AnchorSource looks up the most recent anchor instant of an activity kind
// for a child. A zero time with a nil error means no anchor exists today.
type AnchorSource interface {
	LastFeedingTime(ctx context.Context, childID string) (time.Time, error)
	LastSleepStart(ctx context.Context, childID string) (time.Time, error)
}

// EventResolver resolves phrases like "через час после кормления" against the
// child's most recent matching activity. It is fail-open: any lookup problem
// or missing anchor degrades to the current instant rather than an error.
type EventResolver struct {
	source AnchorSource
	loc    *time.Location
	now    func() time.Time
}

// NewEventResolver builds an event-relative resolver over the given anchor
// source. now may be nil, in which case time.Now is used.
func NewEventResolver(source AnchorSource, loc *time.Location, now func() time.Time) *EventResolver {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EventResolver{source: source, loc: loc, now: now}
}

// ResolveRelativeToEvent maps the event hint onto a feeding or sleep anchor
// and shifts it by the offset phrase. "после"/"через" move forward,
// "до"/"перед" move back; a phrase with no direction or unit returns the
// anchor itself. Offsets go through the same idioms-first parsing as the
// plain resolver, so "полчаса после кормления" is 30 minutes, not 30 hours.
func (r *EventResolver) ResolveRelativeToEvent(ctx context.Context, eventHint, offsetExpr, childID string) time.Time {
	anchor, ok := r.anchorFor(ctx, eventHint, childID)
	if !ok {
		return anchor
	}

	expr := strings.ToLower(offsetExpr)
	sign := 0
	switch {
	case strings.Contains(expr, "после") || strings.Contains(expr, "через"):
		sign = 1
	case strings.Contains(expr, "до") || strings.Contains(expr, "перед"):
		sign = -1
	}
	if sign == 0 {
		return anchor
	}

	if d, ok := offsetDuration(expr); ok {
		return anchor.Add(time.Duration(sign) * d)
	}
	return anchor
}

// anchorFor returns the anchor instant and whether an offset should still be
// applied to it. Every fallback path reports false so the caller hands the
// current instant back untouched.
func (r *EventResolver) anchorFor(ctx context.Context, eventHint, childID string) (time.Time, bool) {
	hint := strings.ToLower(eventHint)
	var (
		anchor time.Time
		err    error
	)
	switch {
	case strings.Contains(hint, "корм") || strings.Contains(hint, "feed") || strings.Contains(hint, "еда") || strings.Contains(hint, "кушал"):
		anchor, err = r.source.LastFeedingTime(ctx, childID)
	case strings.Contains(hint, "сон") || strings.Contains(hint, "сна") || strings.Contains(hint, "спал") || strings.Contains(hint, "sleep"):
		anchor, err = r.source.LastSleepStart(ctx, childID)
	default:
		return r.now().In(r.loc), false
	}
	if err != nil || anchor.IsZero() {
		return r.now().In(r.loc), false
	}
	return anchor.In(r.loc), true
}
