package activity

import "time"

// Interval is a span of time whose end may not be known yet. A sleep in
// progress is an open interval; ending it is the only transition.
type Interval struct {
	Start time.Time
	End   *time.Time
}

// Open reports whether the interval has no recorded end.
func (iv Interval) Open() bool {
	return iv.End == nil
}

// Close returns the closed interval and its duration in whole minutes,
// rounded down. Closing twice or ending before the start is an error; the
// duration is computed exactly once, here.
func (iv Interval) Close(end time.Time) (Interval, int, error) {
	if !iv.Open() {
		return iv, 0, ErrAlreadyClosed
	}
	if end.Before(iv.Start) {
		return iv, 0, ErrEndBeforeStart
	}
	minutes := int(end.Sub(iv.Start) / time.Minute)
	return Interval{Start: iv.Start, End: &end}, minutes, nil
}
