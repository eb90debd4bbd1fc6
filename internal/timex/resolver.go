package timex

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DayPart is a named segment of the civil day with a fixed clock hour. When
// the phrase carries no explicit day marker, Rollover decides whether the
// part still refers to today: the part resolves only once the reference hour
// has reached Rollover, otherwise the reference is left untouched (a caregiver
// saying "утром" at 07:59 is still inside that morning). LateHour, when set,
// replaces Hour for phrases anchored to a past day ("вчера ночью" means late
// evening of that day, not 02:00).
type DayPart struct {
	Name     string
	Keywords []string
	Hour     int
	LateHour int
	Rollover int
}

// DefaultDayParts is the built-in day-part table.
func DefaultDayParts() []DayPart {
	return []DayPart{
		{Name: "morning", Keywords: []string{"утр"}, Hour: 8, Rollover: 12},
		{Name: "midday", Keywords: []string{"обед", "днем", "днём", "полдень"}, Hour: 13, Rollover: 15},
		{Name: "evening", Keywords: []string{"вечер"}, Hour: 19, Rollover: 21},
		{Name: "night", Keywords: []string{"ноч"}, Hour: 2, LateHour: 23, Rollover: 4},
	}
}

// dayMarker maps a day word to its offset in days from the reference date.
// "позавчера" is checked before "вчера" because the latter is its suffix.
var dayMarkers = []struct {
	word string
	days int
}{
	{"позавчера", -2},
	{"вчера", -1},
	{"сегодня", 0},
}

var immediateMarkers = []string{"сейчас", "только что"}

var (
	atClockRe   = regexp.MustCompile(`(?:^|\s)в\s+(\d{1,2}):(\d{2})`)
	atHourRe    = regexp.MustCompile(`(?:^|\s)в\s+(\d{1,2})\s*час`)
	bareClockRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
)

// Resolver turns Russian relative-time phrases into concrete instants in a
// fixed civil timezone. Resolve is total: anything it cannot interpret comes
// back as the reference instant unchanged.
type Resolver struct {
	loc      *time.Location
	dayParts []DayPart
}

// NewResolver builds a resolver for the given timezone. A nil location means
// the reference time's own location is used per call. Passing no day parts
// installs the defaults.
func NewResolver(loc *time.Location, dayParts ...DayPart) *Resolver {
	if len(dayParts) == 0 {
		dayParts = DefaultDayParts()
	}
	return &Resolver{loc: loc, dayParts: dayParts}
}

// Resolve interprets expr against the reference instant ref. Rules are tried
// in a fixed order; the first one that applies wins. Offsets use integer
// minute arithmetic; clock rules rebuild the instant from civil components.
func (r *Resolver) Resolve(expr string, ref time.Time) time.Time {
	loc := r.loc
	if loc == nil {
		loc = ref.Location()
	}
	ref = ref.In(loc)
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return ref
	}

	for _, marker := range immediateMarkers {
		if strings.Contains(expr, marker) {
			return ref
		}
	}

	base := ref
	hasDayMarker := false
	for _, m := range dayMarkers {
		if strings.Contains(expr, m.word) {
			base = ref.AddDate(0, 0, m.days)
			hasDayMarker = true
			break
		}
	}

	if t, ok := r.resolveDayPart(expr, ref, base, hasDayMarker, loc); ok {
		return t
	}

	if strings.Contains(expr, "назад") {
		if d, ok := offsetDuration(expr); ok {
			return ref.Add(-d)
		}
		return ref
	}
	if strings.Contains(expr, "через") {
		if d, ok := offsetDuration(expr); ok {
			return ref.Add(d)
		}
		return ref
	}

	if m := atClockRe.FindStringSubmatch(expr); m != nil {
		if t, ok := atClock(base, m[1], m[2], loc); ok {
			return t
		}
	}
	if m := atHourRe.FindStringSubmatch(expr); m != nil {
		if t, ok := atClock(base, m[1], "00", loc); ok {
			return t
		}
	}
	if m := bareClockRe.FindStringSubmatch(expr); m != nil {
		if t, ok := atClock(base, m[1], m[2], loc); ok {
			return t
		}
	}

	return ref
}

func (r *Resolver) resolveDayPart(expr string, ref, base time.Time, hasDayMarker bool, loc *time.Location) (time.Time, bool) {
	for _, part := range r.dayParts {
		if !containsAny(expr, part.Keywords) {
			continue
		}
		hour := part.Hour
		if hasDayMarker {
			if part.LateHour != 0 && base.Before(ref) {
				hour = part.LateHour
			}
			return dateAt(base, hour, 0, loc), true
		}
		if ref.Hour() >= part.Rollover {
			return dateAt(ref, hour, 0, loc), true
		}
		// Still inside the named part of today; nothing to adjust.
		return ref, true
	}
	return time.Time{}, false
}

// offsetDuration extracts the duration of a "назад"/"через" phrase. Idioms
// are checked before the generic number+unit path because their words would
// otherwise be picked apart by the extractor ("полтора часа" must not read
// as 1 hour).
func offsetDuration(expr string) (time.Duration, bool) {
	if strings.Contains(expr, "полтора") || strings.Contains(expr, "полутора") {
		return 90 * time.Minute, true
	}
	if strings.Contains(expr, "полчаса") {
		return 30 * time.Minute, true
	}
	n := Extract(expr)
	switch {
	case strings.Contains(expr, "минут"):
		return time.Duration(n) * time.Minute, true
	case strings.Contains(expr, "час"):
		return time.Duration(n) * time.Hour, true
	case strings.Contains(expr, "день") || strings.Contains(expr, "дня") || strings.Contains(expr, "дней"):
		return time.Duration(n) * 24 * time.Hour, true
	}
	return 0, false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func atClock(base time.Time, hourStr, minuteStr string, loc *time.Location) (time.Time, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	return dateAt(base, hour, minute, loc), true
}

func dateAt(base time.Time, hour, minute int, loc *time.Location) time.Time {
	y, m, d := base.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, loc)
}
