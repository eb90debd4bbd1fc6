package activity

import (
	"fmt"
	"strings"
	"time"
)

// kindKeywords maps type hints to kinds. The table is ordered and the first
// kind with a matching keyword wins, so more specific word stems must appear
// in earlier rows when they overlap.
var kindKeywords = []struct {
	kind  Kind
	words []string
}{
	{KindSleep, []string{"sleep", "сон", "сна", "спит", "спал", "усну", "засну"}},
	{KindFeeding, []string{"feed", "корм", "кушал", "поел", "поела", "смес", "груд", "бутыл"}},
	{KindWalk, []string{"walk", "гул", "прогул"}},
	{KindDiaper, []string{"diaper", "подгуз", "памперс", "покакал", "пописал", "какал", "писал", "poop", "pee"}},
	{KindTemperature, []string{"temperature", "температур", "жар", "градус"}},
	{KindMedication, []string{"medication", "лекарств", "таблет", "сироп", "капли", "витамин"}},
	{KindMood, []string{"mood", "настроен", "капризн", "весел", "плакал", "плач"}},
}

var poopWords = []string{"покакал", "какал", "poop"}
var peeWords = []string{"пописал", "писал", "pee"}

// KindFromHint resolves a free-form type hint to a kind. The second return
// is false when nothing matches.
func KindFromHint(hint string) (Kind, bool) {
	hint = strings.ToLower(hint)
	for _, row := range kindKeywords {
		for _, w := range row.words {
			if strings.Contains(hint, w) {
				return row.kind, true
			}
		}
	}
	return "", false
}

// Classify resolves the type hint and normalizes the draft entry into a
// persistable record. It fills defaults, recomputes the interval duration
// from the endpoints when both are present, and rejects drafts that cannot
// become valid records.
func Classify(hint string, in Record, now time.Time) (*Record, error) {
	kind, ok := KindFromHint(hint)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, hint)
	}
	if in.ChildID == "" {
		return nil, ErrMissingChild
	}

	rec := in
	rec.Kind = kind
	if rec.Time.IsZero() {
		rec.Time = now.UTC()
	}

	if kind.Interval() && rec.EndTime != nil {
		// The endpoints are authoritative. A caller-supplied duration is
		// discarded, and an end before the start leaves the duration unset.
		if rec.EndTime.Before(rec.Time) {
			rec.DurationMinutes = nil
		} else {
			minutes := int(rec.EndTime.Sub(rec.Time) / time.Minute)
			rec.DurationMinutes = &minutes
		}
	}

	switch kind {
	case KindFeeding:
		if rec.FeedingType == "" {
			rec.FeedingType = "unknown"
		}
	case KindDiaper:
		if rec.DiaperType == "" {
			rec.DiaperType = diaperTypeFrom(hint + " " + rec.Notes)
		}
	case KindTemperature:
		if rec.Temperature == nil {
			return nil, fmt.Errorf("%w: temperature", ErrMissingField)
		}
	case KindMedication:
		if rec.MedicationName == "" {
			return nil, fmt.Errorf("%w: medication_name", ErrMissingField)
		}
	}

	return &rec, nil
}

func diaperTypeFrom(text string) string {
	text = strings.ToLower(text)
	for _, w := range poopWords {
		if strings.Contains(text, w) {
			return "poop"
		}
	}
	for _, w := range peeWords {
		if strings.Contains(text, w) {
			return "pee"
		}
	}
	return "both"
}
