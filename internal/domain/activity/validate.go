package activity

import "fmt"

// Validation is the advisory result of a plausibility check. An implausible
// duration never blocks persistence; the reason is surfaced so the caregiver
// can be asked to confirm.
type Validation struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// DurationLimits holds the plausibility thresholds in minutes.
type DurationLimits struct {
	SleepMax   int `yaml:"sleep_max"`
	SleepMin   int `yaml:"sleep_min"`
	FeedingMax int `yaml:"feeding_max"`
	WalkMax    int `yaml:"walk_max"`
}

// DefaultDurationLimits returns the built-in thresholds.
func DefaultDurationLimits() DurationLimits {
	return DurationLimits{SleepMax: 720, SleepMin: 10, FeedingMax: 60, WalkMax: 300}
}

// Validate checks whether a duration is plausible for the kind. Kinds
// without thresholds are always valid.
func (l DurationLimits) Validate(kind Kind, minutes int) Validation {
	switch kind {
	case KindSleep:
		if minutes > l.SleepMax {
			return Validation{Reason: fmt.Sprintf("сон длиннее %d часов маловероятен", l.SleepMax/60)}
		}
		if minutes < l.SleepMin {
			return Validation{Reason: fmt.Sprintf("сон короче %d минут маловероятен", l.SleepMin)}
		}
	case KindFeeding:
		if minutes > l.FeedingMax {
			return Validation{Reason: fmt.Sprintf("кормление обычно не длится больше %d минут", l.FeedingMax)}
		}
	case KindWalk:
		if minutes > l.WalkMax {
			return Validation{Reason: fmt.Sprintf("прогулка длиннее %d часов маловероятна", l.WalkMax/60)}
		}
	}
	return Validation{Valid: true}
}
