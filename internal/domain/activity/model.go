package activity

import "time"

// Kind identifies the category of a logged activity.
type Kind string

const (
	KindSleep       Kind = "sleep"
	KindFeeding     Kind = "feeding"
	KindWalk        Kind = "walk"
	KindDiaper      Kind = "diaper"
	KindTemperature Kind = "temperature"
	KindMedication  Kind = "medication"
	KindMood        Kind = "mood"
)

// Interval reports whether records of this kind span an interval with a
// separately recorded end, rather than a single instant.
func (k Kind) Interval() bool {
	return k == KindSleep || k == KindWalk
}

// Record is a single diary entry. It is a flat union across kinds: Time is
// the primary timestamp (the start for interval kinds), and the optional
// fields carry values only for the kinds they belong to.
type Record struct {
	ID              string     `json:"id"`
	ChildID         string     `json:"child_id"`
	Kind            Kind       `json:"type"`
	Time            time.Time  `json:"time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int       `json:"duration_minutes,omitempty"`

	// feeding
	FeedingType string `json:"feeding_type,omitempty"`
	AmountML    *int   `json:"amount_ml,omitempty"`
	FoodName    string `json:"food_name,omitempty"`
	Side        string `json:"side,omitempty"`

	// sleep and walk
	Quality  string `json:"quality,omitempty"`
	Location string `json:"location,omitempty"`
	Weather  string `json:"weather,omitempty"`

	// diaper
	DiaperType  string `json:"diaper_type,omitempty"`
	Consistency string `json:"consistency,omitempty"`
	Color       string `json:"color,omitempty"`

	// temperature
	Temperature     *float64 `json:"temperature,omitempty"`
	MeasurementType string   `json:"measurement_type,omitempty"`

	// medication
	MedicationName string `json:"medication_name,omitempty"`
	Dosage         string `json:"dosage,omitempty"`

	// mood
	Mood      string `json:"mood,omitempty"`
	Intensity string `json:"intensity,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Interval views the record's endpoints as an open or closed interval.
func (r *Record) Interval() Interval {
	return Interval{Start: r.Time, End: r.EndTime}
}

// TodaySnapshot groups a child's records for one civil day by kind.
type TodaySnapshot struct {
	Date        string   `json:"date"`
	Sleep       []Record `json:"sleep"`
	Feeding     []Record `json:"feeding"`
	Walk        []Record `json:"walk"`
	Diaper      []Record `json:"diaper"`
	Temperature []Record `json:"temperature"`
	Medication  []Record `json:"medication"`
	Mood        []Record `json:"mood"`
}

// DailySummary is an aggregated view of one civil day.
type DailySummary struct {
	Date              string   `json:"date"`
	SleepCount        int      `json:"sleep_count"`
	SleepMinutes      int      `json:"sleep_minutes"`
	FeedingCount      int      `json:"feeding_count"`
	FeedingML         int      `json:"feeding_ml"`
	WalkCount         int      `json:"walk_count"`
	WalkMinutes       int      `json:"walk_minutes"`
	DiaperPee         int      `json:"diaper_pee"`
	DiaperPoop        int      `json:"diaper_poop"`
	DiaperBoth        int      `json:"diaper_both"`
	LatestTemperature *float64 `json:"latest_temperature,omitempty"`
}
