package mcp

import (
	"time"

	"github.com/pkazmin/babylog/internal/domain/activity"
	"github.com/pkazmin/babylog/internal/domain/child"
)

// Tool parameters are deliberately flat and tolerant: the calling agent may
// pass partial or redundant fields, and timestamps arrive as ISO 8601 strings.

type LogActivityParams struct {
	ActivityType    string   `json:"activity_type" jsonschema:"Activity type hint, e.g. sleep, feeding, walk, diaper, temperature, medication, mood (Russian keywords also work)"`
	ChildID         string   `json:"child_id" jsonschema:"Child ID"`
	Time            string   `json:"time,omitempty" jsonschema:"ISO 8601 timestamp; the start for sleep and walk; defaults to now"`
	EndTime         string   `json:"end_time,omitempty" jsonschema:"ISO 8601 end timestamp for sleep and walk"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" jsonschema:"Duration in minutes; ignored when both time and end_time are given"`
	FeedingType     string   `json:"feeding_type,omitempty" jsonschema:"breast, bottle, solid or unknown"`
	AmountML        *int     `json:"amount_ml,omitempty"`
	FoodName        string   `json:"food_name,omitempty"`
	Side            string   `json:"side,omitempty" jsonschema:"left or right, for breast feeding"`
	Quality         string   `json:"quality,omitempty"`
	Location        string   `json:"location,omitempty"`
	Weather         string   `json:"weather,omitempty"`
	DiaperType      string   `json:"diaper_type,omitempty" jsonschema:"pee, poop or both"`
	Consistency     string   `json:"consistency,omitempty"`
	Color           string   `json:"color,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty" jsonschema:"Body temperature in Celsius"`
	MeasurementType string   `json:"measurement_type,omitempty"`
	MedicationName  string   `json:"medication_name,omitempty"`
	Dosage          string   `json:"dosage,omitempty"`
	Mood            string   `json:"mood,omitempty"`
	Intensity       string   `json:"intensity,omitempty" jsonschema:"How pronounced the mood is, e.g. 'сильно', 'немного'"`
	Notes           string   `json:"notes,omitempty"`
}

type LogActivityResult struct {
	Activity *activity.Record `json:"activity,omitempty"`
	Warning  string           `json:"warning,omitempty" jsonschema:"Advisory plausibility warning; the record was stored anyway"`
	Error    string           `json:"error,omitempty"`
}

type EndSleepParams struct {
	ChildID string `json:"child_id" jsonschema:"Child ID"`
	EndTime string `json:"end_time,omitempty" jsonschema:"ISO 8601 wake-up time; defaults to now"`
}

type EndSleepResult struct {
	Activity *activity.Record `json:"activity,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type GetTodayActivitiesParams struct {
	ChildID string `json:"child_id" jsonschema:"Child ID"`
}

type GetTodayActivitiesResult struct {
	Activities *activity.TodaySnapshot `json:"activities,omitempty"`
	Error      string                  `json:"error,omitempty"`
}

type GetOpenSleepParams struct {
	ChildID string `json:"child_id" jsonschema:"Child ID"`
}

type GetOpenSleepResult struct {
	Open     bool             `json:"open"`
	Activity *activity.Record `json:"activity,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type ResolveTimeParams struct {
	Expression      string `json:"expression" jsonschema:"Russian relative time phrase, e.g. '2 часа назад', 'вчера вечером', 'в 15:30'"`
	Reference       string `json:"reference,omitempty" jsonschema:"ISO 8601 reference instant; defaults to now"`
	RelativeToEvent string `json:"relative_to_event,omitempty" jsonschema:"Event hint ('кормление' or 'сон') to anchor the phrase to the child's latest matching activity"`
	ChildID         string `json:"child_id,omitempty" jsonschema:"Required when relative_to_event is set"`
}

type ResolveTimeResult struct {
	Time  string `json:"time,omitempty" jsonschema:"Resolved ISO 8601 timestamp"`
	Error string `json:"error,omitempty"`
}

type ValidateActivityParams struct {
	ActivityType    string `json:"activity_type" jsonschema:"Activity type hint"`
	DurationMinutes *int   `json:"duration_minutes,omitempty" jsonschema:"Duration in minutes; omitting it skips the check"`
}

type ValidateActivityResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

type GetDailySummaryParams struct {
	ChildID string `json:"child_id" jsonschema:"Child ID"`
	Date    string `json:"date,omitempty" jsonschema:"Civil day as YYYY-MM-DD; defaults to today"`
}

type GetDailySummaryResult struct {
	Summary *activity.DailySummary `json:"summary,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

type RegisterCaregiverParams struct {
	ChatID string `json:"chat_id" jsonschema:"External chat identifier of the caregiver"`
	Name   string `json:"name,omitempty"`
}

type RegisterCaregiverResult struct {
	Caregiver *child.Caregiver `json:"caregiver,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type AddChildParams struct {
	ChatID    string `json:"chat_id" jsonschema:"Chat identifier of the registered caregiver"`
	Name      string `json:"name"`
	BirthDate string `json:"birth_date,omitempty" jsonschema:"YYYY-MM-DD"`
	Gender    string `json:"gender,omitempty"`
}

type AddChildResult struct {
	Child *child.Child `json:"child,omitempty"`
	Error string       `json:"error,omitempty"`
}

type ListChildrenParams struct {
	ChatID string `json:"chat_id" jsonschema:"Chat identifier of the registered caregiver"`
}

// ChildSummary is a child as the agent sees it, with the age precomputed so
// the agent never does calendar arithmetic itself.
type ChildSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Gender    string     `json:"gender,omitempty"`
	AgeMonths *int       `json:"age_months,omitempty" jsonschema:"Age in whole months, when the birth date is known"`
}

type ListChildrenResult struct {
	Children []ChildSummary `json:"children,omitempty"`
	Error    string         `json:"error,omitempty"`
}
