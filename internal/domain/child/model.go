package child

import "time"

// Caregiver is an external chat identity allowed to write to the diary.
type Caregiver struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Child is the subject of diary entries.
type Child struct {
	ID          string     `json:"id"`
	CaregiverID string     `json:"caregiver_id"`
	Name        string     `json:"name"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AgeMonths returns the child's age in whole months at t, or -1 when the
// birth date is unknown.
func (c *Child) AgeMonths(t time.Time) int {
	if c.BirthDate == nil {
		return -1
	}
	months := (t.Year()-c.BirthDate.Year())*12 + int(t.Month()) - int(c.BirthDate.Month())
	if t.Day() < c.BirthDate.Day() {
		months--
	}
	if months < 0 {
		return -1
	}
	return months
}
