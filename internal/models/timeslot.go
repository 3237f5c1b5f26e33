package models

// TimeslotFrequency states how often a timeslot recurs: every week, odd
// weeks only or even weeks only.
type TimeslotFrequency string

const (
	FrequencyAll  TimeslotFrequency = "all"
	FrequencyOdd  TimeslotFrequency = "odd"
	FrequencyEven TimeslotFrequency = "even"
)

// Lesson is a fixed daily teaching period (1-4).
type Lesson struct {
	ID       int    `db:"id" json:"id"`
	StartsAt string `db:"starts_at" json:"starts_at"`
	EndsAt   string `db:"ends_at" json:"ends_at"`
}

// Timeslot is immutable reference data: the full cross product of
// day x lesson x frequency is pre-populated once.
type Timeslot struct {
	ID        int64             `db:"id" json:"id"`
	Day       int               `db:"day" json:"day"`
	LessonID  int               `db:"lesson_id" json:"lesson_id"`
	Frequency TimeslotFrequency `db:"frequency" json:"frequency"`
}

// TimeslotView decorates a timeslot with its solver-facing code.
type TimeslotView struct {
	Timeslot
	Code string `json:"code"`
}
