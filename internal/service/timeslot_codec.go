package service

import (
	"fmt"
	"strings"

	"github.com/edustack/uni-schedule-api/internal/models"
)

// Timeslot codes follow "{day}.{frequency}.{lesson}", e.g. "mon.all.1".
// The maps are rebuilt from the reference rows on every call; the grid is
// small and stable, so no shared cache is kept.

var dayNames = map[int]string{
	1: "mon",
	2: "tue",
	3: "wed",
	4: "thu",
	5: "fri",
	6: "sat",
	7: "sun",
}

// dayName maps 1-7 to a three-letter abbreviation. Out-of-range days yield
// the literal "unknown" rather than an error; timeslot reference data is
// trusted to be valid.
func dayName(day int) string {
	if name, ok := dayNames[day]; ok {
		return name
	}
	return "unknown"
}

// EncodeTimeslot renders the canonical string code for a timeslot.
func EncodeTimeslot(ts models.Timeslot) string {
	return fmt.Sprintf("%s.%s.%d", dayName(ts.Day), strings.ToLower(string(ts.Frequency)), ts.LessonID)
}

// EncodeTimeslotMap builds the id-to-code dictionary for a timeslot set.
func EncodeTimeslotMap(slots []models.Timeslot) map[int64]string {
	result := make(map[int64]string, len(slots))
	for _, ts := range slots {
		result[ts.ID] = EncodeTimeslot(ts)
	}
	return result
}

// DecodeTimeslotMap builds the code-to-id dictionary for a timeslot set.
func DecodeTimeslotMap(slots []models.Timeslot) map[string]int64 {
	result := make(map[string]int64, len(slots))
	for _, ts := range slots {
		result[EncodeTimeslot(ts)] = ts.ID
	}
	return result
}
