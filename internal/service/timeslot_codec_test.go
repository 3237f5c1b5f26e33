package service

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edustack/uni-schedule-api/internal/models"
)

func fullTimeslotGrid() []models.Timeslot {
	var slots []models.Timeslot
	var id int64
	for day := 1; day <= 5; day++ {
		for lesson := 1; lesson <= 4; lesson++ {
			for _, freq := range []models.TimeslotFrequency{models.FrequencyAll, models.FrequencyOdd, models.FrequencyEven} {
				id++
				slots = append(slots, models.Timeslot{ID: id, Day: day, LessonID: lesson, Frequency: freq})
			}
		}
	}
	return slots
}

func TestEncodeTimeslotGrammar(t *testing.T) {
	pattern := regexp.MustCompile(`^(mon|tue|wed|thu|fri|sat|sun)\.(all|odd|even)\.[1-4]$`)
	for _, ts := range fullTimeslotGrid() {
		require.Regexp(t, pattern, EncodeTimeslot(ts))
	}
}

func TestEncodeTimeslotKnownValues(t *testing.T) {
	require.Equal(t, "mon.all.1", EncodeTimeslot(models.Timeslot{Day: 1, LessonID: 1, Frequency: models.FrequencyAll}))
	require.Equal(t, "wed.odd.3", EncodeTimeslot(models.Timeslot{Day: 3, LessonID: 3, Frequency: models.FrequencyOdd}))
	require.Equal(t, "sun.even.4", EncodeTimeslot(models.Timeslot{Day: 7, LessonID: 4, Frequency: models.FrequencyEven}))
}

func TestEncodeTimeslotUnknownDay(t *testing.T) {
	require.Equal(t, "unknown.all.1", EncodeTimeslot(models.Timeslot{Day: 0, LessonID: 1, Frequency: models.FrequencyAll}))
	require.Equal(t, "unknown.odd.2", EncodeTimeslot(models.Timeslot{Day: 8, LessonID: 2, Frequency: models.FrequencyOdd}))
}

func TestTimeslotMapsRoundTrip(t *testing.T) {
	slots := fullTimeslotGrid()
	encode := EncodeTimeslotMap(slots)
	decode := DecodeTimeslotMap(slots)

	require.Len(t, encode, len(slots))
	require.Len(t, decode, len(slots))
	for _, ts := range slots {
		code, ok := encode[ts.ID]
		require.True(t, ok)
		require.Equal(t, ts.ID, decode[code])
	}
}

func TestTimeslotMapsAreFreshPerCall(t *testing.T) {
	slots := fullTimeslotGrid()
	first := EncodeTimeslotMap(slots)
	first[999] = "tampered"

	second := EncodeTimeslotMap(slots)
	_, ok := second[999]
	require.False(t, ok)
}
