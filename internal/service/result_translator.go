package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edustack/uni-schedule-api/internal/dto"
	"github.com/edustack/uni-schedule-api/internal/models"
)

// translateAssignments converts solver-native records into normalized rows.
// Malformed records are dropped with a diagnostic; translation never fails
// as a whole. One record fans out into one row per group id (co-taught
// sections share course, teacher, room and timeslot).
//
// Subgroup splitting is not applied: every translated row carries
// subgroup_no = 1 regardless of stored SubgroupConstraints.
func translateAssignments(
	scheduleID string,
	records []dto.SolverAssignment,
	decodeMap map[string]int64,
	courseTypes map[string]models.CourseType,
	logger *zap.Logger,
) ([]models.Assignment, []string) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var warnings []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		logger.Warn("result translation diagnostic", zap.String("detail", msg))
	}

	assignments := make([]models.Assignment, 0, len(records))
	for _, record := range records {
		// Reverse the synthesized _{count}_{frequency} keying.
		courseID := record.CourseID
		if idx := strings.Index(courseID, "_"); idx >= 0 {
			courseID = courseID[:idx]
		}

		timeslotID, ok := decodeMap[record.Timeslot]
		if !ok {
			warn("unresolvable timeslot code %q for course %s", record.Timeslot, courseID)
			continue
		}

		if _, err := uuid.Parse(record.TeacherID); err != nil {
			warn("malformed teacher id %q for course %s", record.TeacherID, courseID)
			continue
		}

		// A malformed or missing room id means a remote/online session.
		var roomID *string
		if record.RoomID != nil && *record.RoomID != "" {
			if _, err := uuid.Parse(*record.RoomID); err == nil {
				value := *record.RoomID
				roomID = &value
			} else {
				warn("malformed room id %q for course %s; treating session as remote", *record.RoomID, courseID)
			}
		}

		courseType, ok := courseTypes[courseID]
		if !ok {
			courseType = models.CourseTypeLecture
		}

		for _, groupID := range record.GroupIDs {
			assignments = append(assignments, models.Assignment{
				ScheduleID: scheduleID,
				TimeslotID: timeslotID,
				GroupID:    groupID,
				SubgroupNo: 1,
				CourseID:   courseID,
				TeacherID:  record.TeacherID,
				RoomID:     roomID,
				CourseType: courseType,
			})
		}
	}
	return assignments, warnings
}
