package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/edustack/uni-schedule-api/internal/dto"
	"github.com/edustack/uni-schedule-api/internal/models"
	appErrors "github.com/edustack/uni-schedule-api/pkg/errors"
)

type teacherLister interface {
	ListActive(ctx context.Context) ([]models.Teacher, error)
}

type groupLister interface {
	List(ctx context.Context) ([]models.Group, error)
}

type courseLister interface {
	List(ctx context.Context) ([]models.Course, error)
}

type roomLister interface {
	List(ctx context.Context) ([]models.Room, error)
}

type timeslotLister interface {
	List(ctx context.Context) ([]models.Timeslot, error)
}

type groupCourseLister interface {
	List(ctx context.Context) ([]models.GroupCourse, error)
}

type teacherCourseLister interface {
	List(ctx context.Context) ([]models.TeacherCourse, error)
}

type teacherAvailabilityReader interface {
	ListTimeslotIDs(ctx context.Context, teacherID string) ([]int64, error)
}

type groupUnavailabilityReader interface {
	ListTimeslotIDs(ctx context.Context, groupID string) ([]int64, error)
}

type preferenceReader interface {
	GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error)
}

// InstanceBuilderService assembles one complete solver instance from the
// relational catalog, link and availability readers.
type InstanceBuilderService struct {
	teachers       teacherLister
	groups         groupLister
	courses        courseLister
	rooms          roomLister
	timeslots      timeslotLister
	groupCourses   groupCourseLister
	teacherCourses teacherCourseLister
	availability   teacherAvailabilityReader
	unavailability groupUnavailabilityReader
	prefs          preferenceReader
	logger         *zap.Logger
}

// NewInstanceBuilderService wires the builder's readers.
func NewInstanceBuilderService(
	teachers teacherLister,
	groups groupLister,
	courses courseLister,
	rooms roomLister,
	timeslots timeslotLister,
	groupCourses groupCourseLister,
	teacherCourses teacherCourseLister,
	availability teacherAvailabilityReader,
	unavailability groupUnavailabilityReader,
	prefs preferenceReader,
	logger *zap.Logger,
) *InstanceBuilderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstanceBuilderService{
		teachers:       teachers,
		groups:         groups,
		courses:        courses,
		rooms:          rooms,
		timeslots:      timeslots,
		groupCourses:   groupCourses,
		teacherCourses: teacherCourses,
		availability:   availability,
		unavailability: unavailability,
		prefs:          prefs,
		logger:         logger,
	}
}

type courseEntryKey struct {
	CourseID     string
	TeacherID    string
	CountPerWeek int
	Frequency    models.CourseFrequency
}

// Build produces the full instance payload plus collected diagnostics.
// Data gaps never abort the build: unresolvable links are dropped, empty
// top-level categories only produce loud warnings for the caller to judge.
func (s *InstanceBuilderService) Build(ctx context.Context) (*dto.SolverInstance, []string, error) {
	var warnings []string
	warn := func(format string, args ...any) {
		msg := fmt.Sprintf(format, args...)
		warnings = append(warnings, msg)
		s.logger.Warn("instance builder diagnostic", zap.String("detail", msg))
	}

	slots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, warnings, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timeslots")
	}
	encodeMap := EncodeTimeslotMap(slots)
	allCodes := make([]string, 0, len(slots))
	for _, ts := range slots {
		allCodes = append(allCodes, encodeMap[ts.ID])
	}

	teachersPayload, err := s.buildTeachers(ctx, encodeMap, allCodes, warn)
	if err != nil {
		return nil, warnings, err
	}

	groupsPayload, err := s.buildGroups(ctx, encodeMap, warn)
	if err != nil {
		return nil, warnings, err
	}

	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, warnings, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	roomsPayload := make([]dto.RoomPayload, 0, len(rooms))
	for _, room := range rooms {
		roomsPayload = append(roomsPayload, dto.RoomPayload{ID: room.ID, Name: room.Name, Capacity: room.Capacity})
	}

	coursesPayload, err := s.buildCourses(ctx, warn)
	if err != nil {
		return nil, warnings, err
	}

	// An empty top-level category guarantees an infeasible or meaningless
	// instance; the build still completes and the caller decides.
	if len(coursesPayload) == 0 {
		warn("no course entries resolved; the instance cannot be solved")
	}
	if len(teachersPayload) == 0 {
		warn("no teachers loaded; the instance cannot be solved")
	}
	if len(groupsPayload) == 0 {
		warn("no groups loaded; the instance cannot be solved")
	}
	if len(roomsPayload) == 0 {
		warn("no rooms loaded; the instance cannot be solved")
	}
	if len(allCodes) == 0 {
		warn("no timeslots loaded; the instance cannot be solved")
	}

	instance := &dto.SolverInstance{
		Teachers:  teachersPayload,
		Groups:    groupsPayload,
		Rooms:     roomsPayload,
		Courses:   coursesPayload,
		Timeslots: allCodes,
	}
	return instance, warnings, nil
}

func (s *InstanceBuilderService) buildTeachers(ctx context.Context, encodeMap map[int64]string, allCodes []string, warn func(string, ...any)) ([]dto.TeacherPayload, error) {
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}

	payload := make([]dto.TeacherPayload, 0, len(teachers))
	for _, teacher := range teachers {
		ids, err := s.availability.ListTimeslotIDs(ctx, teacher.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher availability")
		}

		var available []string
		if len(ids) == 0 {
			// No availability rows means open-by-default, never closed.
			available = append([]string(nil), allCodes...)
			warn("teacher %s has no availability rows; assuming available at all %d timeslots", teacher.ID, len(allCodes))
		} else {
			available = make([]string, 0, len(ids))
			for _, id := range ids {
				code, ok := encodeMap[id]
				if !ok {
					warn("teacher %s references unknown timeslot id %d; skipping", teacher.ID, id)
					continue
				}
				available = append(available, code)
			}
		}

		prefs, err := s.buildPreferences(ctx, teacher.ID)
		if err != nil {
			return nil, err
		}

		payload = append(payload, dto.TeacherPayload{
			ID:          teacher.ID,
			Name:        teacher.FullName,
			Available:   available,
			Preferences: prefs,
		})
	}
	return payload, nil
}

// buildPreferences extracts only the non-empty preferred_days/avoid_slots
// hints; a teacher without a document (or with nothing useful in it) gets
// an empty object.
func (s *InstanceBuilderService) buildPreferences(ctx context.Context, teacherID string) (map[string]any, error) {
	prefs := make(map[string]any)
	record, err := s.prefs.GetByTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return prefs, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}

	var hints models.PreferenceHints
	if err := json.Unmarshal(record.Data, &hints); err != nil {
		s.logger.Warn("malformed teacher preference document",
			zap.String("teacher_id", teacherID),
			zap.Error(err))
		return prefs, nil
	}
	if len(hints.PreferredDays) > 0 {
		prefs["preferred_days"] = hints.PreferredDays
	}
	if len(hints.AvoidSlots) > 0 {
		prefs["avoid_slots"] = hints.AvoidSlots
	}
	return prefs, nil
}

func (s *InstanceBuilderService) buildGroups(ctx context.Context, encodeMap map[int64]string, warn func(string, ...any)) ([]dto.GroupPayload, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load groups")
	}

	payload := make([]dto.GroupPayload, 0, len(groups))
	for _, group := range groups {
		ids, err := s.unavailability.ListTimeslotIDs(ctx, group.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group unavailability")
		}

		// Closed-by-default: no rows means the group is blocked nowhere.
		unavailable := make([]string, 0, len(ids))
		for _, id := range ids {
			code, ok := encodeMap[id]
			if !ok {
				warn("group %s references unknown timeslot id %d; skipping", group.ID, id)
				continue
			}
			unavailable = append(unavailable, code)
		}

		payload = append(payload, dto.GroupPayload{
			ID:            group.ID,
			Name:          group.Name,
			Size:          group.Size,
			ParentGroupID: group.ParentGroupID,
			Unavailable:   unavailable,
		})
	}
	return payload, nil
}

func (s *InstanceBuilderService) buildCourses(ctx context.Context, warn func(string, ...any)) ([]dto.CoursePayload, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	courseByID := make(map[string]models.Course, len(courses))
	for _, course := range courses {
		courseByID[course.ID] = course
	}

	teacherLinks, err := s.teacherCourses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher-course links")
	}
	// Deterministic tie-break: the lowest teacher id wins when several
	// teachers are linked to one course.
	teacherByCourse := make(map[string]string, len(teacherLinks))
	for _, link := range teacherLinks {
		current, ok := teacherByCourse[link.CourseID]
		if !ok || link.TeacherID < current {
			teacherByCourse[link.CourseID] = link.TeacherID
		}
	}

	groupLinks, err := s.groupCourses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load group-course links")
	}

	entries := make(map[courseEntryKey][]string)
	order := make([]courseEntryKey, 0, len(groupLinks))
	variants := make(map[string]int)
	for _, link := range groupLinks {
		if _, ok := courseByID[link.CourseID]; !ok {
			warn("group-course link %s references missing course %s; dropping", link.ID, link.CourseID)
			continue
		}
		teacherID, ok := teacherByCourse[link.CourseID]
		if !ok {
			warn("course %s has no linked teacher; dropping group-course link %s", link.CourseID, link.ID)
			continue
		}

		key := courseEntryKey{
			CourseID:     link.CourseID,
			TeacherID:    teacherID,
			CountPerWeek: link.CountPerWeek,
			Frequency:    link.Frequency,
		}
		if _, ok := entries[key]; !ok {
			order = append(order, key)
			variants[link.CourseID]++
		}
		entries[key] = append(entries[key], link.GroupID)
	}

	payload := make([]dto.CoursePayload, 0, len(order))
	for _, key := range order {
		course := courseByID[key.CourseID]
		id := key.CourseID
		if variants[key.CourseID] > 1 {
			// One underlying course offered with different cadences forks
			// into distinct solver-facing entries.
			id = fmt.Sprintf("%s_%d_%s", key.CourseID, key.CountPerWeek, key.Frequency)
		}
		payload = append(payload, dto.CoursePayload{
			ID:              id,
			Name:            course.Name,
			TeacherID:       key.TeacherID,
			CountPerWeek:    key.CountPerWeek,
			Frequency:       string(key.Frequency),
			DurationMinutes: course.DurationMinutes,
			GroupIDs:        entries[key],
		})
	}
	return payload, nil
}
