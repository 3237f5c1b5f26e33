package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edustack/uni-schedule-api/internal/dto"
	"github.com/edustack/uni-schedule-api/internal/models"
)

type builderFixture struct {
	teachers       []models.Teacher
	groups         []models.Group
	courses        []models.Course
	rooms          []models.Room
	timeslots      []models.Timeslot
	groupCourses   []models.GroupCourse
	teacherCourses []models.TeacherCourse
	availability   map[string][]int64
	unavailability map[string][]int64
	preferences    map[string]*models.TeacherPreference
}

func (f *builderFixture) ListActive(ctx context.Context) ([]models.Teacher, error) { return f.teachers, nil }
func (f *builderFixture) List(ctx context.Context) ([]models.Group, error)         { return f.groups, nil }

type courseStub struct{ courses []models.Course }

func (s *courseStub) List(ctx context.Context) ([]models.Course, error) { return s.courses, nil }

type roomStub struct{ rooms []models.Room }

func (s *roomStub) List(ctx context.Context) ([]models.Room, error) { return s.rooms, nil }

type timeslotStub struct{ slots []models.Timeslot }

func (s *timeslotStub) List(ctx context.Context) ([]models.Timeslot, error) { return s.slots, nil }

type groupCourseStub struct{ links []models.GroupCourse }

func (s *groupCourseStub) List(ctx context.Context) ([]models.GroupCourse, error) {
	return s.links, nil
}

type teacherCourseStub struct{ links []models.TeacherCourse }

func (s *teacherCourseStub) List(ctx context.Context) ([]models.TeacherCourse, error) {
	return s.links, nil
}

type availabilityStub struct{ rows map[string][]int64 }

func (s *availabilityStub) ListTimeslotIDs(ctx context.Context, teacherID string) ([]int64, error) {
	return s.rows[teacherID], nil
}

type unavailabilityStub struct{ rows map[string][]int64 }

func (s *unavailabilityStub) ListTimeslotIDs(ctx context.Context, groupID string) ([]int64, error) {
	return s.rows[groupID], nil
}

type preferenceStub struct{ docs map[string]*models.TeacherPreference }

func (s *preferenceStub) GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error) {
	if doc, ok := s.docs[teacherID]; ok {
		return doc, nil
	}
	return nil, sql.ErrNoRows
}

func newBuilder(f *builderFixture) *InstanceBuilderService {
	return NewInstanceBuilderService(
		f,
		f,
		&courseStub{courses: f.courses},
		&roomStub{rooms: f.rooms},
		&timeslotStub{slots: f.timeslots},
		&groupCourseStub{links: f.groupCourses},
		&teacherCourseStub{links: f.teacherCourses},
		&availabilityStub{rows: f.availability},
		&unavailabilityStub{rows: f.unavailability},
		&preferenceStub{docs: f.preferences},
		zap.NewNop(),
	)
}

func smallGrid() []models.Timeslot {
	return []models.Timeslot{
		{ID: 1, Day: 1, LessonID: 1, Frequency: models.FrequencyAll},
		{ID: 2, Day: 1, LessonID: 2, Frequency: models.FrequencyAll},
		{ID: 3, Day: 2, LessonID: 1, Frequency: models.FrequencyOdd},
	}
}

func TestBuildTeacherWithoutAvailabilityIsOpenEverywhere(t *testing.T) {
	fixture := &builderFixture{
		teachers:  []models.Teacher{{ID: "t1", FullName: "Ada"}},
		timeslots: smallGrid(),
	}
	instance, warnings, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, instance.Teachers, 1)
	require.ElementsMatch(t, []string{"mon.all.1", "mon.all.2", "tue.odd.1"}, instance.Teachers[0].Available)
	require.NotEmpty(t, warnings)
}

func TestBuildTeacherAvailabilityIsExplicitWhenRowsExist(t *testing.T) {
	fixture := &builderFixture{
		teachers:     []models.Teacher{{ID: "t1", FullName: "Ada"}},
		timeslots:    smallGrid(),
		availability: map[string][]int64{"t1": {1, 3}},
	}
	instance, _, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"mon.all.1", "tue.odd.1"}, instance.Teachers[0].Available)
}

func TestBuildGroupWithoutRowsIsBlockedNowhere(t *testing.T) {
	fixture := &builderFixture{
		groups:    []models.Group{{ID: "g1", Name: "CS-101"}},
		timeslots: smallGrid(),
	}
	instance, _, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, instance.Groups, 1)
	require.Empty(t, instance.Groups[0].Unavailable)
	require.NotNil(t, instance.Groups[0].Unavailable)
}

func TestBuildPreferencesForwardOnlyNonEmptyHints(t *testing.T) {
	fixture := &builderFixture{
		teachers:  []models.Teacher{{ID: "t1", FullName: "Ada"}, {ID: "t2", FullName: "Grace"}},
		timeslots: smallGrid(),
		preferences: map[string]*models.TeacherPreference{
			"t1": {TeacherID: "t1", Data: types.JSONText(`{"preferred_days":["mon"],"avoid_slots":[],"note":"ignored"}`)},
		},
	}
	instance, _, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)

	byID := map[string]dto.TeacherPayload{}
	for _, p := range instance.Teachers {
		byID[p.ID] = p
	}
	require.Equal(t, map[string]any{"preferred_days": []string{"mon"}}, byID["t1"].Preferences)
	require.Empty(t, byID["t2"].Preferences)
	require.NotNil(t, byID["t2"].Preferences)
}

func TestBuildCourseForksPerCadenceVariant(t *testing.T) {
	fixture := &builderFixture{
		teachers:  []models.Teacher{{ID: "t1", FullName: "Ada"}},
		groups:    []models.Group{{ID: "g1"}, {ID: "g2"}},
		courses:   []models.Course{{ID: "c1", Name: "Algebra", DurationMinutes: 90}},
		timeslots: smallGrid(),
		teacherCourses: []models.TeacherCourse{
			{ID: "tc1", TeacherID: "t1", CourseID: "c1"},
		},
		groupCourses: []models.GroupCourse{
			{ID: "gc1", GroupID: "g1", CourseID: "c1", CountPerWeek: 2, Frequency: models.CourseFrequencyWeekly},
			{ID: "gc2", GroupID: "g2", CourseID: "c1", CountPerWeek: 1, Frequency: models.CourseFrequencyOdd},
		},
	}
	instance, _, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, instance.Courses, 2)

	ids := []string{instance.Courses[0].ID, instance.Courses[1].ID}
	require.ElementsMatch(t, []string{"c1_2_weekly", "c1_1_odd"}, ids)
}

func TestBuildCourseSingleVariantKeepsPlainID(t *testing.T) {
	fixture := &builderFixture{
		teachers:  []models.Teacher{{ID: "t1", FullName: "Ada"}},
		groups:    []models.Group{{ID: "g1"}, {ID: "g2"}},
		courses:   []models.Course{{ID: "c1", Name: "Algebra"}},
		timeslots: smallGrid(),
		teacherCourses: []models.TeacherCourse{
			{ID: "tc1", TeacherID: "t1", CourseID: "c1"},
		},
		groupCourses: []models.GroupCourse{
			{ID: "gc1", GroupID: "g1", CourseID: "c1", CountPerWeek: 2, Frequency: models.CourseFrequencyWeekly},
			{ID: "gc2", GroupID: "g2", CourseID: "c1", CountPerWeek: 2, Frequency: models.CourseFrequencyWeekly},
		},
	}
	instance, _, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, instance.Courses, 1)
	require.Equal(t, "c1", instance.Courses[0].ID)
	require.ElementsMatch(t, []string{"g1", "g2"}, instance.Courses[0].GroupIDs)
	require.Equal(t, 2, instance.Courses[0].CountPerWeek)
}

func TestBuildLowestTeacherIDWinsTie(t *testing.T) {
	fixture := &builderFixture{
		teachers:  []models.Teacher{{ID: "t1"}, {ID: "t2"}},
		groups:    []models.Group{{ID: "g1"}},
		courses:   []models.Course{{ID: "c1", Name: "Algebra"}},
		timeslots: smallGrid(),
		teacherCourses: []models.TeacherCourse{
			{ID: "tc1", TeacherID: "t2", CourseID: "c1"},
			{ID: "tc2", TeacherID: "t1", CourseID: "c1"},
		},
		groupCourses: []models.GroupCourse{
			{ID: "gc1", GroupID: "g1", CourseID: "c1", CountPerWeek: 1, Frequency: models.CourseFrequencyWeekly},
		},
	}
	instance, _, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, instance.Courses, 1)
	require.Equal(t, "t1", instance.Courses[0].TeacherID)
}

func TestBuildDropsLinksWithoutCourseOrTeacher(t *testing.T) {
	fixture := &builderFixture{
		teachers:  []models.Teacher{{ID: "t1"}},
		groups:    []models.Group{{ID: "g1"}},
		courses:   []models.Course{{ID: "c1", Name: "Algebra"}},
		timeslots: smallGrid(),
		groupCourses: []models.GroupCourse{
			{ID: "gc1", GroupID: "g1", CourseID: "c1", CountPerWeek: 1, Frequency: models.CourseFrequencyWeekly},
			{ID: "gc2", GroupID: "g1", CourseID: "missing", CountPerWeek: 1, Frequency: models.CourseFrequencyWeekly},
		},
	}
	instance, warnings, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, instance.Courses)
	// Both the orphan course and the teacherless link produce diagnostics.
	require.GreaterOrEqual(t, len(warnings), 2)
}

func TestBuildSingleTeacherInstanceShape(t *testing.T) {
	fixture := &builderFixture{
		teachers:  []models.Teacher{{ID: "t1", FullName: "Ada"}},
		groups:    []models.Group{{ID: "g1", Name: "CS-101", Size: 25}},
		courses:   []models.Course{{ID: "c1", Name: "Algebra", DurationMinutes: 90}},
		rooms:     []models.Room{{ID: "r1", Name: "A-100", Capacity: 30}},
		timeslots: smallGrid(),
		teacherCourses: []models.TeacherCourse{
			{ID: "tc1", TeacherID: "t1", CourseID: "c1"},
		},
		groupCourses: []models.GroupCourse{
			{ID: "gc1", GroupID: "g1", CourseID: "c1", CountPerWeek: 2, Frequency: models.CourseFrequencyWeekly},
		},
	}
	instance, warnings, err := newBuilder(fixture).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, instance.Teachers, 1)
	require.Len(t, instance.Groups, 1)
	require.Len(t, instance.Rooms, 1)
	require.Len(t, instance.Courses, 1)
	require.Len(t, instance.Timeslots, len(smallGrid()))

	// Open-by-default teacher spans the whole grid.
	require.Len(t, instance.Teachers[0].Available, len(instance.Timeslots))
	require.Equal(t, "c1", instance.Courses[0].ID)
	require.Equal(t, "t1", instance.Courses[0].TeacherID)
	require.Equal(t, 2, instance.Courses[0].CountPerWeek)
	require.Equal(t, []string{"g1"}, instance.Courses[0].GroupIDs)
	// Only the availability assumption is reported.
	require.Len(t, warnings, 1)
}

func TestBuildEmptyCatalogWarnsButSucceeds(t *testing.T) {
	instance, warnings, err := newBuilder(&builderFixture{}).Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, instance)
	require.GreaterOrEqual(t, len(warnings), 5)
}
