package service

import (
	"context"

	"github.com/edustack/uni-schedule-api/internal/models"
	appErrors "github.com/edustack/uni-schedule-api/pkg/errors"
)

type lessonLister interface {
	List(ctx context.Context) ([]models.Lesson, error)
}

// CatalogService exposes read access to the scheduling catalog.
type CatalogService struct {
	teachers  teacherLister
	groups    groupLister
	courses   courseLister
	rooms     roomLister
	timeslots timeslotLister
	lessons   lessonLister
}

func NewCatalogService(
	teachers teacherLister,
	groups groupLister,
	courses courseLister,
	rooms roomLister,
	timeslots timeslotLister,
	lessons lessonLister,
) *CatalogService {
	return &CatalogService{
		teachers:  teachers,
		groups:    groups,
		courses:   courses,
		rooms:     rooms,
		timeslots: timeslots,
		lessons:   lessons,
	}
}

func (s *CatalogService) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	teachers, err := s.teachers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

func (s *CatalogService) ListGroups(ctx context.Context) ([]models.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list groups")
	}
	return groups, nil
}

func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

func (s *CatalogService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// ListTimeslots returns the timeslot grid together with the solver-facing
// code of each slot.
func (s *CatalogService) ListTimeslots(ctx context.Context) ([]models.TimeslotView, error) {
	slots, err := s.timeslots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timeslots")
	}
	views := make([]models.TimeslotView, 0, len(slots))
	for _, slot := range slots {
		views = append(views, models.TimeslotView{Timeslot: slot, Code: EncodeTimeslot(slot)})
	}
	return views, nil
}

func (s *CatalogService) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	lessons, err := s.lessons.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, nil
}
