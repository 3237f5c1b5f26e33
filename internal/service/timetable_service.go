package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edustack/uni-schedule-api/internal/models"
	appErrors "github.com/edustack/uni-schedule-api/pkg/errors"
)

type scheduleReader interface {
	List(ctx context.Context) ([]models.Schedule, error)
	FindByID(ctx context.Context, id string) (*models.Schedule, error)
}

type assignmentReader interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.Assignment, error)
}

// TimetableService exposes read access to generated schedules.
type TimetableService struct {
	schedules   scheduleReader
	assignments assignmentReader
}

func NewTimetableService(schedules scheduleReader, assignments assignmentReader) *TimetableService {
	return &TimetableService{schedules: schedules, assignments: assignments}
}

func (s *TimetableService) ListSchedules(ctx context.Context) ([]models.Schedule, error) {
	schedules, err := s.schedules.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	return schedules, nil
}

// GetSchedule returns one schedule together with all of its assignments.
func (s *TimetableService) GetSchedule(ctx context.Context, id string) (*models.Schedule, []models.Assignment, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	assignments, err := s.assignments.ListBySchedule(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	return schedule, assignments, nil
}
