package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/edustack/uni-schedule-api/internal/models"
	appErrors "github.com/edustack/uni-schedule-api/pkg/errors"
)

type teacherFinder interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type preferenceStore interface {
	GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error)
	Upsert(ctx context.Context, pref *models.TeacherPreference) error
}

// PreferenceService manages the opaque per-teacher preference documents the
// instance builder forwards to the solver.
type PreferenceService struct {
	teachers teacherFinder
	prefs    preferenceStore
}

func NewPreferenceService(teachers teacherFinder, prefs preferenceStore) *PreferenceService {
	return &PreferenceService{teachers: teachers, prefs: prefs}
}

// Get returns the stored document; a teacher without one gets an empty
// object rather than a 404.
func (s *PreferenceService) Get(ctx context.Context, teacherID string) (*models.TeacherPreference, error) {
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	pref, err := s.prefs.GetByTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.TeacherPreference{TeacherID: teacherID, Data: []byte("{}")}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}
	return pref, nil
}

// Update replaces the teacher's preference document wholesale.
func (s *PreferenceService) Update(ctx context.Context, teacherID string, data json.RawMessage) (*models.TeacherPreference, error) {
	if len(data) > 0 && !json.Valid(data) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "preference document is not valid JSON")
	}
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	pref := &models.TeacherPreference{TeacherID: teacherID, Data: []byte(data)}
	if err := s.prefs.Upsert(ctx, pref); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store teacher preferences")
	}
	return pref, nil
}
