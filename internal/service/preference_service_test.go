package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edustack/uni-schedule-api/internal/models"
	appErrors "github.com/edustack/uni-schedule-api/pkg/errors"
)

type teacherFinderStub struct{ teachers map[string]*models.Teacher }

func (s *teacherFinderStub) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	if teacher, ok := s.teachers[id]; ok {
		return teacher, nil
	}
	return nil, sql.ErrNoRows
}

type preferenceStoreStub struct {
	docs     map[string]*models.TeacherPreference
	upserted *models.TeacherPreference
}

func (s *preferenceStoreStub) GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error) {
	if doc, ok := s.docs[teacherID]; ok {
		return doc, nil
	}
	return nil, sql.ErrNoRows
}

func (s *preferenceStoreStub) Upsert(ctx context.Context, pref *models.TeacherPreference) error {
	s.upserted = pref
	return nil
}

func newPreferenceService(store *preferenceStoreStub) *PreferenceService {
	teachers := &teacherFinderStub{teachers: map[string]*models.Teacher{
		"t1": {ID: "t1", FullName: "Ada"},
	}}
	return NewPreferenceService(teachers, store)
}

func TestPreferenceGetMissingDocumentYieldsEmptyObject(t *testing.T) {
	svc := newPreferenceService(&preferenceStoreStub{})

	pref, err := svc.Get(context.Background(), "t1")
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(pref.Data))
}

func TestPreferenceGetUnknownTeacherIs404(t *testing.T) {
	svc := newPreferenceService(&preferenceStoreStub{})

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPreferenceUpdateStoresDocument(t *testing.T) {
	store := &preferenceStoreStub{}
	svc := newPreferenceService(store)

	pref, err := svc.Update(context.Background(), "t1", []byte(`{"preferred_days":["mon"]}`))
	require.NoError(t, err)
	require.NotNil(t, store.upserted)
	require.Equal(t, "t1", pref.TeacherID)
	require.JSONEq(t, `{"preferred_days":["mon"]}`, string(store.upserted.Data))
}

func TestPreferenceUpdateRejectsInvalidJSON(t *testing.T) {
	svc := newPreferenceService(&preferenceStoreStub{})

	_, err := svc.Update(context.Background(), "t1", []byte(`{broken`))
	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
