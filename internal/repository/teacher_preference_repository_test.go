package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/edustack/uni-schedule-api/internal/models"
)

func TestTeacherPreferenceGetByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTeacherPreferenceRepository(db)
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "data", "created_at", "updated_at"}).
		AddRow("p1", "t1", []byte(`{"preferred_days":["mon"]}`), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, data")).
		WithArgs("t1").
		WillReturnRows(rows)

	pref, err := repo.GetByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	require.JSONEq(t, `{"preferred_days":["mon"]}`, string(pref.Data))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherPreferenceGetByTeacherNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTeacherPreferenceRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, teacher_id, data")).
		WithArgs("t1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByTeacher(context.Background(), "t1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherPreferenceUpsertFillsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTeacherPreferenceRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO teacher_preferences")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	pref := &models.TeacherPreference{TeacherID: "t1"}
	require.NoError(t, repo.Upsert(context.Background(), pref))
	require.NotEmpty(t, pref.ID)
	require.JSONEq(t, `{}`, string(pref.Data))
	require.False(t, pref.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
