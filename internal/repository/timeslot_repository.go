package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edustack/uni-schedule-api/internal/models"
)

// TimeslotRepository reads the immutable timeslot reference grid.
type TimeslotRepository struct {
	db *sqlx.DB
}

// NewTimeslotRepository creates a new timeslot repository.
func NewTimeslotRepository(db *sqlx.DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

// List returns every timeslot ordered by id.
func (r *TimeslotRepository) List(ctx context.Context) ([]models.Timeslot, error) {
	const query = `SELECT id, day, lesson_id, frequency FROM timeslots ORDER BY id ASC`
	var slots []models.Timeslot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// LessonRepository reads the fixed daily lesson periods.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new lesson repository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// List returns all lesson periods ordered by id.
func (r *LessonRepository) List(ctx context.Context) ([]models.Lesson, error) {
	const query = `SELECT id, starts_at, ends_at FROM lessons ORDER BY id ASC`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query); err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}
