package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edustack/uni-schedule-api/internal/models"
)

// GroupCourseRepository reads group-to-course links with their cadence.
type GroupCourseRepository struct {
	db *sqlx.DB
}

// NewGroupCourseRepository creates a new group-course link repository.
func NewGroupCourseRepository(db *sqlx.DB) *GroupCourseRepository {
	return &GroupCourseRepository{db: db}
}

// List returns all group-course links ordered by id.
func (r *GroupCourseRepository) List(ctx context.Context) ([]models.GroupCourse, error) {
	const query = `SELECT id, group_id, course_id, count_per_week, frequency FROM group_courses ORDER BY id ASC`
	var links []models.GroupCourse
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("list group courses: %w", err)
	}
	return links, nil
}

// TeacherCourseRepository reads teacher-to-course links.
type TeacherCourseRepository struct {
	db *sqlx.DB
}

// NewTeacherCourseRepository creates a new teacher-course link repository.
func NewTeacherCourseRepository(db *sqlx.DB) *TeacherCourseRepository {
	return &TeacherCourseRepository{db: db}
}

// List returns all teacher-course links ordered by id.
func (r *TeacherCourseRepository) List(ctx context.Context) ([]models.TeacherCourse, error) {
	const query = `SELECT id, teacher_id, course_id FROM teacher_courses ORDER BY id ASC`
	var links []models.TeacherCourse
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("list teacher courses: %w", err)
	}
	return links, nil
}
