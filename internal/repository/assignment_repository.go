package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/edustack/uni-schedule-api/internal/models"
)

// AssignmentRepository persists normalized schedule assignments.
//
// The assignments table carries unique constraints on
// (schedule_id, timeslot_id, group_id, subgroup_no),
// (schedule_id, timeslot_id, teacher_id) and
// (schedule_id, timeslot_id, room_id); inserts violating them fail.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// BulkCreateWithTx inserts assignments using an existing transaction so the
// parent schedule and its assignments commit or roll back together.
func (r *AssignmentRepository) BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error {
	now := time.Now().UTC()
	for i := range assignments {
		payload := assignments[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		const query = `INSERT INTO assignments (id, schedule_id, timeslot_id, group_id, subgroup_no, course_id, teacher_id, room_id, course_type, created_at)
			VALUES (:id, :schedule_id, :timeslot_id, :group_id, :subgroup_no, :course_id, :teacher_id, :room_id, :course_type, :created_at)`
		if _, err := sqlx.NamedExecContext(ctx, exec, query, &payload); err != nil {
			return fmt.Errorf("bulk insert assignment: %w", err)
		}
		assignments[i] = payload
	}
	return nil
}

// ListBySchedule returns the assignments of a schedule ordered by slot.
func (r *AssignmentRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.Assignment, error) {
	const query = `SELECT id, schedule_id, timeslot_id, group_id, subgroup_no, course_id, teacher_id, room_id, course_type, created_at FROM assignments WHERE schedule_id = $1 ORDER BY timeslot_id ASC, group_id ASC, subgroup_no ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list assignments by schedule: %w", err)
	}
	return assignments, nil
}
