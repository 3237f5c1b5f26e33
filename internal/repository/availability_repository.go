package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TeacherAvailabilityRepository reads per-teacher available timeslot sets.
type TeacherAvailabilityRepository struct {
	db *sqlx.DB
}

// NewTeacherAvailabilityRepository creates a new availability repository.
func NewTeacherAvailabilityRepository(db *sqlx.DB) *TeacherAvailabilityRepository {
	return &TeacherAvailabilityRepository{db: db}
}

// ListTimeslotIDs returns the timeslot ids a teacher is available for.
// An empty result means the teacher has no availability rows at all; the
// builder interprets that as available everywhere.
func (r *TeacherAvailabilityRepository) ListTimeslotIDs(ctx context.Context, teacherID string) ([]int64, error) {
	const query = `SELECT timeslot_id FROM teacher_availabilities WHERE teacher_id = $1 ORDER BY timeslot_id ASC`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher availability: %w", err)
	}
	return ids, nil
}

// GroupUnavailabilityRepository reads per-group blocked timeslot sets.
type GroupUnavailabilityRepository struct {
	db *sqlx.DB
}

// NewGroupUnavailabilityRepository creates a new unavailability repository.
func NewGroupUnavailabilityRepository(db *sqlx.DB) *GroupUnavailabilityRepository {
	return &GroupUnavailabilityRepository{db: db}
}

// ListTimeslotIDs returns the timeslot ids a group is blocked for. Empty
// means the group is fully available.
func (r *GroupUnavailabilityRepository) ListTimeslotIDs(ctx context.Context, groupID string) ([]int64, error) {
	const query = `SELECT timeslot_id FROM group_unavailabilities WHERE group_id = $1 ORDER BY timeslot_id ASC`
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, groupID); err != nil {
		return nil, fmt.Errorf("list group unavailability: %w", err)
	}
	return ids, nil
}
