package models

import "time"

// Schedule is a named generation run. It is created fresh on every
// generation request and immutable once created; assignments reference it.
type Schedule struct {
	ID        string    `db:"id" json:"id"`
	Label     string    `db:"label" json:"label"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Assignment is one resolved booking in a generated schedule. RoomID is
// nullable: a nil room represents a remote/online session.
//
// The storage layer enforces uniqueness per (schedule, timeslot, group,
// subgroup), per (schedule, timeslot, teacher) and per (schedule, timeslot,
// room) so that no group, teacher or room is double-booked in one slot.
type Assignment struct {
	ID         string     `db:"id" json:"id"`
	ScheduleID string     `db:"schedule_id" json:"schedule_id"`
	TimeslotID int64      `db:"timeslot_id" json:"timeslot_id"`
	GroupID    string     `db:"group_id" json:"group_id"`
	SubgroupNo int        `db:"subgroup_no" json:"subgroup_no"`
	CourseID   string     `db:"course_id" json:"course_id"`
	TeacherID  string     `db:"teacher_id" json:"teacher_id"`
	RoomID     *string    `db:"room_id" json:"room_id,omitempty"`
	CourseType CourseType `db:"course_type" json:"course_type"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
