package models

import "time"

// CourseType categorises a session: lecture, practical or lab.
type CourseType string

const (
	CourseTypeLecture   CourseType = "lec"
	CourseTypePractical CourseType = "prac"
	CourseTypeLab       CourseType = "lab"
)

// Course represents a taught course.
type Course struct {
	ID              string     `db:"id" json:"id"`
	Name            string     `db:"name" json:"name"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	CourseType      CourseType `db:"course_type" json:"course_type"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
