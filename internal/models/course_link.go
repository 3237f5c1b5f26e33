package models

// CourseFrequency states how often a group takes a course.
type CourseFrequency string

const (
	CourseFrequencyWeekly CourseFrequency = "weekly"
	CourseFrequencyOdd    CourseFrequency = "odd"
	CourseFrequencyEven   CourseFrequency = "even"
)

// GroupCourse links a group to a course together with the weekly cadence:
// how many sessions per period and on which week parity.
type GroupCourse struct {
	ID           string          `db:"id" json:"id"`
	GroupID      string          `db:"group_id" json:"group_id"`
	CourseID     string          `db:"course_id" json:"course_id"`
	CountPerWeek int             `db:"count_per_week" json:"count_per_week"`
	Frequency    CourseFrequency `db:"frequency" json:"frequency"`
}

// TeacherCourse links a teacher to a course the teacher may teach.
type TeacherCourse struct {
	ID        string `db:"id" json:"id"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	CourseID  string `db:"course_id" json:"course_id"`
}
