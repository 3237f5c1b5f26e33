package models

// SubgroupConstraint requires a (group, course) pair to be split into the
// given number of subgroups. ScheduleID is nil for constraints that apply
// to every generation run.
type SubgroupConstraint struct {
	ID            string  `db:"id" json:"id"`
	ScheduleID    *string `db:"schedule_id" json:"schedule_id,omitempty"`
	GroupID       string  `db:"group_id" json:"group_id"`
	CourseID      string  `db:"course_id" json:"course_id"`
	SubgroupCount int     `db:"subgroup_count" json:"subgroup_count"`
}
