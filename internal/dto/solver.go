package dto

import "encoding/json"

// Solver wire shapes. These mirror the external solver's JSON protocol
// exactly and must stay compatible with it.

// TeacherPayload describes one teacher in the solver instance.
type TeacherPayload struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Available   []string       `json:"available"`
	Preferences map[string]any `json:"preferences"`
}

// GroupPayload describes one student group in the solver instance.
type GroupPayload struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Size          int      `json:"size"`
	ParentGroupID *string  `json:"parentGroupId,omitempty"`
	Unavailable   []string `json:"unavailable"`
}

// RoomPayload describes one room in the solver instance.
type RoomPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// CoursePayload is one solver-facing course entry. Groups sharing identical
// scheduling parameters for the same course are merged into one entry; the
// ID carries a _{count}_{frequency} suffix when one underlying course forks
// into several cadence variants.
type CoursePayload struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	TeacherID       string   `json:"teacherId"`
	CountPerWeek    int      `json:"countPerWeek"`
	Frequency       string   `json:"frequency"`
	DurationMinutes int      `json:"durationMinutes"`
	GroupIDs        []string `json:"groupIds"`
}

// SolverInstance is the complete problem description submitted to the solver.
type SolverInstance struct {
	Teachers  []TeacherPayload `json:"teachers"`
	Groups    []GroupPayload   `json:"groups"`
	Rooms     []RoomPayload    `json:"rooms"`
	Courses   []CoursePayload  `json:"courses"`
	Timeslots []string         `json:"timeslots"`
	Policy    json.RawMessage  `json:"policy,omitempty"`
}

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	Instance SolverInstance  `json:"instance"`
	Params   json.RawMessage `json:"params,omitempty"`
}

// SolveSubmitResponse carries the opaque job identifier.
type SolveSubmitResponse struct {
	JobID string `json:"jobId"`
}

// SolverStats reports solver-side timing and status.
type SolverStats struct {
	Status       string  `json:"status"`
	SolveTimeSec float64 `json:"solve_time_sec"`
}

// SolverAssignment is one assignment record returned by the solver.
// RoomID is absent for remote sessions, Timeslot is a string code and
// GroupIDs may list several co-taught groups.
type SolverAssignment struct {
	CourseID  string   `json:"courseId"`
	TeacherID string   `json:"teacherId"`
	RoomID    *string  `json:"roomId"`
	Timeslot  string   `json:"timeslot"`
	GroupIDs  []string `json:"groupIds"`
}

// SolverJobResult is the 200 body of GET /v1/jobs/{id}/result. Violations
// may be non-empty even on success; they report soft-constraint breaches.
type SolverJobResult struct {
	Status      string             `json:"status"`
	Stats       SolverStats        `json:"stats"`
	Objective   float64            `json:"objective"`
	Assignments []SolverAssignment `json:"assignments"`
	Violations  []string           `json:"violations"`
}

// SolverErrorDetail is the 500 body of the result endpoint.
type SolverErrorDetail struct {
	Detail string `json:"detail"`
}

// SolverStatusInfeasible marks a completed job with no usable assignments.
const SolverStatusInfeasible = "infeasible"
