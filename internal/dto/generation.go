package dto

import (
	"encoding/json"

	"github.com/edustack/uni-schedule-api/internal/models"
)

// GenerateTimetableRequest asks for one full generation run. Policy and
// params are solver-tuning knobs passed through opaquely.
type GenerateTimetableRequest struct {
	Label  string          `json:"label" validate:"required,min=1,max=120"`
	Policy json.RawMessage `json:"policy"`
	Params json.RawMessage `json:"params"`
}

// SolverSummary surfaces diagnostic detail about the finished solver job.
type SolverSummary struct {
	Status       string   `json:"status"`
	SolveTimeSec float64  `json:"solveTimeSec"`
	Objective    float64  `json:"objective"`
	Violations   []string `json:"violations,omitempty"`
}

// GenerateTimetableResponse returns the persisted generation outcome.
// Assignments is empty when the solver found nothing usable; that is a
// valid terminal state, not an error.
type GenerateTimetableResponse struct {
	ScheduleID  string              `json:"scheduleId"`
	Label       string              `json:"label"`
	Assignments []models.Assignment `json:"assignments"`
	Warnings    []string            `json:"warnings,omitempty"`
	Solver      SolverSummary       `json:"solver"`
}
