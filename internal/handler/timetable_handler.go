package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/uni-schedule-api/internal/models"
	"github.com/edustack/uni-schedule-api/internal/service"
	"github.com/edustack/uni-schedule-api/pkg/response"
)

// TimetableHandler exposes read access to generated schedules.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// List returns all generated schedules, newest first.
func (h *TimetableHandler) List(c *gin.Context) {
	schedules, err := h.service.ListSchedules(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules)
}

type scheduleDetail struct {
	Schedule    *models.Schedule    `json:"schedule"`
	Assignments []models.Assignment `json:"assignments"`
}

// Get returns one schedule and all of its assignments.
func (h *TimetableHandler) Get(c *gin.Context) {
	schedule, assignments, err := h.service.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scheduleDetail{Schedule: schedule, Assignments: assignments})
}

// Assignments returns only the normalized rows of a schedule.
func (h *TimetableHandler) Assignments(c *gin.Context) {
	_, assignments, err := h.service.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments)
}
