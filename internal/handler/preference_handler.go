package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/uni-schedule-api/internal/service"
	appErrors "github.com/edustack/uni-schedule-api/pkg/errors"
	"github.com/edustack/uni-schedule-api/pkg/response"
)

// PreferenceHandler exposes per-teacher preference documents.
type PreferenceHandler struct {
	service *service.PreferenceService
}

// NewPreferenceHandler constructs a preference handler.
func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: svc}
}

// Get returns the teacher's preference document, empty when none is stored.
func (h *PreferenceHandler) Get(c *gin.Context) {
	pref, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref)
}

// Update replaces the document wholesale with the request body.
func (h *PreferenceHandler) Update(c *gin.Context) {
	var body json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	pref, err := h.service.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref)
}
