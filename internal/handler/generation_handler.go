package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edustack/uni-schedule-api/internal/dto"
	"github.com/edustack/uni-schedule-api/internal/service"
	appErrors "github.com/edustack/uni-schedule-api/pkg/errors"
	"github.com/edustack/uni-schedule-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error)
}

// GenerationHandler exposes the schedule generation endpoint.
type GenerationHandler struct {
	service timetableGenerator
}

// NewGenerationHandler constructs a generation handler.
func NewGenerationHandler(svc *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: svc}
}

// Generate triggers a synchronous generation run. The request blocks until
// the solver finishes or fails.
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
