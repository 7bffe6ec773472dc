package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/services"
	"github.com/archboard/archboard-backend/internal/types"
)

type PlanningHandler struct {
	log        *logger.Logger
	hypService services.HypothesisService
}

func NewPlanningHandler(log *logger.Logger, hypService services.HypothesisService) *PlanningHandler {
	return &PlanningHandler{
		log:        log.With("handler", "PlanningHandler"),
		hypService: hypService,
	}
}

func (h *PlanningHandler) Create(c *gin.Context) {
	hypothesisID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input types.CreateTechnicalPlanningInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	created, err := h.hypService.CreateTechnicalPlanning(c.Request.Context(), nil, hypothesisID, &input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (h *PlanningHandler) GetByHypothesis(c *gin.Context) {
	hypothesisID, ok := pathID(c, "id")
	if !ok {
		return
	}
	plannings, err := h.hypService.GetTechnicalPlannings(c.Request.Context(), nil, hypothesisID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"technical_plannings": plannings})
}

func (h *PlanningHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input types.UpdateTechnicalPlanningInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	updated, err := h.hypService.UpdateTechnicalPlanning(c.Request.Context(), nil, id, &input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (h *PlanningHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.hypService.DeleteTechnicalPlanning(c.Request.Context(), nil, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
