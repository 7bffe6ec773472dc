package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/services"
	"github.com/archboard/archboard-backend/internal/types"
)

type HypothesisHandler struct {
	log        *logger.Logger
	hypService services.HypothesisService
}

func NewHypothesisHandler(log *logger.Logger, hypService services.HypothesisService) *HypothesisHandler {
	return &HypothesisHandler{
		log:        log.With("handler", "HypothesisHandler"),
		hypService: hypService,
	}
}

func (h *HypothesisHandler) Create(c *gin.Context) {
	var input types.CreateHypothesisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	created, err := h.hypService.Create(c.Request.Context(), nil, &input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondCreated(c, created)
}

func (h *HypothesisHandler) GetAll(c *gin.Context) {
	filter := filterFromQuery(c)
	hyps, err := h.hypService.GetAll(c.Request.Context(), nil, filter)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"hypotheses": hyps})
}

func (h *HypothesisHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	hypothesis, err := h.hypService.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, hypothesis)
}

func (h *HypothesisHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input types.UpdateHypothesisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	updated, err := h.hypService.Update(c.Request.Context(), nil, id, &input)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, updated)
}

func (h *HypothesisHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.hypService.Delete(c.Request.Context(), nil, id); err != nil {
		RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HypothesisHandler) GetReferencedEntityRefs(c *gin.Context) {
	refs, err := h.hypService.ReferencedEntityRefs(c.Request.Context(), nil)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"entity_refs": refs})
}

func (h *HypothesisHandler) GetTeams(c *gin.Context) {
	teams, err := h.hypService.Teams(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"teams": teams})
}

func filterFromQuery(c *gin.Context) *services.HypothesisFilter {
	entityRef := c.Query("entityRef")
	team := c.Query("team")
	if entityRef == "" && team == "" {
		return nil
	}
	return &services.HypothesisFilter{EntityRef: entityRef, Team: team}
}

func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("malformed id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}
