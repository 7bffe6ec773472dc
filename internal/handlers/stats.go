package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/services"
)

const defaultSinceDays = 30

type StatsHandler struct {
	log        *logger.Logger
	hypService services.HypothesisService
}

func NewStatsHandler(log *logger.Logger, hypService services.HypothesisService) *StatsHandler {
	return &StatsHandler{
		log:        log.With("handler", "StatsHandler"),
		hypService: hypService,
	}
}

func (h *StatsHandler) GetStats(c *gin.Context) {
	sinceDays := defaultSinceDays
	if raw := c.Query("sinceDays"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			RespondError(c, http.StatusBadRequest, "invalid_since_days", err)
			return
		}
		sinceDays = parsed
	}
	stats, err := h.hypService.Stats(c.Request.Context(), nil, filterFromQuery(c), sinceDays)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, stats)
}
