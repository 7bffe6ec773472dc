package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/services"
)

type EventHandler struct {
	log          *logger.Logger
	eventService services.EventService
}

func NewEventHandler(log *logger.Logger, eventService services.EventService) *EventHandler {
	return &EventHandler{
		log:          log.With("handler", "EventHandler"),
		eventService: eventService,
	}
}

// GetEvents returns the full ordered history; there is no pagination, the
// chart renderer consumes the whole series.
func (h *EventHandler) GetEvents(c *gin.Context) {
	hypothesisID, ok := pathID(c, "id")
	if !ok {
		return
	}
	events := h.eventService.GetEvents(c.Request.Context(), nil, hypothesisID)
	RespondOK(c, gin.H{"events": events})
}
