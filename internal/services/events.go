package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/repos"
	"github.com/archboard/archboard-backend/internal/types"
)

// EventService reads the change history that drives the evolution view.
// The audit trail is auxiliary: a read failure is logged and surfaced as an
// empty series rather than failing the caller.
type EventService interface {
	GetEvents(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) []*types.HypothesisEvent
}

type eventService struct {
	db        *gorm.DB
	log       *logger.Logger
	eventRepo repos.HypothesisEventRepo
}

func NewEventService(db *gorm.DB, baseLog *logger.Logger, eventRepo repos.HypothesisEventRepo) EventService {
	serviceLog := baseLog.With("service", "EventService")
	return &eventService{db: db, log: serviceLog, eventRepo: eventRepo}
}

func (s *eventService) GetEvents(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) []*types.HypothesisEvent {
	events, err := s.eventRepo.GetByHypothesisID(ctx, tx, hypothesisID)
	if err != nil {
		s.log.Error("GetEvents failed, returning empty series", "error", err, "hypothesis_id", hypothesisID)
		return []*types.HypothesisEvent{}
	}
	if events == nil {
		return []*types.HypothesisEvent{}
	}
	return events
}
