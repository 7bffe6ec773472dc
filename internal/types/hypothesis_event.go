package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventUpdate EventType = "UPDATE"
)

// EventChanges is the tagged snapshot stored in hypothesis_event.changes.
// Exactly one of Create/Update is set, matching Kind.
type EventChanges struct {
	Kind   EventType              `json:"kind"`
	Create *CreateHypothesisInput `json:"create,omitempty"`
	Update *UpdateHypothesisInput `json:"update,omitempty"`
}

// HypothesisEvent is an append-only audit record. Rows are never updated and
// are removed only as part of deleting the owning hypothesis.
type HypothesisEvent struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	HypothesisID uuid.UUID      `gorm:"type:uuid;not null;index" json:"hypothesis_id"`
	EventType    EventType      `gorm:"column:event_type;not null" json:"event_type"`
	Timestamp    time.Time      `gorm:"column:timestamp;not null;index" json:"timestamp"`
	Changes      datatypes.JSON `gorm:"column:changes;type:jsonb" json:"changes"`
}

func (HypothesisEvent) TableName() string { return "hypothesis_event" }
