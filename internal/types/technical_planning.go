package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActionType string

const (
	ActionExperiment     ActionType = "Experiment"
	ActionAnalytics      ActionType = "Analytics"
	ActionSpike          ActionType = "Spike"
	ActionTracerBullet   ActionType = "Tracer Bullet"
	ActionModularization ActionType = "Modularization"
	ActionTrigger        ActionType = "Trigger"
	ActionGuideline      ActionType = "Guideline"
	ActionOther          ActionType = "Other"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionExperiment, ActionAnalytics, ActionSpike, ActionTracerBullet,
		ActionModularization, ActionTrigger, ActionGuideline, ActionOther:
		return true
	}
	return false
}

// TechnicalPlanning is a planned or executed uncertainty-reduction action
// owned by exactly one hypothesis. Only ExpectedOutcome and Documentations
// are mutable after creation.
type TechnicalPlanning struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	HypothesisID    uuid.UUID                   `gorm:"type:uuid;not null;index" json:"hypothesis_id"`
	EntityRef       string                      `gorm:"column:entity_ref;not null" json:"entity_ref"`
	ActionType      ActionType                  `gorm:"column:action_type;not null" json:"action_type"`
	Description     string                      `gorm:"column:description;not null" json:"description"`
	ExpectedOutcome string                      `gorm:"column:expected_outcome;not null" json:"expected_outcome"`
	Documentations  datatypes.JSONSlice[string] `gorm:"column:documentations" json:"documentations"`
	TargetDate      time.Time                   `gorm:"column:target_date" json:"target_date"`
	CreatedAt       time.Time                   `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"not null" json:"updated_at"`
}

func (TechnicalPlanning) TableName() string { return "technical_planning" }
