package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// HypothesisStatus is a flat enumeration. Any status may follow any other via
// update; there is no transition graph.
type HypothesisStatus string

const (
	StatusOpen         HypothesisStatus = "Open"
	StatusInReview     HypothesisStatus = "In Review"
	StatusValidated    HypothesisStatus = "Validated"
	StatusDiscarded    HypothesisStatus = "Discarded"
	StatusTriggerFired HypothesisStatus = "Trigger-Fired"
	StatusOther        HypothesisStatus = "Other"
)

func (s HypothesisStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInReview, StatusValidated, StatusDiscarded, StatusTriggerFired, StatusOther:
		return true
	}
	return false
}

type SourceType string

const (
	SourceRequirements     SourceType = "Requirements"
	SourceSolution         SourceType = "Solution"
	SourceQualityAttribute SourceType = "Quality Attribute"
	SourceOther            SourceType = "Other"
)

func (s SourceType) Valid() bool {
	switch s {
	case SourceRequirements, SourceSolution, SourceQualityAttribute, SourceOther:
		return true
	}
	return false
}

// Ordinal is the five-point scale used for both uncertainty and impact.
type Ordinal string

const (
	OrdinalVeryLow  Ordinal = "Very Low"
	OrdinalLow      Ordinal = "Low"
	OrdinalMedium   Ordinal = "Medium"
	OrdinalHigh     Ordinal = "High"
	OrdinalVeryHigh Ordinal = "Very High"
)

func (o Ordinal) Valid() bool {
	switch o {
	case OrdinalVeryLow, OrdinalLow, OrdinalMedium, OrdinalHigh, OrdinalVeryHigh:
		return true
	}
	return false
}

// Rank maps the scale onto 1..5 for ordering; 0 for unknown labels.
func (o Ordinal) Rank() int {
	switch o {
	case OrdinalVeryLow:
		return 1
	case OrdinalLow:
		return 2
	case OrdinalMedium:
		return 3
	case OrdinalHigh:
		return 4
	case OrdinalVeryHigh:
		return 5
	}
	return 0
}

// QualityAttributes is the fixed vocabulary a hypothesis may be tagged with.
var QualityAttributes = []string{
	"Performance",
	"Scalability",
	"Availability",
	"Reliability",
	"Security",
	"Maintainability",
	"Modifiability",
	"Testability",
	"Usability",
	"Portability",
	"Interoperability",
	"Observability",
	"Deployability",
	"Resilience",
	"Auditability",
	"Compliance",
	"Cost Efficiency",
	"Sustainability",
}

func ValidQualityAttribute(v string) bool {
	for _, qa := range QualityAttributes {
		if qa == v {
			return true
		}
	}
	return false
}

const (
	StatementMinLen = 20
	StatementMaxLen = 500
)

type Hypothesis struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Statement          string                      `gorm:"column:statement;not null" json:"statement"`
	Status             HypothesisStatus            `gorm:"column:status;not null;index" json:"status"`
	SourceType         SourceType                  `gorm:"column:source_type;not null" json:"source_type"`
	EntityRefs         datatypes.JSONSlice[string] `gorm:"column:entity_refs" json:"entity_refs"`
	QualityAttributes  datatypes.JSONSlice[string] `gorm:"column:quality_attributes" json:"quality_attributes"`
	Uncertainty        Ordinal                     `gorm:"column:uncertainty;not null" json:"uncertainty"`
	Impact             Ordinal                     `gorm:"column:impact;not null" json:"impact"`
	RelatedArtefacts   datatypes.JSONSlice[string] `gorm:"column:related_artefacts" json:"related_artefacts"`
	Notes              string                      `gorm:"column:notes" json:"notes,omitempty"`
	TechnicalPlannings []*TechnicalPlanning        `gorm:"foreignKey:HypothesisID;references:ID" json:"technical_plannings,omitempty"`
	// Focus is computed on read, never stored.
	Focus     string    `gorm:"-" json:"focus,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Hypothesis) TableName() string { return "hypothesis" }
