package types

import "time"

// CreateHypothesisInput is the full create payload. It is validated at the
// boundary and stored verbatim as the CREATE event snapshot.
type CreateHypothesisInput struct {
	Statement         string     `json:"statement" binding:"required,min=20,max=500"`
	SourceType        SourceType `json:"source_type" binding:"required,sourcetype"`
	EntityRefs        []string   `json:"entity_refs" binding:"required,min=1,dive,entityref"`
	QualityAttributes []string   `json:"quality_attributes" binding:"omitempty,dive,qualityattr"`
	Uncertainty       Ordinal    `json:"uncertainty" binding:"required,ordinal"`
	Impact            Ordinal    `json:"impact" binding:"required,ordinal"`
	RelatedArtefacts  []string   `json:"related_artefacts" binding:"omitempty,dive,url"`
	Notes             string     `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateHypothesisInput carries the mutable fields. Statement and EntityRefs
// are present only so the service can reject attempts to change them;
// a nil field is left untouched.
type UpdateHypothesisInput struct {
	Statement         *string           `json:"statement,omitempty" binding:"omitempty,min=20,max=500"`
	EntityRefs        []string          `json:"entity_refs,omitempty" binding:"omitempty,dive,entityref"`
	Status            *HypothesisStatus `json:"status,omitempty" binding:"omitempty,hypstatus"`
	SourceType        *SourceType       `json:"source_type,omitempty" binding:"omitempty,sourcetype"`
	QualityAttributes []string          `json:"quality_attributes,omitempty" binding:"omitempty,dive,qualityattr"`
	Uncertainty       *Ordinal          `json:"uncertainty,omitempty" binding:"omitempty,ordinal"`
	Impact            *Ordinal          `json:"impact,omitempty" binding:"omitempty,ordinal"`
	RelatedArtefacts  []string          `json:"related_artefacts,omitempty" binding:"omitempty,dive,url"`
	Notes             *string           `json:"notes,omitempty" binding:"omitempty,max=2000"`
}

type CreateTechnicalPlanningInput struct {
	EntityRef       string     `json:"entity_ref" binding:"required,entityref"`
	ActionType      ActionType `json:"action_type" binding:"required,actiontype"`
	Description     string     `json:"description" binding:"required,min=1,max=500"`
	ExpectedOutcome string     `json:"expected_outcome" binding:"required,min=1,max=500"`
	Documentations  []string   `json:"documentations" binding:"omitempty,dive,url"`
	TargetDate      time.Time  `json:"target_date" binding:"required"`
}

// UpdateTechnicalPlanningInput is restricted to the two mutable fields.
type UpdateTechnicalPlanningInput struct {
	ExpectedOutcome *string  `json:"expected_outcome,omitempty" binding:"omitempty,min=1,max=500"`
	Documentations  []string `json:"documentations,omitempty" binding:"omitempty,dive,url"`
}
