package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/archboard/archboard-backend/internal/apierr"
	"github.com/archboard/archboard-backend/internal/catalog"
	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/normalization"
	"github.com/archboard/archboard-backend/internal/repos"
	"github.com/archboard/archboard-backend/internal/types"
)

// HypothesisFilter narrows GetAll/Stats. Team filtering resolves each
// referenced entity through the directory; an unresolvable reference is
// simply no match.
type HypothesisFilter struct {
	EntityRef string
	Team      string
}

type HypothesisService interface {
	Create(ctx context.Context, tx *gorm.DB, input *types.CreateHypothesisInput) (*types.Hypothesis, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input *types.UpdateHypothesisInput) (*types.Hypothesis, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Hypothesis, error)
	GetAll(ctx context.Context, tx *gorm.DB, filter *HypothesisFilter) ([]*types.Hypothesis, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	CreateTechnicalPlanning(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID, input *types.CreateTechnicalPlanningInput) (*types.TechnicalPlanning, error)
	GetTechnicalPlannings(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) ([]*types.TechnicalPlanning, error)
	UpdateTechnicalPlanning(ctx context.Context, tx *gorm.DB, id uuid.UUID, input *types.UpdateTechnicalPlanningInput) (*types.TechnicalPlanning, error)
	DeleteTechnicalPlanning(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	Stats(ctx context.Context, tx *gorm.DB, filter *HypothesisFilter, sinceDays int) (HypothesisStats, error)
	ReferencedEntityRefs(ctx context.Context, tx *gorm.DB) ([]string, error)
	Teams(ctx context.Context) ([]string, error)
}

type hypothesisService struct {
	db           *gorm.DB
	log          *logger.Logger
	hypoRepo     repos.HypothesisRepo
	planningRepo repos.TechnicalPlanningRepo
	eventRepo    repos.HypothesisEventRepo
	directory    catalog.Directory
}

func NewHypothesisService(
	db *gorm.DB,
	baseLog *logger.Logger,
	hypoRepo repos.HypothesisRepo,
	planningRepo repos.TechnicalPlanningRepo,
	eventRepo repos.HypothesisEventRepo,
	directory catalog.Directory,
) HypothesisService {
	serviceLog := baseLog.With("service", "HypothesisService")
	return &hypothesisService{
		db:           db,
		log:          serviceLog,
		hypoRepo:     hypoRepo,
		planningRepo: planningRepo,
		eventRepo:    eventRepo,
		directory:    directory,
	}
}

func (s *hypothesisService) Create(ctx context.Context, tx *gorm.DB, input *types.CreateHypothesisInput) (*types.Hypothesis, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	refs, err := canonicalRefs(input.EntityRefs)
	if err != nil {
		return nil, apierr.Validation("invalid_entity_ref", err)
	}

	now := time.Now()
	hypothesis := &types.Hypothesis{
		ID:                uuid.New(),
		Statement:         normalization.ParseInputString(input.Statement),
		Status:            types.StatusOpen,
		SourceType:        input.SourceType,
		EntityRefs:        refs,
		QualityAttributes: normalization.ParseStringSet(input.QualityAttributes),
		Uncertainty:       input.Uncertainty,
		Impact:            input.Impact,
		RelatedArtefacts:  normalization.ParseStringSet(input.RelatedArtefacts),
		Notes:             normalization.ParseInputString(input.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	changes, err := marshalChanges(types.EventChanges{Kind: types.EventCreate, Create: input})
	if err != nil {
		return nil, apierr.Persistence("encode_event_failed", err)
	}

	err = s.transaction(ctx, tx, func(txx *gorm.DB) error {
		if _, err := s.hypoRepo.Create(ctx, txx, hypothesis); err != nil {
			return fmt.Errorf("create hypothesis: %w", err)
		}
		event := &types.HypothesisEvent{
			ID:           uuid.New(),
			HypothesisID: hypothesis.ID,
			EventType:    types.EventCreate,
			Timestamp:    now,
			Changes:      changes,
		}
		if _, err := s.eventRepo.Create(ctx, txx, event); err != nil {
			return fmt.Errorf("append create event: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Create hypothesis transaction failed", "error", err)
		return nil, apierr.Persistence("create_hypothesis_failed", err)
	}
	return hypothesis, nil
}

func (s *hypothesisService) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, input *types.UpdateHypothesisInput) (*types.Hypothesis, error) {
	if input == nil {
		return nil, apierr.Validation("missing_input", fmt.Errorf("update payload is required"))
	}

	changes, err := marshalChanges(types.EventChanges{Kind: types.EventUpdate, Update: input})
	if err != nil {
		return nil, apierr.Persistence("encode_event_failed", err)
	}

	var updated *types.Hypothesis
	err = s.transaction(ctx, tx, func(txx *gorm.DB) error {
		existing, err := s.hypoRepo.GetByID(ctx, txx, id)
		if err != nil {
			return fmt.Errorf("load hypothesis: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("hypothesis_not_found", fmt.Errorf("hypothesis %s does not exist", id))
		}

		if err := rejectImmutableChanges(existing, input); err != nil {
			return err
		}
		applyUpdate(existing, input)
		existing.UpdatedAt = time.Now()

		if _, err := s.hypoRepo.Update(ctx, txx, existing); err != nil {
			return fmt.Errorf("update hypothesis: %w", err)
		}
		event := &types.HypothesisEvent{
			ID:           uuid.New(),
			HypothesisID: existing.ID,
			EventType:    types.EventUpdate,
			Timestamp:    existing.UpdatedAt,
			Changes:      changes,
		}
		if _, err := s.eventRepo.Create(ctx, txx, event); err != nil {
			return fmt.Errorf("append update event: %w", err)
		}
		updated = existing
		return nil
	})
	if err != nil {
		if apierr.IsNotFound(err) || apierr.IsValidation(err) {
			return nil, err
		}
		s.log.Error("Update hypothesis transaction failed", "error", err, "hypothesis_id", id)
		return nil, apierr.Persistence("update_hypothesis_failed", err)
	}
	updated.Focus = string(FocusTagFor(updated))
	return updated, nil
}

func (s *hypothesisService) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Hypothesis, error) {
	h, err := s.hypoRepo.GetByID(ctx, tx, id)
	if err != nil {
		s.log.Error("GetByID failed", "error", err, "hypothesis_id", id)
		return nil, apierr.Persistence("load_hypothesis_failed", err)
	}
	if h == nil {
		return nil, apierr.NotFound("hypothesis_not_found", fmt.Errorf("hypothesis %s does not exist", id))
	}
	h.Focus = string(FocusTagFor(h))
	return h, nil
}

func (s *hypothesisService) GetAll(ctx context.Context, tx *gorm.DB, filter *HypothesisFilter) ([]*types.Hypothesis, error) {
	hyps, err := s.hypoRepo.GetAll(ctx, tx)
	if err != nil {
		s.log.Error("GetAll failed", "error", err)
		return nil, apierr.Persistence("load_hypotheses_failed", err)
	}
	hyps, err = s.applyFilter(ctx, hyps, filter)
	if err != nil {
		return nil, err
	}
	for _, h := range hyps {
		h.Focus = string(FocusTagFor(h))
	}
	return hyps, nil
}

// Delete removes a hypothesis and everything it owns in one transaction.
// Children go first so the cascade holds even on a store without declarative
// foreign keys; the parent delete is the authoritative existence check.
func (s *hypothesisService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	err := s.transaction(ctx, tx, func(txx *gorm.DB) error {
		if err := s.planningRepo.DeleteByHypothesisID(ctx, txx, id); err != nil {
			return fmt.Errorf("delete technical plannings: %w", err)
		}
		if err := s.eventRepo.DeleteByHypothesisID(ctx, txx, id); err != nil {
			return fmt.Errorf("delete hypothesis events: %w", err)
		}
		rows, err := s.hypoRepo.DeleteByID(ctx, txx, id)
		if err != nil {
			return fmt.Errorf("delete hypothesis: %w", err)
		}
		if rows == 0 {
			return apierr.NotFound("hypothesis_not_found", fmt.Errorf("hypothesis %s does not exist", id))
		}
		return nil
	})
	if err != nil {
		if apierr.IsNotFound(err) {
			return err
		}
		s.log.Error("Delete hypothesis transaction failed", "error", err, "hypothesis_id", id)
		return apierr.Persistence("delete_hypothesis_failed", err)
	}
	return nil
}

func (s *hypothesisService) CreateTechnicalPlanning(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID, input *types.CreateTechnicalPlanningInput) (*types.TechnicalPlanning, error) {
	if input == nil {
		return nil, apierr.Validation("missing_input", fmt.Errorf("planning payload is required"))
	}
	ref, err := types.ParseEntityRef(input.EntityRef)
	if err != nil {
		return nil, apierr.Validation("invalid_entity_ref", err)
	}
	if !input.ActionType.Valid() {
		return nil, apierr.Validation("invalid_action_type", fmt.Errorf("unknown action type %q", input.ActionType))
	}

	now := time.Now()
	planning := &types.TechnicalPlanning{
		ID:              uuid.New(),
		HypothesisID:    hypothesisID,
		EntityRef:       ref.String(),
		ActionType:      input.ActionType,
		Description:     normalization.ParseInputString(input.Description),
		ExpectedOutcome: normalization.ParseInputString(input.ExpectedOutcome),
		Documentations:  normalization.ParseStringSet(input.Documentations),
		TargetDate:      input.TargetDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.transaction(ctx, tx, func(txx *gorm.DB) error {
		owner, err := s.hypoRepo.GetByID(ctx, txx, hypothesisID)
		if err != nil {
			return fmt.Errorf("load hypothesis: %w", err)
		}
		if owner == nil {
			return apierr.NotFound("hypothesis_not_found", fmt.Errorf("hypothesis %s does not exist", hypothesisID))
		}
		if _, err := s.planningRepo.Create(ctx, txx, planning); err != nil {
			return fmt.Errorf("create technical planning: %w", err)
		}
		return nil
	})
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, err
		}
		s.log.Error("Create technical planning failed", "error", err, "hypothesis_id", hypothesisID)
		return nil, apierr.Persistence("create_planning_failed", err)
	}
	return planning, nil
}

func (s *hypothesisService) GetTechnicalPlannings(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) ([]*types.TechnicalPlanning, error) {
	plannings, err := s.planningRepo.GetByHypothesisID(ctx, tx, hypothesisID)
	if err != nil {
		s.log.Error("GetTechnicalPlannings failed", "error", err, "hypothesis_id", hypothesisID)
		return nil, apierr.Persistence("load_plannings_failed", err)
	}
	if len(plannings) == 0 {
		owner, err := s.hypoRepo.GetByID(ctx, tx, hypothesisID)
		if err != nil {
			s.log.Error("GetTechnicalPlannings owner check failed", "error", err, "hypothesis_id", hypothesisID)
			return nil, apierr.Persistence("load_hypothesis_failed", err)
		}
		if owner == nil {
			return nil, apierr.NotFound("hypothesis_not_found", fmt.Errorf("hypothesis %s does not exist", hypothesisID))
		}
		return []*types.TechnicalPlanning{}, nil
	}
	return plannings, nil
}

func (s *hypothesisService) UpdateTechnicalPlanning(ctx context.Context, tx *gorm.DB, id uuid.UUID, input *types.UpdateTechnicalPlanningInput) (*types.TechnicalPlanning, error) {
	if input == nil {
		return nil, apierr.Validation("missing_input", fmt.Errorf("planning payload is required"))
	}

	var updated *types.TechnicalPlanning
	err := s.transaction(ctx, tx, func(txx *gorm.DB) error {
		existing, err := s.planningRepo.GetByID(ctx, txx, id)
		if err != nil {
			return fmt.Errorf("load technical planning: %w", err)
		}
		if existing == nil {
			return apierr.NotFound("planning_not_found", fmt.Errorf("technical planning %s does not exist", id))
		}
		if input.ExpectedOutcome != nil {
			existing.ExpectedOutcome = normalization.ParseInputString(*input.ExpectedOutcome)
		}
		if input.Documentations != nil {
			existing.Documentations = normalization.ParseStringSet(input.Documentations)
		}
		existing.UpdatedAt = time.Now()
		if _, err := s.planningRepo.Update(ctx, txx, existing); err != nil {
			return fmt.Errorf("update technical planning: %w", err)
		}
		updated = existing
		return nil
	})
	if err != nil {
		if apierr.IsNotFound(err) {
			return nil, err
		}
		s.log.Error("Update technical planning failed", "error", err, "planning_id", id)
		return nil, apierr.Persistence("update_planning_failed", err)
	}
	return updated, nil
}

func (s *hypothesisService) DeleteTechnicalPlanning(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	err := s.transaction(ctx, tx, func(txx *gorm.DB) error {
		rows, err := s.planningRepo.DeleteByID(ctx, txx, id)
		if err != nil {
			return fmt.Errorf("delete technical planning: %w", err)
		}
		if rows == 0 {
			return apierr.NotFound("planning_not_found", fmt.Errorf("technical planning %s does not exist", id))
		}
		return nil
	})
	if err != nil {
		if apierr.IsNotFound(err) {
			return err
		}
		s.log.Error("Delete technical planning failed", "error", err, "planning_id", id)
		return apierr.Persistence("delete_planning_failed", err)
	}
	return nil
}

func (s *hypothesisService) Stats(ctx context.Context, tx *gorm.DB, filter *HypothesisFilter, sinceDays int) (HypothesisStats, error) {
	hyps, err := s.hypoRepo.GetAll(ctx, tx)
	if err != nil {
		s.log.Error("Stats load failed", "error", err)
		return HypothesisStats{}, apierr.Persistence("load_hypotheses_failed", err)
	}
	hyps, err = s.applyFilter(ctx, hyps, filter)
	if err != nil {
		return HypothesisStats{}, err
	}
	return ComputeStats(hyps, sinceDays, time.Now()), nil
}

func (s *hypothesisService) ReferencedEntityRefs(ctx context.Context, tx *gorm.DB) ([]string, error) {
	hyps, err := s.hypoRepo.GetAll(ctx, tx)
	if err != nil {
		s.log.Error("ReferencedEntityRefs load failed", "error", err)
		return nil, apierr.Persistence("load_hypotheses_failed", err)
	}
	return ReferencedEntityRefs(hyps), nil
}

func (s *hypothesisService) Teams(ctx context.Context) ([]string, error) {
	entities, err := s.directory.List(ctx)
	if err != nil {
		s.log.Error("Teams directory listing failed", "error", err)
		return nil, apierr.Persistence("list_teams_failed", err)
	}
	teams := lo.Uniq(lo.FilterMap(entities, func(e catalog.Entity, _ int) (string, bool) {
		return e.Team, e.Team != ""
	}))
	sort.Strings(teams)
	return teams, nil
}

func (s *hypothesisService) applyFilter(ctx context.Context, hyps []*types.Hypothesis, filter *HypothesisFilter) ([]*types.Hypothesis, error) {
	if filter == nil {
		return hyps, nil
	}
	if filter.EntityRef != "" {
		hyps = FilterByEntityRef(hyps, filter.EntityRef)
	}
	if filter.Team != "" {
		hyps = s.filterByTeam(ctx, hyps, filter.Team)
	}
	return hyps, nil
}

// filterByTeam resolves each distinct reference once. Resolution failures are
// treated as "no team match", never as an error.
func (s *hypothesisService) filterByTeam(ctx context.Context, hyps []*types.Hypothesis, team string) []*types.Hypothesis {
	teamByRef := map[string]string{}
	resolve := func(ref string) string {
		if t, ok := teamByRef[ref]; ok {
			return t
		}
		entity, err := s.directory.Resolve(ctx, ref)
		if err != nil {
			s.log.Warn("Entity ref resolution failed, treating as no team match", "ref", ref, "error", err)
			teamByRef[ref] = ""
			return ""
		}
		if entity == nil {
			teamByRef[ref] = ""
			return ""
		}
		teamByRef[ref] = entity.Team
		return entity.Team
	}

	return lo.Filter(hyps, func(h *types.Hypothesis, _ int) bool {
		for _, ref := range h.EntityRefs {
			if resolve(ref) == team {
				return true
			}
		}
		return false
	})
}

func (s *hypothesisService) transaction(ctx context.Context, tx *gorm.DB, fn func(txx *gorm.DB) error) error {
	if tx != nil {
		return fn(tx)
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

func validateCreateInput(input *types.CreateHypothesisInput) error {
	if input == nil {
		return apierr.Validation("missing_input", fmt.Errorf("create payload is required"))
	}
	statement := normalization.ParseInputString(input.Statement)
	// character bounds, not bytes: multibyte statements count per rune
	if n := utf8.RuneCountInString(statement); n < types.StatementMinLen || n > types.StatementMaxLen {
		return apierr.Validation("invalid_statement", fmt.Errorf("statement must be %d-%d characters", types.StatementMinLen, types.StatementMaxLen))
	}
	if !input.SourceType.Valid() {
		return apierr.Validation("invalid_source_type", fmt.Errorf("unknown source type %q", input.SourceType))
	}
	if !input.Uncertainty.Valid() {
		return apierr.Validation("invalid_uncertainty", fmt.Errorf("unknown uncertainty %q", input.Uncertainty))
	}
	if !input.Impact.Valid() {
		return apierr.Validation("invalid_impact", fmt.Errorf("unknown impact %q", input.Impact))
	}
	if len(input.EntityRefs) == 0 {
		return apierr.Validation("missing_entity_refs", fmt.Errorf("at least one entity ref is required"))
	}
	for _, qa := range input.QualityAttributes {
		if !types.ValidQualityAttribute(qa) {
			return apierr.Validation("invalid_quality_attribute", fmt.Errorf("unknown quality attribute %q", qa))
		}
	}
	return nil
}

func rejectImmutableChanges(existing *types.Hypothesis, input *types.UpdateHypothesisInput) error {
	if input.Statement != nil && normalization.ParseInputString(*input.Statement) != existing.Statement {
		return apierr.Validation("statement_immutable", fmt.Errorf("statement cannot be changed after creation"))
	}
	if input.EntityRefs != nil {
		refs, err := canonicalRefs(input.EntityRefs)
		if err != nil {
			return apierr.Validation("invalid_entity_ref", err)
		}
		// element-wise: the reference list is an ordered set, a reorder is a change
		same := len(refs) == len(existing.EntityRefs)
		if same {
			for i := range refs {
				if refs[i] != existing.EntityRefs[i] {
					same = false
					break
				}
			}
		}
		if !same {
			return apierr.Validation("entity_refs_immutable", fmt.Errorf("entity refs cannot be changed after creation"))
		}
	}
	if input.Status != nil && !input.Status.Valid() {
		return apierr.Validation("invalid_status", fmt.Errorf("unknown status %q", *input.Status))
	}
	if input.SourceType != nil && !input.SourceType.Valid() {
		return apierr.Validation("invalid_source_type", fmt.Errorf("unknown source type %q", *input.SourceType))
	}
	if input.Uncertainty != nil && !input.Uncertainty.Valid() {
		return apierr.Validation("invalid_uncertainty", fmt.Errorf("unknown uncertainty %q", *input.Uncertainty))
	}
	if input.Impact != nil && !input.Impact.Valid() {
		return apierr.Validation("invalid_impact", fmt.Errorf("unknown impact %q", *input.Impact))
	}
	for _, qa := range input.QualityAttributes {
		if !types.ValidQualityAttribute(qa) {
			return apierr.Validation("invalid_quality_attribute", fmt.Errorf("unknown quality attribute %q", qa))
		}
	}
	return nil
}

func applyUpdate(h *types.Hypothesis, input *types.UpdateHypothesisInput) {
	if input.Status != nil {
		h.Status = *input.Status
	}
	if input.SourceType != nil {
		h.SourceType = *input.SourceType
	}
	if input.QualityAttributes != nil {
		h.QualityAttributes = normalization.ParseStringSet(input.QualityAttributes)
	}
	if input.Uncertainty != nil {
		h.Uncertainty = *input.Uncertainty
	}
	if input.Impact != nil {
		h.Impact = *input.Impact
	}
	if input.RelatedArtefacts != nil {
		h.RelatedArtefacts = normalization.ParseStringSet(input.RelatedArtefacts)
	}
	if input.Notes != nil {
		h.Notes = normalization.ParseInputString(*input.Notes)
	}
}

func canonicalRefs(refs []string) (datatypes.JSONSlice[string], error) {
	canonical := make([]string, 0, len(refs))
	for _, raw := range refs {
		parsed, err := types.ParseEntityRef(raw)
		if err != nil {
			return nil, err
		}
		canonical = append(canonical, parsed.String())
	}
	return datatypes.NewJSONSlice(lo.Uniq(canonical)), nil
}

func marshalChanges(changes types.EventChanges) (datatypes.JSON, error) {
	raw, err := json.Marshal(changes)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
