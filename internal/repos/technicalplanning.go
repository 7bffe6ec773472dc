package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/types"
)

type TechnicalPlanningRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tp *types.TechnicalPlanning) (*types.TechnicalPlanning, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TechnicalPlanning, error)
	GetByHypothesisID(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) ([]*types.TechnicalPlanning, error)
	Update(ctx context.Context, tx *gorm.DB, tp *types.TechnicalPlanning) (*types.TechnicalPlanning, error)
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
	DeleteByHypothesisID(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) error
}

type technicalPlanningRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTechnicalPlanningRepo(db *gorm.DB, baseLog *logger.Logger) TechnicalPlanningRepo {
	repoLog := baseLog.With("repo", "TechnicalPlanningRepo")
	return &technicalPlanningRepo{db: db, log: repoLog}
}

func (r *technicalPlanningRepo) Create(ctx context.Context, tx *gorm.DB, tp *types.TechnicalPlanning) (*types.TechnicalPlanning, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(tp).Error; err != nil {
		return nil, err
	}
	return tp, nil
}

func (r *technicalPlanningRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TechnicalPlanning, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.TechnicalPlanning
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *technicalPlanningRepo) GetByHypothesisID(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) ([]*types.TechnicalPlanning, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.TechnicalPlanning
	if err := transaction.WithContext(ctx).
		Where("hypothesis_id = ?", hypothesisID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *technicalPlanningRepo) Update(ctx context.Context, tx *gorm.DB, tp *types.TechnicalPlanning) (*types.TechnicalPlanning, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Save(tp).Error; err != nil {
		return nil, err
	}
	return tp, nil
}

func (r *technicalPlanningRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.TechnicalPlanning{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *technicalPlanningRepo) DeleteByHypothesisID(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("hypothesis_id = ?", hypothesisID).
		Delete(&types.TechnicalPlanning{}).Error
}
