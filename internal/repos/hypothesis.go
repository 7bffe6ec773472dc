package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/types"
)

type HypothesisRepo interface {
	Create(ctx context.Context, tx *gorm.DB, h *types.Hypothesis) (*types.Hypothesis, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Hypothesis, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Hypothesis, error)
	Update(ctx context.Context, tx *gorm.DB, h *types.Hypothesis) (*types.Hypothesis, error)
	// DeleteByID returns the number of rows removed; zero rows means the
	// hypothesis did not exist.
	DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error)
}

type hypothesisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHypothesisRepo(db *gorm.DB, baseLog *logger.Logger) HypothesisRepo {
	repoLog := baseLog.With("repo", "HypothesisRepo")
	return &hypothesisRepo{db: db, log: repoLog}
}

func (r *hypothesisRepo) Create(ctx context.Context, tx *gorm.DB, h *types.Hypothesis) (*types.Hypothesis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Omit("TechnicalPlannings").Create(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

func (r *hypothesisRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Hypothesis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.Hypothesis
	err := transaction.WithContext(ctx).
		Preload("TechnicalPlannings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
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

func (r *hypothesisRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Hypothesis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Hypothesis
	if err := transaction.WithContext(ctx).
		Preload("TechnicalPlannings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *hypothesisRepo) Update(ctx context.Context, tx *gorm.DB, h *types.Hypothesis) (*types.Hypothesis, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Omit("TechnicalPlannings").Save(h).Error; err != nil {
		return nil, err
	}
	return h, nil
}

func (r *hypothesisRepo) DeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Hypothesis{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
