package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/archboard/archboard-backend/internal/logger"
	"github.com/archboard/archboard-backend/internal/types"
)

// HypothesisEventRepo has no update: event rows are append-only and only ever
// removed as part of deleting the owning hypothesis.
type HypothesisEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ev *types.HypothesisEvent) (*types.HypothesisEvent, error)
	GetByHypothesisID(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) ([]*types.HypothesisEvent, error)
	DeleteByHypothesisID(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) error
}

type hypothesisEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHypothesisEventRepo(db *gorm.DB, baseLog *logger.Logger) HypothesisEventRepo {
	repoLog := baseLog.With("repo", "HypothesisEventRepo")
	return &hypothesisEventRepo{db: db, log: repoLog}
}

func (r *hypothesisEventRepo) Create(ctx context.Context, tx *gorm.DB, ev *types.HypothesisEvent) (*types.HypothesisEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *hypothesisEventRepo) GetByHypothesisID(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) ([]*types.HypothesisEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.HypothesisEvent
	if err := transaction.WithContext(ctx).
		Where("hypothesis_id = ?", hypothesisID).
		Order("timestamp ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *hypothesisEventRepo) DeleteByHypothesisID(ctx context.Context, tx *gorm.DB, hypothesisID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).
		Where("hypothesis_id = ?", hypothesisID).
		Delete(&types.HypothesisEvent{}).Error
}
