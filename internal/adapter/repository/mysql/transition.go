package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "loan-origination/internal/domain/transition"
)

type TransitionRepository struct{ db *gorm.DB }

func NewTransitionRepository(db *gorm.DB) *TransitionRepository {
	return &TransitionRepository{db: db}
}

func (r *TransitionRepository) Create(ctx context.Context, t *domain.Transition) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *TransitionRepository) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Transition, error) {
	var out []domain.Transition
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, translate(err)
}
