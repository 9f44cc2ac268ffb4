package transitionmock

import (
	"context"

	domain "loan-origination/internal/domain/transition"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn       func(ctx context.Context, t *domain.Transition) error
	ListByLoanIDFn func(ctx context.Context, loanID uint64) ([]domain.Transition, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transition) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListByLoanID(ctx context.Context, loanID uint64) ([]domain.Transition, error) {
	if m.ListByLoanIDFn != nil {
		return m.ListByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}
