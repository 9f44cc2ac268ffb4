package loanmock

import (
	"context"

	domain "loan-origination/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset mutators are no-ops; unset readers return context.Canceled.
type Repo struct {
	CreateFn            func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn       func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByApplicantIDFn func(ctx context.Context, applicantID string) ([]domain.Loan, error)
	ListAllFn           func(ctx context.Context) ([]domain.Loan, error)
	UpdateFn            func(ctx context.Context, l *domain.Loan) error
	DeleteFn            func(ctx context.Context, loanID, deletedBy string) error
	StatusTotalsFn      func(ctx context.Context) ([]domain.StatusTotal, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByApplicantID(ctx context.Context, applicantID string) ([]domain.Loan, error) {
	if m.ListByApplicantIDFn != nil {
		return m.ListByApplicantIDFn(ctx, applicantID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Loan, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) Update(ctx context.Context, l *domain.Loan) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, loanID, deletedBy string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, loanID, deletedBy)
	}
	return nil
}

func (m *Repo) StatusTotals(ctx context.Context) ([]domain.StatusTotal, error) {
	if m.StatusTotalsFn != nil {
		return m.StatusTotalsFn(ctx)
	}
	return nil, context.Canceled
}
