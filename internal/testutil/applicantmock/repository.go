package applicantmock

import (
	"context"

	domain "loan-origination/internal/domain/applicant"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Applicant) error
	GetByEmailFn       func(ctx context.Context, email string) (*domain.Applicant, error)
	GetByApplicantIDFn func(ctx context.Context, applicantID string) (*domain.Applicant, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Applicant) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.Applicant, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByApplicantID(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	if m.GetByApplicantIDFn != nil {
		return m.GetByApplicantIDFn(ctx, applicantID)
	}
	return nil, context.Canceled
}
