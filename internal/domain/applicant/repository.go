package applicant

import "context"

type Repository interface {
	// Create inserts a new applicant. A taken email surfaces as apperr.ErrDuplicate.
	Create(ctx context.Context, a *Applicant) error
	GetByEmail(ctx context.Context, email string) (*Applicant, error)
	GetByApplicantID(ctx context.Context, applicantID string) (*Applicant, error)
}
