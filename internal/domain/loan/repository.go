package loan

import "context"

// Repository is the Loan Record Store. Soft-deleted loans are invisible to
// every method.
type Repository interface {
	// Create assigns CreatedAt, Version=1 and Status=Pending when unset.
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	ListByApplicantID(ctx context.Context, applicantID string) ([]Loan, error)
	ListAll(ctx context.Context) ([]Loan, error)

	// Update writes l if the stored version still equals l.Version. On success
	// l.Version is incremented and l.UpdatedAt set. A stale version yields
	// apperr.ErrConflict, a missing loan apperr.ErrNotFound.
	Update(ctx context.Context, l *Loan) error

	Delete(ctx context.Context, loanID, deletedBy string) error
	StatusTotals(ctx context.Context) ([]StatusTotal, error)
}
