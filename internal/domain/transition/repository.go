package transition

import "context"

type Repository interface {
	Create(ctx context.Context, t *Transition) error

	// ListByLoanID returns the transitions of a loan (numeric id), oldest first.
	ListByLoanID(ctx context.Context, loanID uint64) ([]Transition, error)
}
