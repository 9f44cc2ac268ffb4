package uow

import (
	"context"

	"loan-origination/internal/domain/loan"
	"loan-origination/internal/domain/transition"
)

// Repos are bound to one transaction.
type Repos struct {
	Loans       loan.Repository
	Transitions transition.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: load the live loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
