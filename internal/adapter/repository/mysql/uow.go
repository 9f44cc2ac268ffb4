package mysql

import (
	"context"

	"gorm.io/gorm"

	"loan-origination/internal/domain/loan"
	"loan-origination/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func bind(tx *gorm.DB) (uow.Repos, *LoanRepository) {
	loans := &LoanRepository{db: tx}
	return uow.Repos{Loans: loans, Transitions: &TransitionRepository{db: tx}}, loans
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, _ := bind(tx)
		return fn(r)
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, loans := bind(tx)
		// lock the loan row up-front; the version check still guards
		// writers that read outside this tx
		l, err := loans.GetByLoanIDForUpdate(ctx, loanID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
