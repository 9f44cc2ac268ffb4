package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loan-origination/internal/domain/apperr"
	domain "loan-origination/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *domain.Loan) error {
	if l.Status == "" {
		l.Status = domain.StatusPending
	}
	if l.Version == 0 {
		l.Version = 1
	}
	// the applicant row is owned by the registry
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error)
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.get(r.db.WithContext(ctx), loanID)
}

// GetByLoanIDForUpdate locks the row until the surrounding tx ends.
func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), loanID)
}

func (r *LoanRepository) get(db *gorm.DB, loanID string) (*domain.Loan, error) {
	var out domain.Loan
	if err := db.Preload("Applicant").Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *LoanRepository) ListByApplicantID(ctx context.Context, applicantID string) ([]domain.Loan, error) {
	out := []domain.Loan{}
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, translate(err)
}

func (r *LoanRepository) ListAll(ctx context.Context) ([]domain.Loan, error) {
	out := []domain.Loan{}
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, translate(err)
}

// Update is a compare-and-swap on version. Zero rows affected means the
// loan is gone or someone else wrote first.
func (r *LoanRepository) Update(ctx context.Context, l *domain.Loan) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&domain.Loan{}).
		Where("loan_id = ? AND version = ?", l.LoanID, l.Version).
		Updates(map[string]any{
			"principal":   l.Principal,
			"term_months": l.TermMonths,
			"annual_rate": l.AnnualRate,
			"status":      l.Status,
			"version":     l.Version + 1,
			"updated_at":  now,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missingOrStale(ctx, l.LoanID)
	}
	l.Version++
	l.UpdatedAt = &now
	return nil
}

func (r *LoanRepository) missingOrStale(ctx context.Context, loanID string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Loan{}).Where("loan_id = ?", loanID).Count(&n).Error; err != nil {
		return translate(err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return apperr.ErrConflict
}

// Delete marks the loan deleted and records who did it.
func (r *LoanRepository) Delete(ctx context.Context, loanID, deletedBy string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Loan{}).
		Where("loan_id = ?", loanID).
		Updates(map[string]any{
			"deleted_at": time.Now().UTC(),
			"deleted_by": deletedBy,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *LoanRepository) StatusTotals(ctx context.Context) ([]domain.StatusTotal, error) {
	var out []domain.StatusTotal
	err := r.db.WithContext(ctx).
		Model(&domain.Loan{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(principal), 0) AS principal").
		Where("deleted_at IS NULL").
		Group("status").
		Scan(&out).Error
	return out, translate(err)
}
