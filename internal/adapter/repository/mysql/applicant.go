package mysql

import (
	"context"

	"gorm.io/gorm"

	domain "loan-origination/internal/domain/applicant"
)

type ApplicantRepository struct{ db *gorm.DB }

func NewApplicantRepository(db *gorm.DB) *ApplicantRepository { return &ApplicantRepository{db: db} }

func (r *ApplicantRepository) Create(ctx context.Context, a *domain.Applicant) error {
	return translate(r.db.WithContext(ctx).Create(a).Error)
}

func (r *ApplicantRepository) GetByEmail(ctx context.Context, email string) (*domain.Applicant, error) {
	var out domain.Applicant
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func (r *ApplicantRepository) GetByApplicantID(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	var out domain.Applicant
	if err := r.db.WithContext(ctx).Where("applicant_id = ?", applicantID).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}
