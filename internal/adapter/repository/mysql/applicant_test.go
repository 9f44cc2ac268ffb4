package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"loan-origination/internal/domain/apperr"
	domain "loan-origination/internal/domain/applicant"
	"loan-origination/pkg/id"
)

func makeApplicant(email string) *domain.Applicant {
	return &domain.Applicant{
		ApplicantID: id.NewID32(),
		Name:        "Ana",
		Email:       email,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestApplicant_CreateAndLookups(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicantRepository(db)
	ctx := context.Background()

	a := makeApplicant("ana@example.com")
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	byEmail, err := repo.GetByEmail(ctx, "ana@example.com")
	if err != nil || byEmail.ApplicantID != a.ApplicantID {
		t.Fatalf("GetByEmail: %+v, %v", byEmail, err)
	}
	byID, err := repo.GetByApplicantID(ctx, a.ApplicantID)
	if err != nil || byID.Email != a.Email {
		t.Fatalf("GetByApplicantID: %+v, %v", byID, err)
	}
	if byID.UpdatedAt != nil {
		t.Fatalf("updated_at set on insert")
	}
}

func TestApplicant_DuplicateEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewApplicantRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeApplicant("dup@example.com")); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	err := repo.Create(ctx, makeApplicant("dup@example.com"))
	if !errors.Is(err, apperr.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestApplicant_NotFound(t *testing.T) {
	repo := NewApplicantRepository(openTestDB(t))

	if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
