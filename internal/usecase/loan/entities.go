package loan

import (
	"time"

	ucApplicant "loan-origination/internal/usecase/applicant"
)

type ApplicantInput struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Credential string `json:"credential"`
}

type SubmitInput struct {
	Applicant  ApplicantInput `json:"applicant"`
	LoanType   string         `json:"loan_type"`
	Principal  float64        `json:"principal"`
	TermMonths int            `json:"term_months"`
	// nil means "use the loan type's rate"
	AnnualRate *float64 `json:"annual_rate"`
}

// UpdateInput is the full client-side representation of a loan. Version is
// the one the client read; a stale version fails with a conflict.
type UpdateInput struct {
	LoanID      string  `json:"loan_id"`
	Version     uint64  `json:"version"`
	ApplicantID string  `json:"applicant_id"`
	Principal   float64 `json:"principal"`
	TermMonths  int     `json:"term_months"`
	AnnualRate  float64 `json:"annual_rate"`
	Status      string  `json:"status"`
	Force       bool    `json:"force"`
}

type CalculateInput struct {
	LoanType   string   `json:"loan_type"`
	Principal  float64  `json:"principal"`
	TermMonths int      `json:"term_months"`
	AnnualRate *float64 `json:"annual_rate"`
}

type QuoteDTO struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalAmount    float64 `json:"total_amount"`
	TotalInterest  float64 `json:"total_interest"`
	AnnualRate     float64 `json:"annual_rate"`
}

type LoanDTO struct {
	LoanID         string                    `json:"loan_id"`
	ApplicantID    string                    `json:"applicant_id"`
	Applicant      *ucApplicant.ApplicantDTO `json:"applicant,omitempty"`
	LoanType       string                    `json:"loan_type,omitempty"`
	Principal      float64                   `json:"principal"`
	TermMonths     int                       `json:"term_months"`
	AnnualRate     float64                   `json:"annual_rate"`
	Status         string                    `json:"status"`
	Version        uint64                    `json:"version"`
	MonthlyPayment float64                   `json:"monthly_payment"`
	TotalAmount    float64                   `json:"total_amount"`
	TotalInterest  float64                   `json:"total_interest"`
	CreatedAt      time.Time                 `json:"created_at"`
	UpdatedAt      *time.Time                `json:"updated_at,omitempty"`
}

type TransitionDTO struct {
	TransitionID string    `json:"transition_id"`
	FromStatus   string    `json:"from_status"`
	ToStatus     string    `json:"to_status"`
	ActorID      string    `json:"actor_id"`
	Forced       bool      `json:"forced"`
	CreatedAt    time.Time `json:"created_at"`
}

type ProductDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	MinAmount  float64 `json:"min_amount"`
	MaxAmount  float64 `json:"max_amount"`
	MinTerm    int     `json:"min_term"`
	MaxTerm    int     `json:"max_term"`
	AnnualRate float64 `json:"annual_rate"`
}
