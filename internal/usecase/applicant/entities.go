package applicant

import "time"

type ResolveInput struct {
	Name       string
	Email      string
	Credential string
}

type ApplicantDTO struct {
	ApplicantID string     `json:"applicant_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
