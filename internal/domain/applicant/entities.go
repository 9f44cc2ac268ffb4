package applicant

import "time"

// Applicant is identified uniquely by email. Records are never deleted.
type Applicant struct {
	ID             uint64     `gorm:"primaryKey;column:id" json:"-"`
	ApplicantID    string     `gorm:"column:applicant_id;size:32;not null;uniqueIndex:ux_applicants_applicant_id" json:"applicant_id"`
	Name           string     `gorm:"column:name;size:100;not null" json:"name"`
	Email          string     `gorm:"column:email;size:255;not null;uniqueIndex:ux_applicants_email" json:"email"`
	CredentialHash string     `gorm:"column:credential_hash;size:255;not null" json:"-"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`
}

func (Applicant) TableName() string { return "applicants" }
