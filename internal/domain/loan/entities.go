package loan

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"loan-origination/internal/domain/applicant"
)

type Loan struct {
	ID          uint64               `gorm:"primaryKey;column:id" json:"-"`
	LoanID      string               `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	ApplicantID string               `gorm:"column:applicant_id;size:32;not null;index:idx_loans_applicant" json:"applicant_id"`
	Applicant   *applicant.Applicant `gorm:"foreignKey:ApplicantID;references:ApplicantID" json:"applicant,omitempty"`
	LoanType    string               `gorm:"column:loan_type;size:32" json:"loan_type,omitempty"`
	Principal   decimal.Decimal      `gorm:"column:principal;type:decimal(18,2);not null" json:"principal"`
	TermMonths  int                  `gorm:"column:term_months;not null" json:"term_months"`
	AnnualRate  decimal.Decimal      `gorm:"column:annual_rate;type:decimal(5,2);not null" json:"annual_rate"`
	Status      Status               `gorm:"column:status;size:16;not null;default:'Pending';index:idx_loans_status" json:"status"`
	Version     uint64               `gorm:"column:version;not null;default:1" json:"version"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   *time.Time           `gorm:"column:updated_at;autoUpdateTime:false" json:"updated_at,omitempty"`
	DeletedAt   gorm.DeletedAt       `gorm:"column:deleted_at;index" json:"-"`
	DeletedBy   string               `gorm:"column:deleted_by;size:64" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// StatusTotal is one row of the per-status aggregation over live loans.
type StatusTotal struct {
	Status    Status
	Count     int64
	Principal decimal.Decimal
}
