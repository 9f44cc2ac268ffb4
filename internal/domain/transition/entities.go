package transition

import "time"

// Transition is one audited status change of a loan.
type Transition struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TransitionID string    `gorm:"column:transition_id;size:32;not null;uniqueIndex:ux_loan_transitions_transition_id" json:"transition_id"`
	LoanID       uint64    `gorm:"column:loan_id;not null;index:idx_loan_transitions_loan" json:"-"`
	FromStatus   string    `gorm:"column:from_status;size:16;not null" json:"from_status"`
	ToStatus     string    `gorm:"column:to_status;size:16;not null" json:"to_status"`
	ActorID      string    `gorm:"column:actor_id;size:64;not null" json:"actor_id"`
	Forced       bool      `gorm:"column:forced;not null;default:false" json:"forced"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Transition) TableName() string { return "loan_transitions" }
