// Package portfolio derives read-only summary statistics over all live loans.
package portfolio

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"loan-origination/internal/domain/apperr"
	"loan-origination/internal/domain/auth"
	"loan-origination/internal/domain/loan"
	"loan-origination/internal/infrastructure/metrics"
)

type Stats struct {
	PendingCount        int64   `json:"pending_count"`
	ApprovedCount       int64   `json:"approved_count"`
	RejectedCount       int64   `json:"rejected_count"`
	PaidCount           int64   `json:"paid_count"`
	TotalCount          int64   `json:"total_count"`
	TotalApprovedAmount float64 `json:"total_approved_amount"`
	TotalPaidAmount     float64 `json:"total_paid_amount"`
	ApprovalRatePercent int64   `json:"approval_rate_percent"`
}

type Aggregator struct {
	loans   loan.Repository
	metrics *metrics.Metrics
}

func NewAggregator(loans loan.Repository, m *metrics.Metrics) *Aggregator {
	return &Aggregator{loans: loans, metrics: m}
}

// Compute reads one grouped snapshot of the loan set. Concurrent writers may
// make it slightly stale; it never blocks them.
func (a *Aggregator) Compute(ctx context.Context, who auth.Identity) (*Stats, error) {
	if !who.IsStaff() {
		return nil, apperr.ErrForbidden
	}
	defer a.metrics.ObserveOperation("stats", time.Now())

	totals, err := a.loans.StatusTotals(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(totals), nil
}

// Summarize folds per-status totals into Stats. Counts are per current
// status. Disbursed volume and the approval rate both treat a Paid loan as
// approved, so repayment never lowers either.
func Summarize(totals []loan.StatusTotal) *Stats {
	var s Stats
	disbursed := decimal.Zero
	paid := decimal.Zero
	for _, t := range totals {
		s.TotalCount += t.Count
		switch t.Status {
		case loan.StatusPending:
			s.PendingCount += t.Count
		case loan.StatusApproved:
			s.ApprovedCount += t.Count
			disbursed = disbursed.Add(t.Principal)
		case loan.StatusRejected:
			s.RejectedCount += t.Count
		case loan.StatusPaid:
			s.PaidCount += t.Count
			disbursed = disbursed.Add(t.Principal)
			paid = paid.Add(t.Principal)
		}
	}
	s.TotalApprovedAmount = disbursed.Round(2).InexactFloat64()
	s.TotalPaidAmount = paid.Round(2).InexactFloat64()
	if s.TotalCount > 0 {
		everApproved := s.ApprovedCount + s.PaidCount
		s.ApprovalRatePercent = int64(math.Round(float64(everApproved) / float64(s.TotalCount) * 100))
	}
	return &s
}
