package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the loan engine. A nil *Metrics is valid and records nothing.
type Metrics struct {
	LoanSubmissions   prometheus.Counter
	StatusChanges     *prometheus.CounterVec
	UpdateConflicts   prometheus.Counter
	ApplicantsCreated prometheus.Counter
	OperationDuration *prometheus.HistogramVec
}

// New registers all engine metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoanSubmissions: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_submissions_total",
			Help: "Total number of loan applications persisted",
		}),
		StatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "loan_status_changes_total",
			Help: "Total number of applied loan status transitions",
		}, []string{"from", "to"}),
		UpdateConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "loan_update_conflicts_total",
			Help: "Total number of loan writes rejected for a stale version",
		}),
		ApplicantsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "applicants_created_total",
			Help: "Total number of applicants registered",
		}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "loan_operation_duration_seconds",
			Help:    "Duration of lifecycle operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

func (m *Metrics) IncLoanSubmissions() {
	if m == nil {
		return
	}
	m.LoanSubmissions.Inc()
}

func (m *Metrics) IncStatusChange(from, to string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncUpdateConflicts() {
	if m == nil {
		return
	}
	m.UpdateConflicts.Inc()
}

func (m *Metrics) IncApplicantsCreated() {
	if m == nil {
		return
	}
	m.ApplicantsCreated.Inc()
}

// ObserveOperation records the duration of an operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(operation string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
