// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WizardStepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_step_transitions_total",
			Help: "Total number of step transitions per wizard",
		},
		[]string{"wizard", "direction"},
	)

	WizardAdvanceRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_advance_rejected_total",
			Help: "Total number of advances rejected because a step was incomplete",
		},
		[]string{"wizard", "step"},
	)

	WizardsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wizards_active",
			Help: "Number of wizard instances not yet disposed",
		},
		[]string{"wizard"},
	)

	MilestoneOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_milestone_operations_total",
			Help: "Total number of milestone ledger operations",
		},
		[]string{"operation", "result"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_payments_total",
			Help: "Total number of simulated payments by outcome",
		},
		[]string{"method", "status"},
	)

	PaymentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "escrow_payment_duration_seconds",
			Help:    "Time from payment start to simulated completion",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5},
		},
	)

	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_verifications_total",
			Help: "Total number of simulated KYC/KYB verifications",
		},
		[]string{"document", "result"},
	)
)

// Result label values.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
)

// ResultLabel maps an error to the result label.
func ResultLabel(err error) string {
	if err != nil {
		return ResultRejected
	}
	return ResultOK
}
