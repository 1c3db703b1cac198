package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InvestmentsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vesta_investments_submitted_total",
		Help: "Number of pending investments submitted.",
	})

	InvestmentsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vesta_investments_approved_total",
		Help: "Number of investments moved from pending to active.",
	})

	InvestmentsWithdrawn = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vesta_investments_withdrawn_total",
		Help: "Number of investments withdrawn.",
	})

	RenewalsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vesta_renewals_processed_total",
		Help: "Number of renewal actions processed, by action.",
	}, []string{"action"})

	RateFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vesta_rate_fallbacks_total",
		Help: "Number of rate resolutions that fell back to the caller default.",
	})

	RenewalHistoryWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vesta_renewal_history_write_failures_total",
		Help: "Renewal history writes that failed after the primary mutation succeeded.",
	})
)
