// Package metrics defines all custom Prometheus metrics for the agreement
// log API. It is the single source of truth for metric names, labels, and
// help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agreementlog"

// AgreementsCreatedTotal counts newly recorded agreements.
// Labels:
//   - category: dashboard category (e.g. "Clients")
//   - needs_signature: "true" or "false"
var AgreementsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "agreements_created_total",
		Help:      "Total number of agreements recorded, by category.",
	},
	[]string{"category", "needs_signature"},
)

// CountersignTotal counts countersign attempts by outcome.
// Label:
//   - result: "signed", "not_found_or_signed", "invalid", "error"
var CountersignTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "countersign_total",
		Help:      "Total number of countersign attempts, by result.",
	},
	[]string{"result"},
)

// RelayRequestsTotal counts ledger relay submissions by anchor outcome.
// Label:
//   - status: "confirmed" or "failed"
var RelayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_requests_total",
		Help:      "Total number of ledger relay submissions, by anchor status.",
	},
	[]string{"status"},
)

// RelayDuration measures the blocking ledger relay call end-to-end.
var RelayDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "relay_duration_seconds",
		Help:      "Duration of the ledger relay call including transaction confirmation.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
)

// ResetMailsTotal counts password reset email deliveries.
// Label:
//   - result: "sent", "error", "dropped"
var ResetMailsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_mails_total",
		Help:      "Total number of password reset emails, by delivery result.",
	},
	[]string{"result"},
)
