// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransfersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ryt",
		Name:      "transfers_created_total",
		Help:      "Transfers created in PENDING status.",
	})

	TransfersConfirmed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ryt",
		Name:      "transfers_confirmed_total",
		Help:      "Confirmed transfers by terminal status.",
	}, []string{"status"})

	TransfersCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ryt",
		Name:      "transfers_cancelled_total",
		Help:      "Transfers cancelled while still PENDING.",
	})

	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ryt",
		Name:      "webhook_deliveries_total",
		Help:      "Webhook delivery attempts by result.",
	}, []string{"result"})
)
