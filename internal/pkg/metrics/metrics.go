package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fashionai_webhook_events_total",
		Help: "Payment webhook deliveries by event type and outcome.",
	}, []string{"event", "outcome"})

	CreditsSpent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fashionai_credits_spent_total",
		Help: "Credits debited from user ledgers.",
	})

	CreditsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fashionai_credits_granted_total",
		Help: "Credits granted to user ledgers by source.",
	}, []string{"source"})

	CommissionsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fashionai_commissions_granted_total",
		Help: "Referral commissions granted.",
	})

	Generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fashionai_generations_total",
		Help: "Virtual try-on generations by outcome.",
	}, []string{"outcome"})
)
