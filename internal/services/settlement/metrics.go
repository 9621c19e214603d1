package settlement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betledger_settlements_total",
		Help: "Completed settlements by result.",
	}, []string{"result"})

	rejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "betledger_settlement_rejections_total",
		Help: "Wagers rejected before any funds moved, by reason.",
	}, []string{"reason"})

	creditRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betledger_credit_retries_total",
		Help: "Payout credit attempts that were retried.",
	})

	compensations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betledger_compensations_total",
		Help: "Settlements that refunded the stake after credit failure.",
	})

	strandedStakes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betledger_stranded_stakes_total",
		Help: "Stakes whose compensation refund also failed.",
	})

	ledgerWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betledger_ledger_write_failures_total",
		Help: "Audit records that could not be written after funds moved.",
	})

	publishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "betledger_event_publish_failures_total",
		Help: "BetSettled events that could not be published.",
	})
)
