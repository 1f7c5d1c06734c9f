package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hushroom"

var (
	// connects by outcome: "new" or "reconnect"
	ConnectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connections_total",
		Help:      "Connections bound to an alias, by assignment kind.",
	}, []string{"kind"})

	DisconnectsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "disconnects_total",
		Help:      "Connections released.",
	})

	UsersOnline = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "users_online",
		Help:      "Connections currently bound to an alias.",
	})

	// chat messages by outcome: "delivered", "censored", "empty", "rate_limited", "too_large"
	MessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_total",
		Help:      "Inbound chat messages by outcome.",
	}, []string{"outcome"})

	HistoryRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "history_records",
		Help:      "Messages currently retained in history.",
	})

	PurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_purged_total",
		Help:      "Messages removed by the retention sweep.",
	})

	PurgeFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purge_failures_total",
		Help:      "Sweep cycles that failed and were recovered.",
	})

	ReservationsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_expired_total",
		Help:      "Lapsed alias reservations removed by the sweep.",
	})
)
