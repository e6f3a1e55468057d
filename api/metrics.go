package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// metrics holds the server's collectors on a private registry so several
// servers can coexist in one process.
type metrics struct {
	registry       *prometheus.Registry
	gamesStarted   *prometheus.CounterVec
	actions        *prometheus.CounterVec
	errors         *prometheus.CounterVec
	scoresRecorded prometheus.Counter
}

func newMetrics(activeSessions func() float64) *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "games_started_total",
			Help:      "Games started, by game type.",
		}, []string{"game"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "actions_total",
			Help:      "Applied actions, by game type and resulting status.",
		}, []string{"game", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "errors_total",
			Help:      "Rejected requests, by error kind.",
		}, []string{"kind"}),
		scoresRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arcade",
			Name:      "scores_recorded_total",
			Help:      "Scores written to the score store.",
		}),
	}

	m.registry.MustRegister(
		m.gamesStarted,
		m.actions,
		m.errors,
		m.scoresRecorded,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "arcade",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}, activeSessions),
		collectors.NewGoCollector(),
	)
	return m
}
