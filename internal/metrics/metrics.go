package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vancomm/sweeper/internal/mines"
)

type Metrics struct {
	GamesStarted   prometheus.Counter
	GamesFinished  *prometheus.CounterVec
	Actions        *prometheus.CounterVec
	CellsRevealed  prometheus.Histogram
	ActiveSessions prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sweeper",
			Name:      "games_started_total",
			Help:      "Boards generated, including restarts.",
		}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sweeper",
			Name:      "games_finished_total",
			Help:      "Sessions that reached a terminal state.",
		}, []string{"state"}),
		Actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sweeper",
			Name:      "actions_total",
			Help:      "Player actions by kind and result.",
		}, []string{"action", "result"}),
		CellsRevealed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sweeper",
			Name:      "cells_revealed_per_action",
			Help:      "Cells opened by a single primary action.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sweeper",
			Name:      "active_sessions",
			Help:      "Sessions held in memory.",
		}),
	}
	reg.MustRegister(
		m.GamesStarted,
		m.GamesFinished,
		m.Actions,
		m.CellsRevealed,
		m.ActiveSessions,
	)
	return m
}

func (m *Metrics) ObservePrimary(res mines.ActionResult, err error) {
	m.Actions.WithLabelValues("reveal", actionResult(err)).Inc()
	if err != nil {
		return
	}
	if n := len(res.Revealed); n > 0 && res.Outcome != mines.Lose {
		m.CellsRevealed.Observe(float64(n))
	}
	switch res.Outcome {
	case mines.Win:
		m.GamesFinished.WithLabelValues(mines.Won.String()).Inc()
	case mines.Lose:
		m.GamesFinished.WithLabelValues(mines.Lost.String()).Inc()
	}
}

func (m *Metrics) ObserveSecondary(err error) {
	m.Actions.WithLabelValues("flag", actionResult(err)).Inc()
}

func actionResult(err error) string {
	if err != nil {
		return "rejected"
	}
	return "accepted"
}
