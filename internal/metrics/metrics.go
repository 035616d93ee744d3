package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tictactoe"

var (
	Connections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Connection admissions by result",
		},
		[]string{"result"},
	)
	Moves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moves_total",
			Help:      "Move intents by result",
		},
		[]string{"result"},
	)
	GamesFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Finished games by outcome",
		},
		[]string{"outcome"},
	)
	Participants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "participants",
			Help:      "Participants currently seated in the session",
		},
	)
	OpenConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_connections",
			Help:      "Open websocket connections",
		},
	)
)

const (
	ResultAccepted  = "accepted"
	ResultRejected  = "rejected"
	ResultApplied   = "applied"
	ResultMalformed = "malformed"

	OutcomeWin     = "win"
	OutcomeDraw    = "draw"
	OutcomeForfeit = "forfeit"
)

func init() {
	prometheus.MustRegister(Connections)
	prometheus.MustRegister(Moves)
	prometheus.MustRegister(GamesFinished)
	prometheus.MustRegister(Participants)
	prometheus.MustRegister(OpenConnections)
}
