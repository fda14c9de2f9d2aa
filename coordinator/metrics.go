package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the coordinator's Prometheus instrumentation: how long
// each stage's verification round takes, how many players are currently
// connected, and how many ceremonies have aborted.
type Metrics struct {
	StageDuration    *prometheus.HistogramVec
	ConnectedPlayers prometheus.Gauge
	Aborts           prometheus.Counter
}

// NewMetrics registers the coordinator's metrics against reg. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the global
// default registry across parallel test runs.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "mpc",
				Subsystem: "ceremony",
				Name:      "stage_duration_seconds",
				Help:      "Time for one player's round in a given stage: send, transform, receive and verify.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		ConnectedPlayers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "mpc",
			Subsystem: "ceremony",
			Name:      "connected_players",
			Help:      "Number of players with a currently live connection.",
		}),
		Aborts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mpc",
			Subsystem: "ceremony",
			Name:      "aborts_total",
			Help:      "Number of ceremony runs that ended with an error.",
		}),
	}
}
