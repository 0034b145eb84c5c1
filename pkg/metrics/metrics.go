// Package metrics exposes Prometheus collectors for the highway service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeNoPath   = "no_path"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "highway_commands_total",
		Help: "Requests processed, by command and outcome",
	}, []string{"command", "outcome"})

	planDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "highway_plan_duration_seconds",
		Help:    "Path query duration by direction",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}, []string{"direction"})

	planHops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "highway_plan_hops",
		Help:    "Hops in successful path queries",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	cursorAdvances = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "highway_plan_cursor_advances",
		Help:    "Stations visited by the search cursor per path query",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	stations = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "highway_stations",
		Help: "Stations currently on the highway",
	})
)

// ObserveCommand counts one processed request.
func ObserveCommand(command, outcome string) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

// ObservePlan records a completed path query. hops is negative when no
// path was found, in which case only the duration is recorded.
func ObservePlan(direction string, took time.Duration, hops, advances int) {
	planDuration.WithLabelValues(direction).Observe(took.Seconds())
	if hops < 0 {
		return
	}
	planHops.Observe(float64(hops))
	cursorAdvances.Observe(float64(advances))
}

// SetStations publishes the current station count.
func SetStations(n int) {
	stations.Set(float64(n))
}
