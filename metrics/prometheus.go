// Package metrics exposes scoring and resource values to prometheus.
package metrics

import (
	"time"

	"github.com/edgeorch/rater/resource"
	"github.com/edgeorch/rater/scoring"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	prometheus.MustRegister(scores)
	prometheus.MustRegister(unavailable)
	prometheus.MustRegister(scoreLatency)
	prometheus.MustRegister(resources)
}

var scores = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "rater",
		Subsystem: "scoring",
		Name:      "score",
		Help:      "Last score computed by each strategy.",
	},
	[]string{"strategy"},
)

var unavailable = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "rater",
		Subsystem: "scoring",
		Name:      "unavailable_total",
		Help:      "Number of resource queries which failed, by strategy and key.",
	},
	[]string{"strategy", "key"},
)

var scoreLatency = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "rater",
		Subsystem: "scoring",
		Name:      "duration_seconds",
		Help:      "Time taken to score a device, including resource queries.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
	},
	[]string{"strategy"},
)

var resources = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "rater",
		Subsystem: "resource",
		Name:      "value",
		Help:      "Last sampled value of each resource.",
	},
	[]string{"key"},
)

// Instrument wraps a strategy so that its scores, failed resource queries
// and scoring time are recorded under the given name.
func Instrument(name string, s scoring.Strategy) scoring.Strategy {
	return scoring.StrategyFunc(func(q scoring.Query) float64 {
		start := time.Now()
		score := s.Score(scoring.QueryFunc(func(key string) (float64, error) {
			v, err := q.Resource(key)
			if err != nil {
				unavailable.WithLabelValues(name, key).Inc()
			}
			return v, err
		}))
		scoreLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
		scores.WithLabelValues(name).Set(score)
		return score
	})
}

// ObserveResource records a sampled resource value.
func ObserveResource(info resource.Info) {
	resources.WithLabelValues(info.Name).Set(info.Value)
}
