// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DemoRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demo_runs_total",
			Help: "Total number of demo pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	DemoStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "demo_stage_duration_seconds",
			Help:    "Duration of each demo pipeline stage in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"stage"},
	)

	DemoStageWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "demo_stage_warnings_total",
			Help: "Warnings recorded by best-effort stages",
		},
		[]string{"stage"},
	)

	DemoEstimatedCost = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "demo_estimated_cost_dollars",
			Help:    "Estimated cost of successful demo runs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.25},
		},
	)

	RenderPoolInstances = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "render_pool_instances",
			Help: "Headless browser instances currently open across all pools",
		},
	)

	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_rejections_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
		[]string{"route"},
	)
)

// ObserveStage records how long a stage took and how many warnings it produced.
func ObserveStage(stage string, started time.Time, warnings int) {
	DemoStageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
	if warnings > 0 {
		DemoStageWarnings.WithLabelValues(stage).Add(float64(warnings))
	}
}
