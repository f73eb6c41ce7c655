package metrics

import (
	"net/http"

	"github.com/m-mizutani/brix/pkg/domain/model"
	"github.com/m-mizutani/brix/pkg/domain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	indexingRunTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brix_indexing_run_total",
		Help: "Total indexing runs by project and result",
	}, []string{"project", "result"})

	indexingRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brix_indexing_run_duration_seconds",
		Help:    "Indexing run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	}, []string{"project"})

	buildScheduledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brix_build_scheduled_total",
		Help: "Total builds scheduled by indexing runs",
	}, []string{"project"})

	buildResultTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brix_build_result_total",
		Help: "Total finished builds by project and result",
	}, []string{"project", "result"})

	childJobs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "brix_child_jobs",
		Help: "Number of child jobs per project after the latest indexing run",
	}, []string{"project"})
)

// ObserveRun records a terminal indexing run
func ObserveRun(run *model.IndexingRun) {
	indexingRunTotal.WithLabelValues(run.Project.String(), run.Result.String()).Inc()
	if !run.EndedAt.IsZero() {
		indexingRunDuration.WithLabelValues(run.Project.String()).Observe(run.EndedAt.Sub(run.StartedAt).Seconds())
	}
}

func CountBuildScheduled(project types.ProjectName) {
	buildScheduledTotal.WithLabelValues(project.String()).Inc()
}

func CountBuildResult(result *model.BuildResult) {
	buildResultTotal.WithLabelValues(result.Project.String(), result.Result.String()).Inc()
}

func SetChildJobs(project types.ProjectName, n int) {
	childJobs.WithLabelValues(project.String()).Set(float64(n))
}

// Handler serves metrics of the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
