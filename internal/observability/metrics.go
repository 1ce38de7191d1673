package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riskibarqy/matchday-engine/internal/config"
	"github.com/riskibarqy/matchday-engine/internal/domain/match"
	"github.com/riskibarqy/matchday-engine/internal/domain/prediction"
	"github.com/riskibarqy/matchday-engine/internal/platform/logging"
)

const metricsNamespace = "matchday"

// Metrics implements usecase.EngineMetrics on a private Prometheus registry.
type Metrics struct {
	registry         *prometheus.Registry
	jobRuns          *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
	matchesSaved     *prometheus.CounterVec
	blacklistDropped *prometheus.CounterVec
	stuckRepaired    *prometheus.CounterVec
	graded           *prometheus.CounterVec
	streakBonus      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "job_runs_total",
			Help:      "Job runs by final status.",
		}, []string{"job", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "job_duration_seconds",
			Help:      "Wall time of completed job runs.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"job"}),
		matchesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "matches_saved_total",
			Help:      "Match rows written by reconciliation.",
		}, []string{"sport", "path"}),
		blacklistDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "blacklisted_dropped_total",
			Help:      "Provider matches dropped by the blacklist.",
		}, []string{"sport"}),
		stuckRepaired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stuck_repaired_total",
			Help:      "Stuck live matches handled, by outcome.",
		}, []string{"sport", "outcome"}),
		graded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "predictions_graded_total",
			Help:      "Predictions moved from pending to graded.",
		}, []string{"sport", "kind", "correct"}),
		streakBonus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "streak_bonus_total",
			Help:      "Streak milestone bonuses awarded.",
		}, []string{"milestone"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.jobRuns,
		m.jobDuration,
		m.matchesSaved,
		m.blacklistDropped,
		m.stuckRepaired,
		m.graded,
		m.streakBonus,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) JobRun(job, status string, duration time.Duration) {
	m.jobRuns.WithLabelValues(job, status).Inc()
	if duration > 0 {
		m.jobDuration.WithLabelValues(job).Observe(duration.Seconds())
	}
}

func (m *Metrics) MatchesSaved(sport match.Sport, path string, count int) {
	if count <= 0 {
		return
	}
	m.matchesSaved.WithLabelValues(string(sport), path).Add(float64(count))
}

func (m *Metrics) BlacklistedDropped(sport match.Sport, count int) {
	if count <= 0 {
		return
	}
	m.blacklistDropped.WithLabelValues(string(sport)).Add(float64(count))
}

func (m *Metrics) StuckRepaired(sport match.Sport, outcome string) {
	m.stuckRepaired.WithLabelValues(string(sport), outcome).Inc()
}

func (m *Metrics) PredictionGraded(sport match.Sport, kind prediction.Kind, correct bool) {
	m.graded.WithLabelValues(string(sport), string(kind), strconv.FormatBool(correct)).Inc()
}

func (m *Metrics) StreakBonus(milestone int) {
	m.streakBonus.WithLabelValues(strconv.Itoa(milestone)).Inc()
}

// StartMetricsServer serves /metrics on its own listener when enabled.
func StartMetricsServer(cfg config.Config, metrics *Metrics, logger *logging.Logger) *http.Server {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.MetricsEnabled || metrics == nil {
		logger.Info("metrics server disabled", "reason", "METRICS_ENABLED=false")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	return startSideServer("metrics", cfg.MetricsAddr, mux, logger)
}
