package metrics

import (
	"net/http"
	"time"

	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the analyzer's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	StoreConflicts   *prometheus.CounterVec
	FallbacksTotal   prometheus.Counter
	EscalationsTotal prometheus.Counter
	OverallScore     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		AnalysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversation_analyses_total",
				Help: "Total number of analysis runs by outcome",
			},
			[]string{"outcome"},
		),
		AnalysisDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "conversation_analysis_duration_seconds",
				Help:    "Time spent analyzing a conversation",
				Buckets: prometheus.DefBuckets,
			},
		),
		StoreConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_store_conflicts_total",
				Help: "Concurrent upsert conflicts seen by the report store",
			},
			[]string{"backend"},
		),
		FallbacksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "conversation_fallbacks_total",
				Help: "Assistant turns flagged as fallback answers",
			},
		),
		EscalationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "escalations_total",
				Help: "Reports that require escalation",
			},
		),
		OverallScore: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "conversation_overall_score",
				Help:    "Distribution of overall conversation scores",
				Buckets: prometheus.LinearBuckets(0, 0.5, 11),
			},
		),
	}

	m.registry.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.StoreConflicts,
		m.FallbacksTotal,
		m.EscalationsTotal,
		m.OverallScore,
	)
	return m
}

func (m *Metrics) ObserveAnalysis(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveReport(r models.Report) {
	if m == nil {
		return
	}
	m.FallbacksTotal.Add(float64(r.FallbackFrequency))
	m.OverallScore.Observe(r.OverallScore)
	if r.EscalationNeed {
		m.EscalationsTotal.Inc()
	}
}

func (m *Metrics) StoreConflict(backend string) {
	if m == nil {
		return
	}
	m.StoreConflicts.WithLabelValues(backend).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
