package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

// Metrics holds the engine's Prometheus instruments on a private registry so
// repeated construction (tests) never collides.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	QuotesTotal     *prometheus.CounterVec
	MarginReports   *prometheus.CounterVec
	ArchivedRecords *prometheus.CounterVec
	ArchivalRuns    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tldpricing_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tldpricing_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		QuotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tldpricing_quotes_total",
			Help: "Price quotes served, by outcome.",
		}, []string{"outcome"}),
		MarginReports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tldpricing_margin_reports_total",
			Help: "Margin batch reports served, by kind.",
		}, []string{"kind"}),
		ArchivedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tldpricing_archived_records_total",
			Help: "Interval records archived, by family.",
		}, []string{"family"}),
		ArchivalRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tldpricing_archival_runs_total",
			Help: "Archival sweep runs, by status.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.QuotesTotal,
		m.MarginReports,
		m.ArchivedRecords,
		m.ArchivalRuns,
	)
	return m
}

var Module = fx.Module("observability.metrics",
	fx.Provide(New),
)
