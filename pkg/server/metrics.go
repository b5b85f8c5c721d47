// pkg/server/metrics.go

package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the service's Prometheus instruments.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	itemsAdded     prometheus.Counter
	itemsRejected  *prometheus.CounterVec
	documents      *prometheus.CounterVec
	renderDuration prometheus.Histogram
	sessions       prometheus.GaugeFunc
}

// NewMetrics registers the instruments on a fresh registry. activeSessions
// is sampled at scrape time.
func NewMetrics(activeSessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotation_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		itemsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotation_items_added_total",
			Help: "Line items accepted into a ledger.",
		}),
		itemsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotation_items_rejected_total",
			Help: "Line items rejected at entry, by field.",
		}, []string{"field"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotation_documents_total",
			Help: "Documents rendered, by result.",
		}, []string{"result"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quotation_render_seconds",
			Help:    "Time spent rendering a document.",
			Buckets: prometheus.DefBuckets,
		}),
		sessions: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "quotation_sessions",
			Help: "Sessions currently held in memory.",
		}, activeSessions),
	}
	m.registry.MustRegister(
		m.requests, m.itemsAdded, m.itemsRejected, m.documents, m.renderDuration, m.sessions,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
