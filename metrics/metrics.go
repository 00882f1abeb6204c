// Package metrics exposes Prometheus metrics for the bookclub API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup outcomes.
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Upstream call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeUnavailable = "unavailable"
	OutcomeMalformed   = "malformed"
	OutcomeNotFound    = "not_found"
)

// Metrics groups the collectors registered on one registry. Tests build their
// own so counters start at zero.
type Metrics struct {
	registry *prometheus.Registry

	CacheLookups     *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  prometheus.Histogram
	HTTPRequests     *prometheus.CounterVec
	AccessDenials    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookclub",
			Name:      "list_cache_lookups_total",
			Help:      "Bestseller cache lookups by key kind and result.",
		}, []string{"kind", "result"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookclub",
			Name:      "upstream_requests_total",
			Help:      "Calls to the bestseller list API by outcome.",
		}, []string{"outcome"}),
		UpstreamLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookclub",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of calls to the bestseller list API.",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookclub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "method", "code"}),
		AccessDenials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookclub",
			Name:      "operation_denials_total",
			Help:      "GraphQL operations rejected before their resolver ran.",
		}, []string{"operation"}),
	}
	reg.MustRegister(
		m.CacheLookups,
		m.UpstreamRequests,
		m.UpstreamLatency,
		m.HTTPRequests,
		m.AccessDenials,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
