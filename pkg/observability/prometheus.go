package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus implements every hook interface on a private registry.
type Prometheus struct {
	registry *prometheus.Registry

	mutations      *prometheus.CounterVec
	adviseDuration prometheus.Histogram
	findings       prometheus.Gauge

	assistInFlight prometheus.Gauge
	assistTotal    *prometheus.CounterVec
	assistDuration prometheus.Histogram

	cacheOps *prometheus.CounterVec

	clientRequests *prometheus.CounterVec
	clientDuration *prometheus.HistogramVec

	serverRequests *prometheus.CounterVec
	serverDuration *prometheus.HistogramVec
}

// NewPrometheus creates the collectors on a fresh registry, together with
// the Go runtime and process collectors.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Prometheus{
		registry: reg,

		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "labforge_topology_mutations_total",
			Help: "Topology store commands by operation and result",
		}, []string{"op", "result"}),
		adviseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "labforge_advise_duration_seconds",
			Help:    "Time spent evaluating the advisory rules",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05},
		}),
		findings: f.NewGauge(prometheus.GaugeOpts{
			Name: "labforge_advice_findings",
			Help: "Number of advice lines from the latest evaluation",
		}),

		assistInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "labforge_assistant_requests_in_flight",
			Help: "Assistant summaries currently running",
		}),
		assistTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "labforge_assistant_requests_total",
			Help: "Assistant summaries by outcome",
		}, []string{"outcome"}),
		assistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "labforge_assistant_duration_seconds",
			Help:    "Assistant summary latency",
			Buckets: prometheus.DefBuckets,
		}),

		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "labforge_cache_operations_total",
			Help: "Cache operations by key type and result",
		}, []string{"key_type", "result"}),

		clientRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "labforge_http_client_requests_total",
			Help: "Outbound HTTP requests by host and status",
		}, []string{"host", "status"}),
		clientDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "labforge_http_client_duration_seconds",
			Help:    "Outbound HTTP latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),

		serverRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "labforge_http_requests_total",
			Help: "Total number of API requests",
		}, []string{"method", "route", "status"}),
		serverDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "labforge_http_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Install registers p for every hook category.
func (p *Prometheus) Install() {
	SetTopologyHooks(p)
	SetAssistantHooks(p)
	SetCacheHooks(p)
	SetHTTPHooks(p)
	SetServerHooks(p)
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (p *Prometheus) OnMutation(_ context.Context, op string, err error) {
	p.mutations.WithLabelValues(op, result(err)).Inc()
}

func (p *Prometheus) OnAdvise(_ context.Context, findings int, d time.Duration) {
	p.adviseDuration.Observe(d.Seconds())
	p.findings.Set(float64(findings))
}

func (p *Prometheus) OnAssistStart(context.Context) {
	p.assistInFlight.Inc()
}

func (p *Prometheus) OnAssistComplete(_ context.Context, outcome string, d time.Duration) {
	p.assistInFlight.Dec()
	p.assistTotal.WithLabelValues(outcome).Inc()
	p.assistDuration.Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, _ int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	p.clientRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	p.clientDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, _, host, _ string, _ error) {
	p.clientRequests.WithLabelValues(host, "error").Inc()
}

func (p *Prometheus) OnServe(_ context.Context, method, route string, status int, d time.Duration) {
	p.serverRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.serverDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ TopologyHooks  = (*Prometheus)(nil)
	_ AssistantHooks = (*Prometheus)(nil)
	_ CacheHooks     = (*Prometheus)(nil)
	_ HTTPHooks      = (*Prometheus)(nil)
	_ ServerHooks    = (*Prometheus)(nil)
)
