package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector exposes timeline run metrics on a private registry.
type Collector struct {
	reg *prometheus.Registry

	Runs           *prometheus.CounterVec // outcome label: ok|parse_error|...
	RunDuration    prometheus.Histogram
	Points         prometheus.Histogram
	UpstreamCalls  *prometheus.CounterVec // service label: expand|geocode|reverse|route|forecast
	UpstreamErrs   *prometheus.CounterVec
	SpatialHits    *prometheus.CounterVec // kind label: reverse|weather
	Notifications  *prometheus.CounterVec // result label: ok|error
	NATSConnected  prometheus.Gauge
	PublishLatency prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_runs_total",
			Help: "Timeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "timeline_run_duration_seconds",
			Help:    "Duration of a timeline run.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		Points: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "timeline_points",
			Help:    "Number of points in a successful timeline.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		UpstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_upstream_calls_total",
			Help: "Calls to upstream services.",
		}, []string{"service"}),
		UpstreamErrs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_upstream_errors_total",
			Help: "Failed calls to upstream services.",
		}, []string{"service"}),
		SpatialHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_spatial_cache_hits_total",
			Help: "Lookups served by the per-run spatial cache.",
		}, []string{"kind"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timeline_notifications_total",
			Help: "Timeline notifications by result.",
		}, []string{"result"}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "timeline_nats_connected",
			Help: "1 if the NATS connection is established, 0 otherwise.",
		}),
		PublishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "timeline_publish_duration_seconds",
			Help:    "Duration to marshal and publish a timeline notification.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
	}

	reg.MustRegister(
		c.Runs, c.RunDuration, c.Points,
		c.UpstreamCalls, c.UpstreamErrs, c.SpatialHits,
		c.Notifications, c.NATSConnected, c.PublishLatency,
	)

	return c
}

func (c *Collector) ObserveRun(outcome string, d time.Duration, points int) {
	c.Runs.WithLabelValues(outcome).Inc()
	c.RunDuration.Observe(d.Seconds())
	if outcome == "ok" {
		c.Points.Observe(float64(points))
	}
}

func (c *Collector) UpstreamCall(service string, err error) {
	c.UpstreamCalls.WithLabelValues(service).Inc()
	if err != nil {
		c.UpstreamErrs.WithLabelValues(service).Inc()
	}
}

func (c *Collector) SpatialCacheHit(kind string) {
	c.SpatialHits.WithLabelValues(kind).Inc()
}

func (c *Collector) NotificationResult(err error) {
	if err != nil {
		c.Notifications.WithLabelValues("error").Inc()
		return
	}
	c.Notifications.WithLabelValues("ok").Inc()
}

func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
		return
	}
	c.NATSConnected.Set(0)
}

func (c *Collector) PublishObserve(d time.Duration) { c.PublishLatency.Observe(d.Seconds()) }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
