package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry     *prom.Registry
	scanResults  *prom.CounterVec
	scanDuration *prom.HistogramVec
	requests     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on its
// own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	pr := &PrometheusRecorder{registry: prom.NewRegistry()}
	pr.scanResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "scan_results_total",
		Help:      "Scan classifications by category and result",
	}, []string{"category", "result"})
	pr.scanDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "sitegen",
		Name:      "scan_duration_seconds",
		Help:      "Duration of per-category change scans",
		Buckets:   prom.DefBuckets,
	}, []string{"category"})
	pr.requests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "sitegen",
		Name:      "dev_server_requests_total",
		Help:      "Dev server requests by route class",
	}, []string{"route"})
	pr.registry.MustRegister(pr.scanResults, pr.scanDuration, pr.requests)
	return pr
}

func (pr *PrometheusRecorder) IncScanResult(category, result string) {
	pr.scanResults.WithLabelValues(category, result).Inc()
}

func (pr *PrometheusRecorder) ObserveScanDuration(category string, d time.Duration) {
	pr.scanDuration.WithLabelValues(category).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncServerRequest(route string) {
	pr.requests.WithLabelValues(route).Inc()
}

// Handler exposes the recorder's registry for the dev server /metrics route.
func (pr *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(pr.registry, promhttp.HandlerOpts{})
}
