package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// inputSizeBuckets spans 64 bytes to 4 MiB.
var inputSizeBuckets = prom.ExponentialBuckets(64, 4, 9)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	parseDuration prom.Histogram
	inputBytes    prom.Histogram
	blocks        *prom.CounterVec
	parseResults  *prom.CounterVec
	httpDuration  *prom.HistogramVec
	httpRequests  *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors under namespace and
// registers them on reg. A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry, namespace string) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	pr := &PrometheusRecorder{
		parseDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Duration of document conversions",
			Buckets:   prom.DefBuckets,
		}),
		inputBytes: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "input_bytes",
			Help:      "Size of documents submitted for conversion",
			Buckets:   inputSizeBuckets,
		}),
		blocks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_total",
			Help:      "Parsed blocks by kind",
		}, []string{"kind"}),
		parseResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parse_results_total",
			Help:      "Conversion outcomes",
		}, []string{"result"}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route"}),
		httpRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(pr.parseDuration, pr.inputBytes, pr.blocks, pr.parseResults, pr.httpDuration, pr.httpRequests)
	return pr
}

func (p *PrometheusRecorder) ObserveParseDuration(d time.Duration) {
	if p == nil || p.parseDuration == nil {
		return
	}
	p.parseDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveInputBytes(n int) {
	if p == nil || p.inputBytes == nil {
		return
	}
	p.inputBytes.Observe(float64(n))
}

func (p *PrometheusRecorder) IncBlocks(kind string, n int) {
	if p == nil || p.blocks == nil || n <= 0 {
		return
	}
	p.blocks.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) IncParseResult(result ResultLabel) {
	if p == nil || p.parseResults == nil {
		return
	}
	p.parseResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	if p == nil || p.httpDuration == nil {
		return
	}
	p.httpDuration.WithLabelValues(route).Observe(d.Seconds())
	p.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
