// Package metrics records conversion and HTTP metrics for blockmark.
//
// Components hold a Recorder and default to NoopRecorder, so metrics stay
// optional and callers never nil-check. When metrics are enabled in config,
// a PrometheusRecorder is registered against a registry and the same registry
// is exposed through HTTPHandler on /metrics.
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg, "blockmark")
//	conv := convert.New(p, convert.WithRecorder(rec))
package metrics
