package metrics

import "time"

// ResultLabel enumerates conversion outcomes for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultInvalid  ResultLabel = "invalid"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// DefaultNamespace prefixes every metric name when no namespace is configured.
const DefaultNamespace = "blockmark"

// Recorder defines observability hooks for document conversion and the HTTP
// surface. Implementations must tolerate being called from many goroutines.
type Recorder interface {
	ObserveParseDuration(d time.Duration)
	ObserveInputBytes(n int)
	IncBlocks(kind string, n int)
	IncParseResult(result ResultLabel)
	ObserveHTTPRequest(route string, status int, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are disabled).
type NoopRecorder struct{}

func (NoopRecorder) ObserveParseDuration(time.Duration)            {}
func (NoopRecorder) ObserveInputBytes(int)                         {}
func (NoopRecorder) IncBlocks(string, int)                         {}
func (NoopRecorder) IncParseResult(ResultLabel)                    {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration) {}
