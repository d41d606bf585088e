// Package metrics emits the refund UI's StatsD metrics with consistent names and tags.
package metrics

import (
	"time"

	obserrors "github.com/target/refund-ui/internal/observability/errors"
	"github.com/target/refund-ui/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// APICallMetric describes one outbound call to the refund API.
type APICallMetric struct {
	Operation  string // list, get, upload, create, sign_in
	StatusCode int    // zero when no response arrived
	Duration   time.Duration
	Err        error
}

// EmitAPICall emits refund API call metrics.
func EmitAPICall(sink statsd.Sink, in APICallMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"operation": in.Operation,
		"result":    ResultSuccess,
	}
	if in.StatusCode > 0 {
		tags["status_class"] = statusClass(in.StatusCode)
	}
	if in.Err != nil {
		tags["result"] = ResultError
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("refund_api.request", 1, tags)
	if in.Duration > 0 {
		sink.Timing("refund_api.duration", in.Duration, CloneTags(tags))
	}
}

// ReapMetric describes one session reaper pass.
type ReapMetric struct {
	Deleted  int64
	Duration time.Duration
	Err      error
}

// EmitSessionReap emits session reaper metrics.
func EmitSessionReap(sink statsd.Sink, in ReapMetric) {
	if sink == nil {
		return
	}

	result := ResultSuccess
	switch {
	case in.Err != nil:
		result = ResultError
	case in.Deleted == 0:
		result = ResultNoop
	}
	tags := map[string]string{"result": result}
	if in.Err != nil {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("sessions.reap", 1, tags)
	if in.Deleted > 0 {
		sink.Count("sessions.reaped", in.Deleted, nil)
	}
	if in.Duration > 0 {
		sink.Timing("sessions.reap_duration", in.Duration, CloneTags(tags))
	}
	if in.Err == nil {
		sink.Gauge("sessions.reap_last_success_epoch", float64(time.Now().Unix()), nil)
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
