package telemetry

import (
	"context"
	"sort"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys.
const (
	ProfilingLabelOperation = "operation"
	ProfilingLabelTrigger   = "trigger"
	ProfilingLabelTopic     = "topic"
	ProfilingLabelMethod    = "method"
	ProfilingLabelRoute     = "route"
)

// highCardinalityLabels are dropped because they would explode the number of
// profile series.
var highCardinalityLabels = map[string]bool{
	"order_id":    true,
	"request_id":  true,
	"delivery_id": true,
	"trace_id":    true,
	"span_id":     true,
}

const maxLabelValueLength = 128

// WithProfilingLabels runs fn with pprof labels attached so CPU samples can be
// sliced by operation in Pyroscope.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// labelPairs flattens labels into sorted key/value pairs, dropping empty and
// high-cardinality entries and truncating long values.
func labelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k == "" || v == "" || highCardinalityLabels[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > maxLabelValueLength {
			v = v[:maxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}
