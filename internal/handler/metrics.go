package handler

import (
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/aiowing/aiowing/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "aiowing_admin_logins_total{result=\"success\"} %d\n", snap.LoginsSucceeded)
	writeLabeled(w, "aiowing_admin_logins_failed_total", "reason", snap.LoginsFailed)
	writeMetric(w, "aiowing_admin_logins_throttled_total %d\n", snap.LoginsThrottled)

	writeMetric(w, "aiowing_records_written_total{op=\"create\"} %d\n", snap.RecordsCreated)
	writeMetric(w, "aiowing_records_written_total{op=\"update\"} %d\n", snap.RecordsUpdated)
	writeMetric(w, "aiowing_records_written_total{op=\"delete\"} %d\n", snap.RecordsDeleted)
	writeLabeled(w, "aiowing_records_write_failed_total", "op", snap.RecordWriteFailed)
	writeLabeled(w, "aiowing_records_write_noop_total", "op", snap.RecordWriteNoop)

	writeMetric(w, "aiowing_records_listing_degraded_total %d\n", snap.ListingsDegraded)
}

// writeLabeled writes one sample per label value in a stable order.
func writeLabeled(w io.Writer, name, label string, counts map[string]uint64) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeMetric(w, "%s{%s=%q} %d\n", name, label, k, counts[k])
	}
}

func writeMetric(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
