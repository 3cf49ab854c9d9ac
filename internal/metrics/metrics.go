// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Admin login metrics
	IncLoginSucceeded()
	IncLoginFailed(reason string) // reason: "missing_fields", "unknown_user", ...
	IncLoginThrottled()

	// Record management metrics
	IncRecordCreated()
	IncRecordUpdated()
	IncRecordDeleted()
	IncRecordWriteFailed(op string) // op: "create", "update", "delete"
	IncRecordWriteNoop(op string)   // op: "update", "delete"
	IncListingDegraded()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
