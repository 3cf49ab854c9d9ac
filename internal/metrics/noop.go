package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

func (n *NoopRecorder) IncLoginSucceeded() {}

func (n *NoopRecorder) IncLoginFailed(reason string) {}

func (n *NoopRecorder) IncLoginThrottled() {}

func (n *NoopRecorder) IncRecordCreated() {}

func (n *NoopRecorder) IncRecordUpdated() {}

func (n *NoopRecorder) IncRecordDeleted() {}

func (n *NoopRecorder) IncRecordWriteFailed(op string) {}

func (n *NoopRecorder) IncRecordWriteNoop(op string) {}

func (n *NoopRecorder) IncListingDegraded() {}
