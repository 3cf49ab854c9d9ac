package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	LoginsSucceeded   uint64
	LoginsFailed      map[string]uint64
	LoginsThrottled   uint64
	RecordsCreated    uint64
	RecordsUpdated    uint64
	RecordsDeleted    uint64
	RecordWriteFailed map[string]uint64
	RecordWriteNoop   map[string]uint64
	ListingsDegraded  uint64
}

// InMemoryRecorder stores metrics in memory. It backs the /metrics
// endpoint and is used by tests.
type InMemoryRecorder struct {
	loginsSucceeded  uint64
	loginsThrottled  uint64
	recordsCreated   uint64
	recordsUpdated   uint64
	recordsDeleted   uint64
	listingsDegraded uint64

	mu                sync.Mutex
	loginsFailed      map[string]uint64
	recordWriteFailed map[string]uint64
	recordWriteNoop   map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		loginsFailed:      make(map[string]uint64),
		recordWriteFailed: make(map[string]uint64),
		recordWriteNoop:   make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		LoginsSucceeded:   atomic.LoadUint64(&m.loginsSucceeded),
		LoginsFailed:      copyCounts(m.loginsFailed),
		LoginsThrottled:   atomic.LoadUint64(&m.loginsThrottled),
		RecordsCreated:    atomic.LoadUint64(&m.recordsCreated),
		RecordsUpdated:    atomic.LoadUint64(&m.recordsUpdated),
		RecordsDeleted:    atomic.LoadUint64(&m.recordsDeleted),
		RecordWriteFailed: copyCounts(m.recordWriteFailed),
		RecordWriteNoop:   copyCounts(m.recordWriteNoop),
		ListingsDegraded:  atomic.LoadUint64(&m.listingsDegraded),
	}
}

// IncLoginSucceeded increments the successful login counter.
func (m *InMemoryRecorder) IncLoginSucceeded() {
	atomic.AddUint64(&m.loginsSucceeded, 1)
}

// IncLoginFailed increments the failed login counter for reason.
func (m *InMemoryRecorder) IncLoginFailed(reason string) {
	m.inc(m.loginsFailed, reason)
}

// IncLoginThrottled increments the rate-limited login counter.
func (m *InMemoryRecorder) IncLoginThrottled() {
	atomic.AddUint64(&m.loginsThrottled, 1)
}

// IncRecordCreated increments record created counter.
func (m *InMemoryRecorder) IncRecordCreated() {
	atomic.AddUint64(&m.recordsCreated, 1)
}

// IncRecordUpdated increments record updated counter.
func (m *InMemoryRecorder) IncRecordUpdated() {
	atomic.AddUint64(&m.recordsUpdated, 1)
}

// IncRecordDeleted increments record deleted counter.
func (m *InMemoryRecorder) IncRecordDeleted() {
	atomic.AddUint64(&m.recordsDeleted, 1)
}

// IncRecordWriteFailed increments the failed write counter for op.
func (m *InMemoryRecorder) IncRecordWriteFailed(op string) {
	m.inc(m.recordWriteFailed, op)
}

// IncRecordWriteNoop increments the zero-rows write counter for op.
func (m *InMemoryRecorder) IncRecordWriteNoop(op string) {
	m.inc(m.recordWriteNoop, op)
}

// IncListingDegraded increments the degraded listing counter.
func (m *InMemoryRecorder) IncListingDegraded() {
	atomic.AddUint64(&m.listingsDegraded, 1)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, label string) {
	m.mu.Lock()
	counts[label]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
