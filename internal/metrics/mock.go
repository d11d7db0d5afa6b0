package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                  sync.Mutex
	draftsCreated       int
	roundsCreated       int
	versionsPublished   int
	publishFailures     int
	publishDurations    []float64
	conflictChecks      int
	conflictsFound      int
	notificationsSent   int
	notificationsFailed int
	eventsSent          int
	eventsFailed        int
	startupTime         float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		publishDurations: make([]float64, 0),
	}
}

func (m *Mock) IncDraftsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draftsCreated++
}

func (m *Mock) IncRoundsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roundsCreated++
}

func (m *Mock) IncVersionsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versionsPublished++
}

func (m *Mock) IncPublishFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishFailures++
}

func (m *Mock) ObservePublishDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishDurations = append(m.publishDurations, duration)
}

func (m *Mock) IncConflictChecks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflictChecks++
}

func (m *Mock) AddConflictsFound(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflictsFound += n
}

func (m *Mock) IncNotificationsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent++
}

func (m *Mock) IncNotificationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsFailed++
}

func (m *Mock) IncEventsSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsSent++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// DraftsCreated returns the number of times IncDraftsCreated was called.
func (m *Mock) DraftsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftsCreated
}

// RoundsCreated returns the number of times IncRoundsCreated was called.
func (m *Mock) RoundsCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roundsCreated
}

// VersionsPublished returns the number of times IncVersionsPublished was called.
func (m *Mock) VersionsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versionsPublished
}

// PublishFailures returns the number of times IncPublishFailures was called.
func (m *Mock) PublishFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.publishFailures
}

// PublishDurations returns every observed publish duration.
func (m *Mock) PublishDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.publishDurations...)
}

func (m *Mock) ConflictChecks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conflictChecks
}

func (m *Mock) ConflictsFound() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conflictsFound
}

// NotificationsSent returns the number of times IncNotificationsSent was called.
func (m *Mock) NotificationsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsSent
}

// NotificationsFailed returns the number of times IncNotificationsFailed was called.
func (m *Mock) NotificationsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsFailed
}

func (m *Mock) EventsSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsSent
}

func (m *Mock) EventsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed
}

// MockStore is an in-memory MetricsStore for testing.
type MockStore struct {
	mu     sync.Mutex
	counts map[string]int
}

var _ MetricsStore = (*MockStore)(nil)

// NewMockStore creates an empty counter store.
func NewMockStore() *MockStore {
	return &MockStore{counts: make(map[string]int)}
}

func (m *MockStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *MockStore) GetAll() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

// Get returns the current value of key.
func (m *MockStore) Get(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}
