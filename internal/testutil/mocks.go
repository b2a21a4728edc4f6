package testutil

import (
	"context"
	"sync"
	"time"

	"scoringd/internal/models"
	"scoringd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns the number of recorded entries with the given level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockAnalyticsService implements services.AnalyticsServiceInterface.
// Fields left nil fall back to empty results.
type MockAnalyticsService struct {
	mu sync.Mutex

	AddCalls    []AddMetricsCall
	AddErr      error
	Growth      *models.GrowthMetrics
	GrowthErr   error
	Report      *models.PerformanceReport
	ReportErr   error
	Analysis    *models.ContentAnalysis
	Forecast    *models.TrendForecast
	ForecastErr error
	SubjectList []string
	SubjectsErr error
	PruneCalls  []time.Time
	Pruned      int
	PruneErr    error
	Snapshot    *models.Storage
	SnapshotErr error
	PutCalls    []*models.Storage
	PutErr      error

	AnalyzeCalls int
}

type AddMetricsCall struct {
	Subject string
	Metrics models.EngagementMetrics
	At      time.Time
}

func (m *MockAnalyticsService) AddMetrics(_ context.Context, subject string, metrics models.EngagementMetrics, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddCalls = append(m.AddCalls, AddMetricsCall{Subject: subject, Metrics: metrics, At: at})
	return m.AddErr
}

func (m *MockAnalyticsService) GrowthRate(_ context.Context, _ string, _ time.Duration) (*models.GrowthMetrics, error) {
	return m.Growth, m.GrowthErr
}

func (m *MockAnalyticsService) AnalyzePerformance(_ context.Context, _ string) (*models.PerformanceReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnalyzeCalls++
	return m.Report, m.ReportErr
}

func (m *MockAnalyticsService) ScoreContent(_ string, _ models.ContentCounters) *models.ContentAnalysis {
	if m.Analysis == nil {
		return &models.ContentAnalysis{}
	}
	return m.Analysis
}

func (m *MockAnalyticsService) ForecastTrends(_ *models.HistoricalSeries) (*models.TrendForecast, error) {
	return m.Forecast, m.ForecastErr
}

func (m *MockAnalyticsService) GetSubjects(_ context.Context) ([]string, error) {
	if m.SubjectList == nil && m.SubjectsErr == nil {
		return []string{}, nil
	}
	return m.SubjectList, m.SubjectsErr
}

func (m *MockAnalyticsService) Prune(_ context.Context, olderThan time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PruneCalls = append(m.PruneCalls, olderThan)
	return m.Pruned, m.PruneErr
}

func (m *MockAnalyticsService) GetSnapshot(_ context.Context) (*models.Storage, error) {
	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}
	if m.Snapshot == nil {
		return &models.Storage{Version: models.StorageVersion, Subjects: map[string][]models.Snapshot{}}, nil
	}
	return m.Snapshot, nil
}

func (m *MockAnalyticsService) PutSnapshot(_ context.Context, storage *models.Storage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls = append(m.PutCalls, storage)
	return m.PutErr
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.Data)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// identity
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu sync.Mutex

	Requests         map[string]int
	CacheHits        int
	CacheMisses      int
	PersistCalls     int
	Snapshots        int
	ContentScored    map[string]int
	TrendsDetected   map[string]int
	SnapshotsPruned  int
	RequestDurations int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:       make(map[string]int),
		ContentScored:  make(map[string]int),
		TrendsDetected: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}

func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestDurations++
}

func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}

func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistCalls++
}

func (m *MockMetrics) IncSnapshotsTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Snapshots++
}

func (m *MockMetrics) IncContentScored(sentiment string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ContentScored[sentiment]++
}

func (m *MockMetrics) IncTrendsDetected(metric, direction string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TrendsDetected[metric+":"+direction]++
}

func (m *MockMetrics) AddSnapshotsPruned(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SnapshotsPruned += count
}
