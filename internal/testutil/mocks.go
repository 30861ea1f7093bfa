package testutil

import (
	"context"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"catalogd/internal/content"
	"catalogd/internal/providers"
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

// ByLevel returns the recorded entries matching the given level.
func (m *MockLogger) ByLevel(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockFetcher implements content.Fetcher over canned JSON documents.
type MockFetcher struct {
	mu    sync.Mutex
	Docs  map[string]string
	Errs  map[string]error
	Calls map[string]int
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Docs:  make(map[string]string),
		Errs:  make(map[string]error),
		Calls: make(map[string]int),
	}
}

func (m *MockFetcher) FetchJSON(ctx context.Context, path string, v any) error {
	m.mu.Lock()
	m.Calls[path]++
	err, failing := m.Errs[path]
	doc := m.Docs[path]
	m.mu.Unlock()
	if failing {
		return err
	}
	return json.Unmarshal([]byte(doc), v)
}

// CallCount reports how many times the given path was fetched.
func (m *MockFetcher) CallCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[path]
}

// SetErr makes subsequent fetches of path fail with err; a nil err
// clears the failure again.
func (m *MockFetcher) SetErr(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.Errs, path)
		return
	}
	m.Errs[path] = err
}

var _ content.Fetcher = (*MockFetcher)(nil)

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Clears int
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

func (m *MockCache) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Clears++
}

// MockCompressor implements snapshot.Compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
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

// MockKV implements snapshot.KV in memory.
type MockKV struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockKV() *MockKV {
	return &MockKV{Data: make(map[string][]byte)}
}

func (m *MockKV) Get(key string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, v)
}

func (m *MockKV) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = raw
	return nil
}

func (m *MockKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
	return nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu           sync.Mutex
	Requests     map[string]int
	CacheHits    int
	CacheMisses  int
	Refreshes    map[string]int
	EntityGauges map[string]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests:     make(map[string]int),
		Refreshes:    make(map[string]int),
		EntityGauges: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[endpoint]++
}

func (m *MockMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {}

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

func (m *MockMetrics) ObserveContentLoadDuration(kind string, duration time.Duration) {}

func (m *MockMetrics) IncContentRefreshTotal(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Refreshes[result]++
}

func (m *MockMetrics) SetEntitiesTotal(kind string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntityGauges[kind] = count
}
