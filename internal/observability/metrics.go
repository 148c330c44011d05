package observability

import (
	"sort"
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters for console requests and upstream API calls.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	apiCount     map[string]int64
	apiFailures  map[string]int64
	apiLatency   map[string]time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		apiCount:     make(map[string]int64),
		apiFailures:  make(map[string]int64),
		apiLatency:   make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordAPICall counts one upstream call for op; failed calls are counted separately.
func (m *Metrics) RecordAPICall(op string, duration time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apiCount[op]++
	m.apiLatency[op] += duration
	if failed {
		m.apiFailures[op]++
	}
}

// APICallStats summarizes upstream calls for one operation.
type APICallStats struct {
	Operation    string        `json:"operation"`
	Calls        int64         `json:"calls"`
	Failures     int64         `json:"failures"`
	TotalLatency time.Duration `json:"total_latency_ns"`
}

// APISnapshot returns per-operation upstream counters sorted by operation.
func (m *Metrics) APISnapshot() []APICallStats {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]APICallStats, 0, len(m.apiCount))
	for op, calls := range m.apiCount {
		out = append(out, APICallStats{
			Operation:    op,
			Calls:        calls,
			Failures:     m.apiFailures[op],
			TotalLatency: m.apiLatency[op],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Operation < out[j].Operation })
	return out
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
