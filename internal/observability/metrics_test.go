package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_APISnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordAPICall("list tickets", 10*time.Millisecond, false)
	m.RecordAPICall("list tickets", 20*time.Millisecond, true)
	m.RecordAPICall("delete user", 5*time.Millisecond, false)

	snap := m.APISnapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, APICallStats{Operation: "delete user", Calls: 1, TotalLatency: 5 * time.Millisecond}, snap[0])
	assert.Equal(t, APICallStats{Operation: "list tickets", Calls: 2, Failures: 1, TotalLatency: 30 * time.Millisecond}, snap[1])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordAPICall("x", time.Millisecond, true)
	assert.Nil(t, m.APISnapshot())
}
