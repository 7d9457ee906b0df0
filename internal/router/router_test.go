package router

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/marketdeck/realtime/internal/connection"
)

// recordingCache counts Invalidate calls per key.
type recordingCache struct {
	mu    sync.Mutex
	calls map[string]int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{calls: make(map[string]int)}
}

func (c *recordingCache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[strings.Join(key, "/")]++
}

func (c *recordingCache) count(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[key]
}

func (c *recordingCache) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func msg(typ string) connection.Message {
	return connection.Message{Type: typ, Raw: json.RawMessage(`{"type":"` + typ + `"}`)}
}

func TestTableDispatch(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		msgType string
		want    map[string]int
	}{
		{"job status", Jobs, "job_status", map[string]int{"jobs": 1}},
		{"job complete hits jobs and runs", Jobs, "job_complete", map[string]int{"jobs": 1, "runs": 1}},
		{"discovery update", Discovery, "discovery_update", map[string]int{"discovery_jobs": 1}},
		{"position update", Trading, "position_update", map[string]int{"positions": 1}},
		{"pnl update", Trading, "pnl_update", map[string]int{"status": 1}},
		{"order update", Trading, "order_update", map[string]int{"orders": 1}},
		{"unknown type ignored", Jobs, "mystery_event", map[string]int{}},
		{"type from another domain ignored", Jobs, "position_update", map[string]int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newRecordingCache()
			tt.table.Dispatch(msg(tt.msgType), cache)

			for key, want := range tt.want {
				if got := cache.count(key); got != want {
					t.Errorf("key %q invalidated %d times, want %d", key, got, want)
				}
			}
			wantTotal := 0
			for _, v := range tt.want {
				wantTotal += v
			}
			if got := cache.total(); got != wantTotal {
				t.Errorf("total invalidations = %d, want %d", got, wantTotal)
			}
		})
	}
}

func TestTableDispatchRepeatable(t *testing.T) {
	cache := newRecordingCache()
	m := msg("job_complete")

	Jobs.Dispatch(m, cache)
	Jobs.Dispatch(m, cache)

	if got := cache.count("jobs"); got != 2 {
		t.Errorf("jobs invalidated %d times after two dispatches, want 2", got)
	}
	if got := cache.count("runs"); got != 2 {
		t.Errorf("runs invalidated %d times after two dispatches, want 2", got)
	}
}

func TestBind(t *testing.T) {
	cache := newRecordingCache()
	handler := Bind(Trading, cache)

	handler(msg("position_update"))

	if got := cache.count("positions"); got != 1 {
		t.Errorf("positions invalidated %d times, want 1", got)
	}
}

func TestForChannel(t *testing.T) {
	for _, name := range []string{"jobs", "discovery", "trading"} {
		if _, ok := ForChannel(name); !ok {
			t.Errorf("ForChannel(%q) not found", name)
		}
	}
	if _, ok := ForChannel("nonsense"); ok {
		t.Error("ForChannel(\"nonsense\") unexpectedly found")
	}
}
