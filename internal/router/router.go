package router

import (
	"github.com/marketdeck/realtime/internal/connection"
)

// Key identifies one cached query, most significant segment first,
// e.g. {"jobs"} or {"jobs", "42"}.
type Key []string

// Cache is the shared invalidation sink. Implementations must tolerate
// arbitrarily interleaved, repeated calls; Invalidate carries no result and
// is called fire-and-forget.
type Cache interface {
	Invalidate(key Key)
}

// Table maps a message type to the cache keys it makes stale.
type Table map[string][]Key

// Dispatch invalidates every key registered for the message's type, once
// each. Unregistered types invalidate nothing. Safe to call repeatedly
// with the same message.
func (t Table) Dispatch(msg connection.Message, cache Cache) {
	for _, key := range t[msg.Type] {
		cache.Invalidate(key)
	}
}

// Bind adapts a table to a subscription message handler.
func Bind(t Table, cache Cache) func(connection.Message) {
	return func(msg connection.Message) {
		t.Dispatch(msg, cache)
	}
}

// Per-domain dispatch tables. Keys mirror the dashboard's query keys.
var (
	Jobs = Table{
		"job_status":   {{"jobs"}},
		"job_complete": {{"jobs"}, {"runs"}},
	}

	Discovery = Table{
		"discovery_update": {{"discovery_jobs"}},
	}

	Trading = Table{
		"position_update": {{"positions"}},
		"pnl_update":      {{"status"}},
		"order_update":    {{"orders"}},
	}
)

// ForChannel returns the dispatch table for a channel name.
func ForChannel(name string) (Table, bool) {
	switch name {
	case "jobs":
		return Jobs, true
	case "discovery":
		return Discovery, true
	case "trading":
		return Trading, true
	}
	return nil, false
}
