package api

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// Stats counts requests made by a Client.
// All counters use atomic operations for lock-free concurrent access.
type Stats struct {
	startTime time.Time

	Requests     atomic.Int64 // requests sent, including failed ones
	Failures     atomic.Int64 // transport errors, non-2xx and undecodable responses
	Unauthorized atomic.Int64 // 401 responses
}

// NewStats creates Stats with the start time set to now.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Uptime       time.Duration `json:"uptime"`
	Requests     int64         `json:"requests"`
	Failures     int64         `json:"failures"`
	Unauthorized int64         `json:"unauthorized"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Uptime:       time.Since(s.startTime),
		Requests:     s.Requests.Load(),
		Failures:     s.Failures.Load(),
		Unauthorized: s.Unauthorized.Load(),
	}
}

// LogSummary writes the counters at debug level.
func (s *Stats) LogSummary() {
	snap := s.Snapshot()
	slog.Debug("api stats",
		"uptime", snap.Uptime.Truncate(time.Millisecond),
		"requests", snap.Requests,
		"failures", snap.Failures,
		"unauthorized", snap.Unauthorized,
	)
}
