package ratelimit

import (
	"context"
	"sync"
	"time"
)

// StatsEvent describes one rate-limit decision.
type StatsEvent struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// StatsRecorder receives rate-limit decisions for operator visibility.
type StatsRecorder interface {
	Record(ctx context.Context, ev StatsEvent) error
}

// MemoryStats keeps aggregate allowed/denied counters in process memory.
type MemoryStats struct {
	mu      sync.Mutex
	allowed int64
	denied  int64
}

// NewMemoryStats constructs a MemoryStats.
func NewMemoryStats() *MemoryStats {
	return &MemoryStats{}
}

// Record implements the StatsRecorder interface.
func (s *MemoryStats) Record(_ context.Context, ev StatsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Allowed {
		s.allowed++
	} else {
		s.denied++
	}
	return nil
}

// Snapshot returns the current allowed and denied totals.
func (s *MemoryStats) Snapshot() (allowed, denied int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowed, s.denied
}
