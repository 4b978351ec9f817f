// Package store provides alarm.Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/alarm-engine/alarm"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is an append-only in-memory alarm.Store. Reads returns records in
// insertion order. The read counter lets tests assert that the cache hits
// the store at most once.
type Memory struct {
	mu      sync.RWMutex
	records []alarm.Record
	reads   int
}

func NewMemory() *Memory {
	return &Memory{}
}

// Append adds one record. Append-only.
func (m *Memory) Append(_ context.Context, rec alarm.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// AllValues returns a copy of every record in insertion order.
func (m *Memory) AllValues(_ context.Context) ([]alarm.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	out := make([]alarm.Record, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Reads reports how many times AllValues has been called.
func (m *Memory) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads
}
