// Package store persists match collections. The server runs with either
// the PostgreSQL store or the in-memory store, selected by configuration;
// both implement the same interface so the web layer does not care.
package store

import (
	"context"
	"sync"

	"matchtracker/internal/match"
)

// Store is the persistence interface for a match collection.
type Store interface {
	// List returns all records, oldest first.
	List(ctx context.Context) ([]match.Record, error)

	// ReplaceAll atomically replaces the whole collection, the way a
	// successful import commits its result.
	ReplaceAll(ctx context.Context, records []match.Record) error

	// Add appends one record.
	Add(ctx context.Context, rec match.Record) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close()
}

// Memory is the in-memory store used when no database is configured, and
// by tests.
type Memory struct {
	mu      sync.RWMutex
	records []match.Record
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) List(ctx context.Context) ([]match.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return match.CloneAll(m.records), nil
}

func (m *Memory) ReplaceAll(ctx context.Context, records []match.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = match.CloneAll(records)
	return nil
}

func (m *Memory) Add(ctx context.Context, rec match.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec.Clone())
	return nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func (m *Memory) Close() {}
