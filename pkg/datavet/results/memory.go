package results

import (
	"context"
	"sort"
	"sync"

	"github.com/datavet/datavet/pkg/datavet/config"
)

// MemoryStore is an in-memory result store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]storedResult
	seq    int
	closed bool
}

// storedResult pairs a result with its insertion sequence so List can
// break CreatedAt ties deterministically.
type storedResult struct {
	result Result
	seq    int
}

// NewMemoryStore creates a new in-memory result store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storedResult),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, result Result) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Result{}, ErrStoreClosed
	}

	normalizeResult(&result)

	// Store a copy of the payload so later caller mutation cannot
	// reach the store. The caller keeps its own map.
	stored := result
	stored.Payload = config.CloneMap(result.Payload)

	m.seq++
	m.data[stored.ID] = storedResult{result: stored, seq: m.seq}
	return result, nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, id string) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Result{}, ErrStoreClosed
	}

	stored, ok := m.data[id]
	if !ok {
		return Result{}, ErrNotFound
	}

	// Return a copy to prevent modification of the stored payload.
	result := stored.result
	result.Payload = config.CloneMap(result.Payload)
	return result, nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context, suite string) ([]Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	entries := make([]storedResult, 0, len(m.data))
	for _, stored := range m.data {
		if suite != "" && stored.result.Suite != suite {
			continue
		}
		entries = append(entries, stored)
	}

	// Newest first; insertion order breaks CreatedAt ties.
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].result.CreatedAt.Equal(entries[j].result.CreatedAt) {
			return entries[i].result.CreatedAt.After(entries[j].result.CreatedAt)
		}
		return entries[i].seq > entries[j].seq
	})

	results := make([]Result, len(entries))
	for i, stored := range entries {
		results[i] = stored.result
		results[i].Payload = config.CloneMap(results[i].Payload)
	}
	return results, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if _, ok := m.data[id]; !ok {
		return ErrNotFound
	}
	delete(m.data, id)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored results.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
