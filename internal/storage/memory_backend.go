package storage

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"
)

// MemoryBackend is an in-memory implementation of ArchiveBackend for
// testing.
type MemoryBackend struct {
	mu        sync.RWMutex
	snapshots map[int64][]Snapshot
	payloads  map[string][]byte
	readOnly  bool
	seq       int
}

// NewMemoryBackend creates a new in-memory archive.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		snapshots: make(map[int64][]Snapshot),
		payloads:  make(map[string][]byte),
	}
}

// Initialize implements ArchiveBackend. The path is ignored.
func (m *MemoryBackend) Initialize(path string, readOnly bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readOnly = readOnly
	return nil
}

// Close implements ArchiveBackend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = make(map[int64][]Snapshot)
	m.payloads = make(map[string][]byte)
	return nil
}

// Store implements ArchiveBackend.
func (m *MemoryBackend) Store(ctx context.Context, workspaceID int64, payload []byte) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.readOnly {
		return Snapshot{}, ErrReadOnly
	}
	m.seq++
	s := Snapshot{
		WorkspaceID: workspaceID,
		Key:         strconv.FormatInt(workspaceID, 10) + "/" + strconv.Itoa(m.seq),
		Timestamp:   time.Now().UTC(),
		Size:        len(payload),
	}
	m.snapshots[workspaceID] = append(m.snapshots[workspaceID], s)
	m.payloads[s.Key] = slices.Clone(payload)
	return s, nil
}

// List implements ArchiveBackend.
func (m *MemoryBackend) List(ctx context.Context, workspaceID int64) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.snapshots[workspaceID]), nil
}

// Load implements ArchiveBackend.
func (m *MemoryBackend) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.payloads[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return slices.Clone(payload), nil
}

// Count returns the number of stored snapshots across all workspaces.
func (m *MemoryBackend) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payloads)
}
