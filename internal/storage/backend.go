// Package storage archives snapshots of workspace documents.
//
// It defines the ArchiveBackend interface that all archive implementations
// satisfy, along with the Snapshot type shared across backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no snapshot matches a lookup.
var ErrNotFound = errors.New("snapshot not found")

// ErrReadOnly is returned by Store on a backend opened read-only.
var ErrReadOnly = errors.New("archive is read-only")

// timestampLayout sorts lexically in chronological order.
const timestampLayout = "20060102150405.000000000"

// Snapshot describes one archived workspace document.
type Snapshot struct {
	// WorkspaceID is the remote workspace the document belongs to.
	WorkspaceID int64 `json:"workspaceId"`

	// Key identifies the snapshot within its backend: a file name for
	// FileBackend, a database key for BadgerBackend.
	Key string `json:"key"`

	// Timestamp is when the snapshot was stored, in UTC.
	Timestamp time.Time `json:"timestamp"`

	// Size is the number of bytes the backend holds for the snapshot;
	// FileBackend reports the compressed size.
	Size int `json:"size"`
}

// ArchiveBackend defines the interface for archive implementations.
//
// Implementations must be thread-safe and support concurrent access.
type ArchiveBackend interface {
	// Initialize opens or creates the archive at the given path.
	// If readOnly is true, Store fails with ErrReadOnly.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the backend.
	Close() error

	// Store archives a workspace document.
	Store(ctx context.Context, workspaceID int64, payload []byte) (Snapshot, error)

	// List returns the snapshots of a workspace, oldest first.
	List(ctx context.Context, workspaceID int64) ([]Snapshot, error)

	// Load returns the document stored under key.
	Load(ctx context.Context, key string) ([]byte, error)
}

// Latest returns the most recent document archived for a workspace.
func Latest(ctx context.Context, b ArchiveBackend, workspaceID int64) (Snapshot, []byte, error) {
	snapshots, err := b.List(ctx, workspaceID)
	if err != nil {
		return Snapshot{}, nil, err
	}
	if len(snapshots) == 0 {
		return Snapshot{}, nil, fmt.Errorf("%w: workspace %d has no archived documents", ErrNotFound, workspaceID)
	}
	latest := snapshots[len(snapshots)-1]
	payload, err := b.Load(ctx, latest.Key)
	if err != nil {
		return Snapshot{}, nil, err
	}
	return latest, payload, nil
}

// Open creates a backend of the named kind ("file", "badger" or
// "memory") and initializes it at path.
func Open(kind, path string, readOnly bool) (ArchiveBackend, error) {
	var b ArchiveBackend
	switch kind {
	case "", "file":
		b = NewFileBackend()
	case "badger":
		b = NewBadgerBackend()
	case "memory":
		b = NewMemoryBackend()
	default:
		return nil, fmt.Errorf("unknown archive backend %q", kind)
	}
	if err := b.Initialize(path, readOnly); err != nil {
		return nil, err
	}
	return b, nil
}
