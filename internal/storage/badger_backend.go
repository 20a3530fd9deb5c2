package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// Key prefixes for different data types
const (
	prefixWorkspace = "w:" // w:<workspace id>:<timestamp>:<uuid> -> document
)

// BadgerBackend is a BadgerDB-backed archive. Every document is stored
// under its own key, so several snapshots taken within the same second
// never collide.
type BadgerBackend struct {
	db       *badger.DB
	mu       sync.RWMutex
	readOnly bool
}

// NewBadgerBackend creates a new BadgerDB backend.
func NewBadgerBackend() *BadgerBackend {
	return &BadgerBackend{}
}

// Initialize opens or creates the BadgerDB database at the given path.
func (b *BadgerBackend) Initialize(path string, readOnly bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := badger.DefaultOptions(path).
		WithNumCompactors(2).
		WithLoggingLevel(badger.ERROR) // Suppress INFO/WARNING logs

	if readOnly {
		opts = opts.WithReadOnly(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening badger DB: %w", err)
	}
	b.db = db
	b.readOnly = readOnly
	return nil
}

// Close releases all resources held by the backend.
func (b *BadgerBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	return err
}

// Store implements ArchiveBackend.
func (b *BadgerBackend) Store(ctx context.Context, workspaceID int64, payload []byte) (Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return Snapshot{}, errors.New("badger archive is not initialized")
	}
	if b.readOnly {
		return Snapshot{}, ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	ts := time.Now().UTC()
	key := fmt.Sprintf("%s%d:%s:%s", prefixWorkspace, workspaceID, ts.Format(timestampLayout), uuid.NewString())
	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	}); err != nil {
		return Snapshot{}, fmt.Errorf("storing workspace %d: %w", workspaceID, err)
	}
	return Snapshot{WorkspaceID: workspaceID, Key: key, Timestamp: ts, Size: len(payload)}, nil
}

// List implements ArchiveBackend. Keys sort chronologically, so a prefix
// scan yields the snapshots oldest first.
func (b *BadgerBackend) List(ctx context.Context, workspaceID int64) ([]Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, errors.New("badger archive is not initialized")
	}

	var snapshots []Snapshot
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixWorkspace + strconv.FormatInt(workspaceID, 10) + ":")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			s, ok := parseSnapshotKey(string(item.Key()))
			if !ok {
				continue
			}
			s.Size = int(item.ValueSize())
			snapshots = append(snapshots, s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing workspace %d: %w", workspaceID, err)
	}
	return snapshots, nil
}

// Load implements ArchiveBackend.
func (b *BadgerBackend) Load(ctx context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, errors.New("badger archive is not initialized")
	}

	var payload []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		payload, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	return payload, nil
}

// parseSnapshotKey splits w:<id>:<timestamp>:<uuid>.
func parseSnapshotKey(key string) (Snapshot, bool) {
	parts := strings.SplitN(strings.TrimPrefix(key, prefixWorkspace), ":", 3)
	if len(parts) != 3 {
		return Snapshot{}, false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Snapshot{}, false
	}
	ts, err := time.Parse(timestampLayout, parts[1])
	if err != nil {
		return Snapshot{}, false
	}
	return Snapshot{WorkspaceID: id, Key: key, Timestamp: ts}, true
}
