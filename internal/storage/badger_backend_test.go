package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestBadgerBackend(t *testing.T) (*BadgerBackend, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "badger")

	backend := NewBadgerBackend()
	err := backend.Initialize(dbPath, false)
	require.NoError(t, err)

	cleanup := func() {
		backend.Close()
	}

	return backend, cleanup
}

func TestBadgerBackend_Initialize(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		dbPath := filepath.Join(t.TempDir(), "badger")

		backend := NewBadgerBackend()
		err := backend.Initialize(dbPath, false)

		assert.NoError(t, err)
		assert.NotNil(t, backend.db)

		backend.Close()
	})

	t.Run("ReadOnly", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		dbPath := filepath.Join(t.TempDir(), "badger")

		writer := NewBadgerBackend()
		require.NoError(t, writer.Initialize(dbPath, false))
		_, err := writer.Store(ctx, 1, []byte("{}"))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		reader := NewBadgerBackend()
		require.NoError(t, reader.Initialize(dbPath, true))
		defer reader.Close()

		snapshots, err := reader.List(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, snapshots, 1)

		_, err = reader.Store(ctx, 1, []byte("{}"))
		assert.ErrorIs(t, err, ErrReadOnly)
	})
}

func TestBadgerBackend_Close(t *testing.T) {
	t.Parallel()

	backend, _ := setupTestBadgerBackend(t)

	assert.NoError(t, backend.Close())
	assert.NoError(t, backend.Close())

	_, err := backend.Store(context.Background(), 1, []byte("{}"))
	assert.Error(t, err)
}

func TestBadgerBackend_StoreAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend, cleanup := setupTestBadgerBackend(t)
	defer cleanup()

	var keys []string
	for _, doc := range []string{`{"revision":1}`, `{"revision":2}`, `{"revision":3}`} {
		s, err := backend.Store(ctx, 42, []byte(doc))
		require.NoError(t, err)
		assert.Equal(t, len(doc), s.Size)
		keys = append(keys, s.Key)
	}
	_, err := backend.Store(ctx, 4, []byte(`{"other":true}`))
	require.NoError(t, err)

	snapshots, err := backend.List(ctx, 42)
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	for i, s := range snapshots {
		assert.Equal(t, keys[i], s.Key)
		assert.Equal(t, int64(42), s.WorkspaceID)
		assert.Equal(t, len(`{"revision":1}`), s.Size)
		if i > 0 {
			assert.False(t, s.Timestamp.Before(snapshots[i-1].Timestamp))
		}
	}
}

func TestBadgerBackend_ListDoesNotMatchIDPrefix(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend, cleanup := setupTestBadgerBackend(t)
	defer cleanup()

	_, err := backend.Store(ctx, 12, []byte("{}"))
	require.NoError(t, err)

	snapshots, err := backend.List(ctx, 1)

	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestBadgerBackend_Load(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend, cleanup := setupTestBadgerBackend(t)
	defer cleanup()

	s, err := backend.Store(ctx, 42, []byte(`{"id":42}`))
	require.NoError(t, err)

	t.Run("Found", func(t *testing.T) {
		t.Parallel()
		payload, err := backend.Load(ctx, s.Key)

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":42}`, string(payload))
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()
		_, err := backend.Load(ctx, "w:42:missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestParseSnapshotKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		key    string
		wantOK bool
		wantID int64
	}{
		{name: "Valid", key: "w:42:20240102030405.000000001:0b9a", wantOK: true, wantID: 42},
		{name: "MissingUUID", key: "w:42:20240102030405.000000001", wantOK: false},
		{name: "BadID", key: "w:x:20240102030405.000000001:0b9a", wantOK: false},
		{name: "BadTimestamp", key: "w:42:yesterday:0b9a", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, ok := parseSnapshotKey(tt.key)

			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, s.WorkspaceID)
				assert.Equal(t, 2024, s.Timestamp.Year())
			}
		})
	}
}
