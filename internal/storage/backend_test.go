package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend_Initialize(t *testing.T) {
	t.Parallel()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()
		backend := NewMemoryBackend()
		err := backend.Initialize("/tmp/test", false)

		assert.NoError(t, err)
		assert.Zero(t, backend.Count())
	})

	t.Run("ReadOnly", func(t *testing.T) {
		t.Parallel()
		backend := NewMemoryBackend()
		require.NoError(t, backend.Initialize("/tmp/test", true))

		_, err := backend.Store(context.Background(), 1, []byte("{}"))

		assert.ErrorIs(t, err, ErrReadOnly)
	})
}

func TestMemoryBackend_StoreAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := NewMemoryBackend()

	first, err := backend.Store(ctx, 42, []byte(`{"id":42,"revision":1}`))
	require.NoError(t, err)
	second, err := backend.Store(ctx, 42, []byte(`{"id":42,"revision":2}`))
	require.NoError(t, err)
	_, err = backend.Store(ctx, 7, []byte(`{"id":7}`))
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
	assert.Equal(t, int64(42), first.WorkspaceID)
	assert.Equal(t, len(`{"id":42,"revision":1}`), first.Size)
	assert.Equal(t, 3, backend.Count())

	t.Run("ListIsPerWorkspace", func(t *testing.T) {
		t.Parallel()
		snapshots, err := backend.List(ctx, 42)

		require.NoError(t, err)
		require.Len(t, snapshots, 2)
		assert.Equal(t, first.Key, snapshots[0].Key)
		assert.Equal(t, second.Key, snapshots[1].Key)
	})

	t.Run("Load", func(t *testing.T) {
		t.Parallel()
		payload, err := backend.Load(ctx, second.Key)

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":42,"revision":2}`, string(payload))
	})

	t.Run("LoadMissing", func(t *testing.T) {
		t.Parallel()
		_, err := backend.Load(ctx, "42/99")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryBackend_StoreCopiesPayload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := NewMemoryBackend()
	payload := []byte("abc")

	s, err := backend.Store(ctx, 1, payload)
	require.NoError(t, err)
	payload[0] = 'x'

	stored, err := backend.Load(ctx, s.Key)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(stored))
}

func TestMemoryBackend_Close(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	_, err := backend.Store(context.Background(), 1, []byte("{}"))
	require.NoError(t, err)

	err = backend.Close()

	assert.NoError(t, err)
	assert.Zero(t, backend.Count())
}

func TestLatest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("NewestWins", func(t *testing.T) {
		t.Parallel()
		backend := NewMemoryBackend()
		_, err := backend.Store(ctx, 5, []byte("old"))
		require.NoError(t, err)
		want, err := backend.Store(ctx, 5, []byte("new"))
		require.NoError(t, err)

		s, payload, err := Latest(ctx, backend, 5)

		require.NoError(t, err)
		assert.Equal(t, want.Key, s.Key)
		assert.Equal(t, "new", string(payload))
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		_, _, err := Latest(ctx, NewMemoryBackend(), 5)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOpen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    string
		want    any
		wantErr bool
	}{
		{name: "DefaultIsFile", kind: "", want: &FileBackend{}},
		{name: "File", kind: "file", want: &FileBackend{}},
		{name: "Badger", kind: "badger", want: &BadgerBackend{}},
		{name: "Memory", kind: "memory", want: &MemoryBackend{}},
		{name: "Unknown", kind: "s3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			backend, err := Open(tt.kind, filepath.Join(t.TempDir(), "archive"), false)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer backend.Close()
			assert.IsType(t, tt.want, backend)
		})
	}
}
