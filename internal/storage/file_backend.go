package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// fileTimestampLayout is the second-resolution stamp in archive file
// names.
const fileTimestampLayout = "20060102150405"

// FileBackend archives documents as gzip files named
// structurizr-<workspace id>-<timestamp>.json.gz in one directory.
type FileBackend struct {
	mu       sync.Mutex
	dir      string
	readOnly bool
}

// NewFileBackend creates a new file archive.
func NewFileBackend() *FileBackend {
	return &FileBackend{}
}

// Initialize uses path as the archive directory, creating it unless
// readOnly is set.
func (f *FileBackend) Initialize(path string, readOnly bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if readOnly {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("opening archive directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("opening archive directory: %s is not a directory", path)
		}
	} else if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}
	f.dir = path
	f.readOnly = readOnly
	return nil
}

// Close implements ArchiveBackend.
func (f *FileBackend) Close() error {
	return nil
}

// Store implements ArchiveBackend. A second snapshot within the same
// second gets a numeric suffix instead of replacing the first.
func (f *FileBackend) Store(ctx context.Context, workspaceID int64, payload []byte) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dir == "" {
		return Snapshot{}, errors.New("file archive is not initialized")
	}
	if f.readOnly {
		return Snapshot{}, ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(payload); err != nil {
		return Snapshot{}, fmt.Errorf("compressing workspace %d: %w", workspaceID, err)
	}
	if err := gz.Close(); err != nil {
		return Snapshot{}, fmt.Errorf("compressing workspace %d: %w", workspaceID, err)
	}

	ts := time.Now().UTC()
	stem := fmt.Sprintf("structurizr-%d-%s", workspaceID, ts.Format(fileTimestampLayout))
	name := stem + ".json.gz"
	for n := 2; ; n++ {
		file, err := os.OpenFile(filepath.Join(f.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			name = stem + "-" + strconv.Itoa(n) + ".json.gz"
			continue
		}
		if err != nil {
			return Snapshot{}, fmt.Errorf("archiving workspace %d: %w", workspaceID, err)
		}
		_, werr := file.Write(buf.Bytes())
		if cerr := file.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return Snapshot{}, fmt.Errorf("archiving workspace %d: %w", workspaceID, werr)
		}
		break
	}
	return Snapshot{WorkspaceID: workspaceID, Key: name, Timestamp: ts.Truncate(time.Second), Size: buf.Len()}, nil
}

// List implements ArchiveBackend.
func (f *FileBackend) List(ctx context.Context, workspaceID int64) ([]Snapshot, error) {
	f.mu.Lock()
	dir := f.dir
	f.mu.Unlock()

	if dir == "" {
		return nil, errors.New("file archive is not initialized")
	}
	prefix := fmt.Sprintf("structurizr-%d-", workspaceID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing archive: %w", err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json.gz") {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json.gz")
		stamp, _, _ = strings.Cut(stamp, "-")
		ts, err := time.Parse(fileTimestampLayout, stamp)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("listing archive: %w", err)
		}
		snapshots = append(snapshots, Snapshot{WorkspaceID: workspaceID, Key: name, Timestamp: ts, Size: int(info.Size())})
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		if !snapshots[i].Timestamp.Equal(snapshots[j].Timestamp) {
			return snapshots[i].Timestamp.Before(snapshots[j].Timestamp)
		}
		return suffix(snapshots[i].Key) < suffix(snapshots[j].Key)
	})
	return snapshots, nil
}

// Load implements ArchiveBackend. The key is a file name inside the
// archive directory.
func (f *FileBackend) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	dir := f.dir
	f.mu.Unlock()

	file, err := os.Open(filepath.Join(dir, filepath.Base(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	defer gz.Close()
	payload, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}
	return payload, nil
}

// suffix returns the collision counter of an archive file name, 1 when
// there is none.
func suffix(name string) int {
	stem := strings.TrimSuffix(name, ".json.gz")
	i := strings.LastIndex(stem, "-")
	n, err := strconv.Atoi(stem[i+1:])
	if err != nil || len(stem[i+1:]) == len(fileTimestampLayout) {
		return 1
	}
	return n
}
