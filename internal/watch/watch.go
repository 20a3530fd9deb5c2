// Package watch re-validates workspace documents when they change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/Benny93/c4-go/workspace"
)

// DefaultDebounce is how long a directory must be quiet before the files
// changed in it are validated.
const DefaultDebounce = 500 * time.Millisecond

// Result is the outcome of validating one workspace document.
type Result struct {
	// Path is relative to the watched root.
	Path string

	// Removed is set when the file disappeared; Summary and Err are zero.
	Removed bool

	Summary workspace.Summary
	Err     error
}

// Option configures Watch.
type Option func(*config)

type config struct {
	debounce time.Duration
	logger   *slog.Logger
}

// WithDebounce replaces DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(c *config) { c.debounce = d }
}

// WithLogger sets the logger for watcher errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Scan validates every workspace document below root, skipping ignored
// directories and .gitignore'd paths. Results are ordered by path.
func Scan(root string) ([]Result, error) {
	matcher, err := loadGitignoreMatcher(root)
	if err != nil {
		return nil, err
	}

	var results []Result
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && shouldIgnoreDir(d.Name(), path, root, matcher) {
				return filepath.SkipDir
			}
			return nil
		}
		if shouldWatchFile(path, root, matcher) {
			results = append(results, validate(root, path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return results, nil
}

// Watch monitors root for changes to workspace documents and reports
// each changed file to onChange once a burst of writes has settled.
// Blocks until the context is cancelled.
func Watch(ctx context.Context, root string, onChange func(Result), opts ...Option) error {
	cfg := config{debounce: DefaultDebounce, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	matcher, err := loadGitignoreMatcher(root)
	if err != nil {
		cfg.logger.Warn("ignoring unreadable .gitignore", "error", err)
		matcher = nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, root, root, matcher); err != nil {
		return fmt.Errorf("setting up watcher: %w", err)
	}

	changed := make(map[string]bool)
	batchTimer := time.NewTimer(cfg.debounce)
	batchTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, root, event.Name, matcher); err != nil {
						cfg.logger.Error("watching new directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !shouldWatchFile(event.Name, root, matcher) {
				continue
			}
			changed[event.Name] = true
			batchTimer.Reset(cfg.debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.logger.Error("watch error", "error", err)

		case <-batchTimer.C:
			paths := make([]string, 0, len(changed))
			for path := range changed {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			changed = make(map[string]bool)

			for _, path := range paths {
				onChange(validate(root, path))
			}
		}
	}
}

// addTree watches dir and every directory below it that is not ignored.
func addTree(w *fsnotify.Watcher, root, dir string, matcher gitignore.Matcher) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldIgnoreDir(d.Name(), path, root, matcher) {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}

func validate(root, path string) Result {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Result{Path: rel, Removed: true}
	}
	ws, err := workspace.Load(path)
	if err != nil {
		return Result{Path: rel, Err: err}
	}
	return Result{Path: rel, Summary: ws.Summarize()}
}

// isWorkspaceFile reports whether name looks like a workspace document.
func isWorkspaceFile(name string) bool {
	return strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".json.gz")
}

// shouldWatchFile checks if a file should be watched.
func shouldWatchFile(path, root string, matcher gitignore.Matcher) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if matcher != nil && matcher.Match(strings.Split(rel, string(filepath.Separator)), false) {
		return false
	}
	return isWorkspaceFile(path)
}

// shouldIgnoreDir checks if a directory should be ignored.
func shouldIgnoreDir(name, path, root string, matcher gitignore.Matcher) bool {
	switch name {
	case ".git", "node_modules", "vendor", ".venv", "venv", "__pycache__":
		return true
	}
	if matcher != nil {
		rel, _ := filepath.Rel(root, path)
		return matcher.Match(strings.Split(rel, string(filepath.Separator)), true)
	}
	return false
}

// loadGitignoreMatcher loads a gitignore matcher from root. It returns a
// nil matcher when there is no .gitignore.
func loadGitignoreMatcher(root string) (gitignore.Matcher, error) {
	content, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return gitignore.NewMatcher(patterns), nil
}
