package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/phrazzld/cardgraph/internal/store"
)

// container manages one persisted JSON array of records plus its in-memory
// cache. The zero value is not usable; build with newContainer.
type container[T any] struct {
	path string

	mu     sync.RWMutex
	recs   []T
	loaded bool
}

func newContainer[T any](path string) *container[T] {
	return &container[T]{path: path}
}

// snapshot returns a copy of the record slice, loading the container from
// disk on first access. A missing file is an empty collection; an
// unreadable or corrupt file is a StorageError and the container stays
// unloaded so the error repeats until the file is repaired.
func (c *container[T]) snapshot() ([]T, error) {
	c.mu.RLock()
	if c.loaded {
		out := make([]T, len(c.recs))
		copy(out, c.recs)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		if err := c.loadLocked(); err != nil {
			return nil, err
		}
	}

	out := make([]T, len(c.recs))
	copy(out, c.recs)
	return out, nil
}

// loadLocked reads and decodes the container file. Caller holds the write
// lock.
func (c *container[T]) loadLocked() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.recs = nil
			c.loaded = true
			return nil
		}
		return &store.StorageError{Path: c.path, Op: "load", Err: err}
	}

	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		return &store.StorageError{Path: c.path, Op: "load", Err: err}
	}

	c.recs = recs
	c.loaded = true
	return nil
}

// replace persists the given records as the container's new full contents
// and refreshes the cache. The write is staged to a temporary file in the
// same directory and renamed into place so the prior container survives
// any failure before the swap.
func (c *container[T]) replace(recs []T) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return &store.StorageError{Path: c.path, Op: "save", Err: err}
	}
	data = append(data, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := writeFileAtomic(c.path, data); err != nil {
		return &store.StorageError{Path: c.path, Op: "save", Err: err}
	}

	c.recs = recs
	c.loaded = true
	return nil
}

// writeFileAtomic writes data to path via a temporary sibling file and an
// atomic rename. The temporary file is removed on any failure.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to stage temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write staged container: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync staged container: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close staged container: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to swap container into place: %w", err)
	}

	return nil
}
