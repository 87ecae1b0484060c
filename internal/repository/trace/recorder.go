// Package trace persists the append-only audit log of completed query cycles.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/nebulabyte/scout/internal/domain"
)

// Recorder keeps trace entries in insertion order, mirrored between memory
// and a JSON array file. The in-memory list is the source of truth for the
// process lifetime; the file write-through is best-effort.
type Recorder struct {
	path   string
	logger *zap.Logger

	mu      sync.Mutex
	entries []domain.TraceEntry
}

// New creates a Recorder backed by the given file path. An existing file is
// loaded so traces survive restarts; an unreadable file is treated as empty.
func New(path string, logger *zap.Logger) *Recorder {
	r := &Recorder{path: path, logger: logger}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		logger.Warn("Failed to create trace directory", zap.String("path", path), zap.Error(err))
		return r
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read trace file", zap.String("path", path), zap.Error(err))
		}
		return r
	}
	if err := json.Unmarshal(data, &r.entries); err != nil {
		logger.Warn("Discarding malformed trace file", zap.String("path", path), zap.Error(err))
		r.entries = nil
	}
	return r
}

// Record appends the entry and writes the full list through to disk.
// A persistence failure is logged, never raised: the query that produced
// the entry must still succeed.
func (r *Recorder) Record(entry domain.TraceEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)

	if err := r.flushLocked(); err != nil {
		r.logger.Warn("Failed to persist trace entry",
			zap.String("trace_id", entry.ID), zap.Error(err))
	}
}

// ReadAll returns all entries in insertion order.
func (r *Recorder) ReadAll() []domain.TraceEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.TraceEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// ReadOne returns the entry with the given id, or domain.ErrNotFound.
func (r *Recorder) ReadOne(id string) (domain.TraceEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.TraceEntry{}, fmt.Errorf("trace %q: %w", id, domain.ErrNotFound)
}

// Len returns the number of recorded entries.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// flushLocked writes the full entry list as a JSON array. Caller holds r.mu.
func (r *Recorder) flushLocked() error {
	data, err := json.MarshalIndent(r.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal traces: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("write traces: %w", err)
	}
	return nil
}
