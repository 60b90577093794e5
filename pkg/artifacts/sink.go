// Package artifacts stores run outputs in a local directory or an S3
// bucket.
package artifacts

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sink stores named artifacts. Names use forward slashes.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
	// Location describes where name ends up, for logs and summaries.
	Location(name string) string
}

func cleanName(name string) (string, error) {
	clean := path.Clean("/" + name)[1:]
	if clean == "" || clean == "." {
		return "", fmt.Errorf("invalid artifact name %q", name)
	}
	return clean, nil
}

// Local writes artifacts below Dir, replacing files atomically.
type Local struct {
	Dir string
}

// Location implements Sink.
func (l *Local) Location(name string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(name))
}

// Put implements Sink.
func (l *Local) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	target := l.Location(clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", clean, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", clean, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to sync %s: %w", clean, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to rename %s: %w", clean, err)
	}
	return nil
}

// Memory keeps artifacts in memory.
type Memory struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMemory creates an empty memory sink.
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

// Put implements Sink.
func (m *Memory) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[clean] = append([]byte(nil), data...)
	return nil
}

// Location implements Sink.
func (m *Memory) Location(name string) string { return "mem://" + name }

// Get returns a stored artifact.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.items[name]
	return data, ok
}

// Names lists stored artifacts, sorted.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.items))
	for n := range m.items {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Multi writes every artifact to all sinks, stopping at the first error.
type Multi []Sink

// Put implements Sink.
func (ms Multi) Put(ctx context.Context, name string, data []byte) error {
	for _, s := range ms {
		if err := s.Put(ctx, name, data); err != nil {
			return err
		}
	}
	return nil
}

// Location implements Sink.
func (ms Multi) Location(name string) string {
	locs := make([]string, len(ms))
	for i, s := range ms {
		locs[i] = s.Location(name)
	}
	return strings.Join(locs, ", ")
}
