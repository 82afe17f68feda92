package filestore

import (
	"context"
	"io/fs"
	"sync"

	"gitlab.com/tozd/go/errors"
)

// Memory is an in-memory Store. Paths listed in DenyRead or DenyWrite fail
// with a PermissionError for that phase.
type Memory struct {
	mu        sync.Mutex
	files     map[string]string
	DenyRead  map[string]bool
	DenyWrite map[string]bool
	Writes    int
}

// NewMemory creates a new Memory store seeded with files
func NewMemory(files map[string]string) *Memory {
	m := &Memory{
		files:     make(map[string]string, len(files)),
		DenyRead:  map[string]bool{},
		DenyWrite: map[string]bool{},
	}
	for k, v := range files {
		m.files[k] = v
	}
	return m
}

// Read implements Store.Read
func (m *Memory) Read(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DenyRead[path] {
		return "", &PermissionError{Path: path, Phase: PhaseRead, Err: fs.ErrPermission}
	}
	content, ok := m.files[path]
	if !ok {
		return "", errors.Errorf("%w: %s", ErrNotFound, path)
	}
	return content, nil
}

// Write implements Store.Write
func (m *Memory) Write(ctx context.Context, path string, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DenyWrite[path] {
		return &PermissionError{Path: path, Phase: PhaseWrite, Err: fs.ErrPermission}
	}
	m.files[path] = content
	m.Writes++
	return nil
}

// Get returns the stored content of path
func (m *Memory) Get(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[path]
	return content, ok
}
