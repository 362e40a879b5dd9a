//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// InMemoryWorkspaceRepository implements repositories.WorkspaceRepository over
// a map of files. Reset restores the files captured by Commit.
type InMemoryWorkspaceRepository struct {
	Root     string
	Files    map[string][]byte
	ResetErr error

	committed  map[string][]byte
	ResetCount int
}

var _ repositories.WorkspaceRepository = (*InMemoryWorkspaceRepository)(nil)

// NewInMemoryWorkspaceRepository creates an empty workspace rooted at root.
func NewInMemoryWorkspaceRepository(root string) *InMemoryWorkspaceRepository {
	return &InMemoryWorkspaceRepository{Root: root, Files: map[string][]byte{}}
}

// Commit snapshots the current files as the state Reset returns to.
func (w *InMemoryWorkspaceRepository) Commit() {
	w.committed = make(map[string][]byte, len(w.Files))
	for path, content := range w.Files {
		w.committed[path] = append([]byte(nil), content...)
	}
}

func (w *InMemoryWorkspaceRepository) ReadFile(path string) ([]byte, error) {
	content, ok := w.Files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return content, nil
}

func (w *InMemoryWorkspaceRepository) WriteFile(path string, content []byte) error {
	w.Files[path] = append([]byte(nil), content...)
	return nil
}

func (w *InMemoryWorkspaceRepository) Path(path string) string {
	return filepath.Join(w.Root, path)
}

func (w *InMemoryWorkspaceRepository) Reset(_ context.Context) error {
	w.ResetCount++
	if w.ResetErr != nil {
		return w.ResetErr
	}
	if w.committed != nil {
		w.Files = make(map[string][]byte, len(w.committed))
		for path, content := range w.committed {
			w.Files[path] = append([]byte(nil), content...)
		}
	}
	return nil
}
