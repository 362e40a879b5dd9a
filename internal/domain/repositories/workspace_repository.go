package repositories

import "context"

// WorkspaceRepository is the local checkout of the release repository.
// Paths are relative to its root.
type WorkspaceRepository interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, content []byte) error

	// Path returns the absolute location of a relative path on disk.
	Path(path string) string

	// Reset discards uncommitted changes to tracked files and removes
	// untracked files, leaving the checkout as of HEAD.
	Reset(ctx context.Context) error
}
