package repositories

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// ReleaseSourceRepository discovers the newest release of a dependency inside
// its pinned version line. Each implementation covers one upstream hosting
// shape (tag API, download page, JSON index) with its own parsing quirks.
type ReleaseSourceRepository interface {
	// Kind returns the source identifier (e.g. "github-releases").
	Kind() string

	// Discover returns the newest qualifying release. It fails with
	// entities.ErrNoQualifyingRelease when no candidate matches the pin.
	Discover(ctx context.Context, query entities.ReleaseQuery) (*entities.Release, error)
}
