//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// StubReleaseSourceRepository implements repositories.ReleaseSourceRepository
// with canned releases, looked up by dependency name first.
type StubReleaseSourceRepository struct {
	SourceKind  string
	Release     *entities.Release
	DiscoverErr error

	Releases     map[string]*entities.Release // dependency name -> release
	DiscoverErrs map[string]error             // dependency name -> error

	// spy: queries received
	Queries []entities.ReleaseQuery
}

var _ repositories.ReleaseSourceRepository = (*StubReleaseSourceRepository)(nil)

func (s *StubReleaseSourceRepository) Kind() string {
	if s.SourceKind == "" {
		return "stub"
	}
	return s.SourceKind
}

func (s *StubReleaseSourceRepository) Discover(
	_ context.Context, query entities.ReleaseQuery,
) (*entities.Release, error) {
	s.Queries = append(s.Queries, query)
	if err, ok := s.DiscoverErrs[query.Name]; ok {
		return nil, err
	}
	if s.DiscoverErr != nil {
		return nil, s.DiscoverErr
	}
	if release, ok := s.Releases[query.Name]; ok {
		return release, nil
	}
	return s.Release, nil
}
