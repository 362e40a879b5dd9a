package repositories

import (
	"fmt"
	"sort"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	domainRepos "github.com/rios0rios0/autobump/internal/domain/repositories"
)

// ReleaseSourceDeps are the shared clients a release source is built with.
type ReleaseSourceDeps struct {
	Fetcher domainRepos.FetchRepository
	Token   string // GitHub API token, may be empty
}

// ReleaseSourceFactory builds a release source tuned by a dependency's source settings.
type ReleaseSourceFactory func(deps ReleaseSourceDeps, source entities.SourceConfig) domainRepos.ReleaseSourceRepository

// ReleaseSourceRegistry manages all registered release source implementations.
type ReleaseSourceRegistry struct {
	sources map[string]ReleaseSourceFactory
}

// NewReleaseSourceRegistry creates an empty release source registry.
func NewReleaseSourceRegistry() *ReleaseSourceRegistry {
	return &ReleaseSourceRegistry{
		sources: make(map[string]ReleaseSourceFactory),
	}
}

// Register adds a release source factory under the given kind (e.g. "web-link").
func (r *ReleaseSourceRegistry) Register(kind string, factory ReleaseSourceFactory) {
	r.sources[kind] = factory
}

// Get returns a release source for the given source settings.
func (r *ReleaseSourceRegistry) Get(
	deps ReleaseSourceDeps,
	source entities.SourceConfig,
) (domainRepos.ReleaseSourceRepository, error) {
	factory, ok := r.sources[source.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown release source kind: %q", source.Kind)
	}
	return factory(deps, source), nil
}

// Kinds returns the registered release source kinds, sorted.
func (r *ReleaseSourceRegistry) Kinds() []string {
	kinds := make([]string, 0, len(r.sources))
	for kind := range r.sources {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
