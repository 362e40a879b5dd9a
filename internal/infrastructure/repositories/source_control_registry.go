package repositories

import (
	"fmt"
	"net/http"

	domainRepos "github.com/rios0rios0/autobump/internal/domain/repositories"
)

// SourceControlConfig identifies the repository pull requests are opened against.
type SourceControlConfig struct {
	Token      string
	Owner      string
	Repo       string
	HTTPClient *http.Client
}

// SourceControlFactory is a constructor function that creates a SourceControlRepository.
type SourceControlFactory func(cfg SourceControlConfig) domainRepos.SourceControlRepository

// SourceControlRegistry manages all registered source-control hosts.
type SourceControlRegistry struct {
	providers map[string]SourceControlFactory
}

// NewSourceControlRegistry creates an empty source-control registry.
func NewSourceControlRegistry() *SourceControlRegistry {
	return &SourceControlRegistry{
		providers: make(map[string]SourceControlFactory),
	}
}

// Register adds a source-control factory under the given name (e.g. "github").
func (r *SourceControlRegistry) Register(name string, factory SourceControlFactory) {
	r.providers[name] = factory
}

// Get returns a configured source-control instance for the given name.
func (r *SourceControlRegistry) Get(name string, cfg SourceControlConfig) (domainRepos.SourceControlRepository, error) {
	factory, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unknown source control provider: %q", name)
	}
	return factory(cfg), nil
}

// Names returns the list of registered provider names.
func (r *SourceControlRegistry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
