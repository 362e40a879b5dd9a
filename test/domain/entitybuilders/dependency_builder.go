//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependency configurations with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name       string
	versionVar string
	pin        string
	rootURL    string
	pkg        string
	source     entities.SourceConfig
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	b := &DependencyBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.defaults()
	return b
}

func (b *DependencyBuilder) defaults() {
	b.name = "haproxy"
	b.versionVar = "HAPROXY_VERSION"
	b.pin = "2.8"
	b.rootURL = "https://www.haproxy.org/download/" + entities.PinPlaceholder + "/src"
	b.pkg = ""
	b.source = entities.SourceConfig{Kind: entities.SourceReleasesJSON}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithVersionVar sets the packaging variable holding the version.
func (b *DependencyBuilder) WithVersionVar(versionVar string) *DependencyBuilder {
	b.versionVar = versionVar
	return b
}

// WithPin sets the pinned version prefix.
func (b *DependencyBuilder) WithPin(pin string) *DependencyBuilder {
	b.pin = pin
	return b
}

// WithRootURL sets the root URL template.
func (b *DependencyBuilder) WithRootURL(rootURL string) *DependencyBuilder {
	b.rootURL = rootURL
	return b
}

// WithPackage sets the release package holding the packaging file.
func (b *DependencyBuilder) WithPackage(pkg string) *DependencyBuilder {
	b.pkg = pkg
	return b
}

// WithSource sets the release source settings.
func (b *DependencyBuilder) WithSource(source entities.SourceConfig) *DependencyBuilder {
	b.source = source
	return b
}

// Build creates the dependency configuration (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildConfig()
}

// BuildConfig creates the dependency configuration with a concrete return type.
func (b *DependencyBuilder) BuildConfig() entities.DependencyConfig {
	return entities.DependencyConfig{
		Name:       b.name,
		VersionVar: b.versionVar,
		Pin:        b.pin,
		RootURL:    b.rootURL,
		Package:    b.pkg,
		Source:     b.source,
	}
}

// BuildDependency creates the descriptor, with the pin substituted into the root URL.
func (b *DependencyBuilder) BuildDependency() *entities.Dependency {
	return entities.NewDependency(b.BuildConfig())
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.defaults()
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		versionVar:  b.versionVar,
		pin:         b.pin,
		rootURL:     b.rootURL,
		pkg:         b.pkg,
		source:      b.source,
	}
}
