//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ReleaseBuilder helps create discovered releases with a fluent interface.
type ReleaseBuilder struct {
	*testkit.BaseBuilder
	name    string
	version string
	url     string
}

// NewReleaseBuilder creates a release of haproxy 2.8.2.
func NewReleaseBuilder() *ReleaseBuilder {
	return &ReleaseBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "haproxy",
		version:     "2.8.2",
	}
}

// WithName sets the dependency name the file is named after.
func (b *ReleaseBuilder) WithName(name string) *ReleaseBuilder {
	b.name = name
	return b
}

// WithVersion sets the release version.
func (b *ReleaseBuilder) WithVersion(version string) *ReleaseBuilder {
	b.version = version
	return b
}

// WithURL overrides the download URL.
func (b *ReleaseBuilder) WithURL(url string) *ReleaseBuilder {
	b.url = url
	return b
}

// Build creates the release (satisfies testkit.Builder interface).
func (b *ReleaseBuilder) Build() interface{} {
	return b.BuildRelease()
}

// BuildRelease creates the release with a concrete return type.
func (b *ReleaseBuilder) BuildRelease() *entities.Release {
	file := b.name + "-" + b.version + entities.DefaultFileSuffix
	url := b.url
	if url == "" {
		url = "https://example.com/download/" + file
	}
	return &entities.Release{
		Name:    b.name + "-" + b.version,
		URL:     url,
		File:    file,
		Version: entities.MustParseVersion(b.version),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ReleaseBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "haproxy"
	b.version = "2.8.2"
	b.url = ""
	return b
}

// Clone creates a deep copy of the ReleaseBuilder.
func (b *ReleaseBuilder) Clone() testkit.Builder {
	return &ReleaseBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		version:     b.version,
		url:         b.url,
	}
}
