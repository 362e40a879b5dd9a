package entities

import (
	"fmt"
	"strings"
)

// Release source kinds, one per upstream hosting shape.
const (
	SourceGitHubReleases = "github-releases"
	SourceWebLink        = "web-link"
	SourceReleasesJSON   = "releases-json"
)

const (
	DefaultPackage    = "haproxy"
	DefaultFileSuffix = ".tar.gz"
	DefaultSelector   = "a"

	// PinPlaceholder in a root URL is replaced by the pin when the dependency is built.
	PinPlaceholder = "{pin}"

	bumpBranchFmt = "%s-auto-bump-%s"
)

// SourceConfig selects and tunes the release source of a dependency.
type SourceConfig struct {
	Kind string `yaml:"kind"`

	// github-releases
	TagPrefix  string  `yaml:"tag_prefix"`
	FileSuffix *string `yaml:"file_suffix"` // nil means ".tar.gz", "" matches any asset

	// web-link
	Selector string `yaml:"selector"`
	Pattern  string `yaml:"pattern"` // {name} and {pin} are substituted
}

// Suffix returns the asset suffix, applying the default when unset.
func (s SourceConfig) Suffix() string {
	if s.FileSuffix == nil {
		return DefaultFileSuffix
	}
	return *s.FileSuffix
}

// DependencyConfig is one entry of the static dependency list.
type DependencyConfig struct {
	Name       string       `yaml:"name"`
	VersionVar string       `yaml:"version_var"`
	Pin        string       `yaml:"pin"`
	RootURL    string       `yaml:"root_url"`
	Package    string       `yaml:"package"`
	Source     SourceConfig `yaml:"source"`
}

// Dependency is the immutable descriptor of a tracked upstream project. The
// per-run state (current version, latest release) lives in the tracker that
// wraps it.
type Dependency struct {
	Name       string
	VersionVar string
	Pin        string
	RootURL    string // pin already substituted
	Package    string
	Source     SourceConfig
}

// NewDependency builds a descriptor from its configuration, substituting the
// pin into the root URL and defaulting the package to "haproxy".
func NewDependency(cfg DependencyConfig) *Dependency {
	pkg := cfg.Package
	if pkg == "" {
		pkg = DefaultPackage
	}
	source := cfg.Source
	if source.Kind == SourceWebLink && source.Selector == "" {
		source.Selector = DefaultSelector
	}

	return &Dependency{
		Name:       cfg.Name,
		VersionVar: cfg.VersionVar,
		Pin:        cfg.Pin,
		RootURL:    strings.ReplaceAll(cfg.RootURL, PinPlaceholder, cfg.Pin),
		Package:    pkg,
		Source:     source,
	}
}

// Query returns the lookup parameters for the dependency's release source.
func (d *Dependency) Query() ReleaseQuery {
	return ReleaseQuery{Name: d.Name, RootURL: d.RootURL, Pin: d.Pin}
}

// PRBranch is the deterministic name of the bump branch for the given base.
func (d *Dependency) PRBranch(base string) string {
	return fmt.Sprintf(bumpBranchFmt, d.Name, base)
}

// ManifestKey is the blob path under which a file of this dependency is registered.
func (d *Dependency) ManifestKey(file string) string {
	return d.Package + "/" + file
}

// CurrentManifestKey is the blob path of the archive for the given version.
// Archives downloaded from GitHub assets carry the configured suffix; every
// other source publishes .tar.gz files.
func (d *Dependency) CurrentManifestKey(current Version) string {
	suffix := DefaultFileSuffix
	if d.Source.Kind == SourceGitHubReleases {
		suffix = d.Source.Suffix()
	}
	return d.ManifestKey(fmt.Sprintf("%s-%s%s", d.Name, current, suffix))
}

// PackagingPath returns the packaging file location for the dependency's package.
func (d *Dependency) PackagingPath(template string) string {
	return strings.ReplaceAll(template, PackagePlaceholder, d.Package)
}

// DependencyStatus is the read-only comparison reported by the check command.
type DependencyStatus struct {
	Name         string
	Pin          string
	Current      Version
	Latest       Release
	UpdateNeeded bool
}
