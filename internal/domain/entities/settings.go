package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// PackagePlaceholder in the packaging path is replaced by the dependency's package.
	PackagePlaceholder = "{package}"

	DefaultPackagingPath     = "packages/" + PackagePlaceholder + "/packaging"
	DefaultManifestPath      = "config/blobs.yml"
	DefaultPrivateConfigPath = "config/private.yml"
	DefaultRetryMax          = 3
)

// Settings is the file layout of the release repository plus the ordered list
// of tracked dependencies.
type Settings struct {
	PackagingPath     string             `yaml:"packaging_path"`
	ManifestPath      string             `yaml:"manifest_path"`
	PrivateConfigPath string             `yaml:"private_config_path"`
	DownloadDir       string             `yaml:"download_dir"`
	RetryMax          *int               `yaml:"retry_max"`
	Dependencies      []DependencyConfig `yaml:"dependencies"`
}

// NewSettings reads a YAML settings file. Missing layout keys get the defaults
// and an empty dependency list falls back to DefaultDependencies.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}
	settings.applyDefaults()

	if validateErr := ValidateSettings(&settings); validateErr != nil {
		return nil, validateErr
	}
	return &settings, nil
}

// DefaultSettings returns the built-in layout and dependency list.
func DefaultSettings() *Settings {
	settings := &Settings{}
	settings.applyDefaults()
	return settings
}

func (s *Settings) applyDefaults() {
	if s.PackagingPath == "" {
		s.PackagingPath = DefaultPackagingPath
	}
	if s.ManifestPath == "" {
		s.ManifestPath = DefaultManifestPath
	}
	if s.PrivateConfigPath == "" {
		s.PrivateConfigPath = DefaultPrivateConfigPath
	}
	if s.DownloadDir == "" {
		s.DownloadDir = "."
	}
	if s.RetryMax == nil {
		retryMax := DefaultRetryMax
		s.RetryMax = &retryMax
	}
	if len(s.Dependencies) == 0 {
		s.Dependencies = DefaultDependencies()
	}
}

// BuildDependencies turns the configured list into descriptors, preserving order.
func (s *Settings) BuildDependencies() []*Dependency {
	deps := make([]*Dependency, 0, len(s.Dependencies))
	for _, cfg := range s.Dependencies {
		deps = append(deps, NewDependency(cfg))
	}
	return deps
}

// DefaultDependencies is the static list tracked by haproxy-boshrelease.
// ttar is a submodule without upstream releases and is bumped by hand.
func DefaultDependencies() []DependencyConfig {
	noSuffix := ""
	return []DependencyConfig{
		{
			Name:       "keepalived",
			VersionVar: "KEEPALIVED_VERSION",
			Pin:        "2.2",
			RootURL:    "https://keepalived.org/download.html",
			Package:    "keepalived",
			Source:     SourceConfig{Kind: SourceWebLink, Selector: "div.content a"},
		},
		{
			Name:       "socat",
			VersionVar: "SOCAT_VERSION",
			Pin:        "1.7",
			RootURL:    "http://www.dest-unreach.org/socat/download/",
			Source:     SourceConfig{Kind: SourceWebLink},
		},
		{
			Name:       "haproxy",
			VersionVar: "HAPROXY_VERSION",
			Pin:        "2.7",
			RootURL:    "https://www.haproxy.org/download/" + PinPlaceholder + "/src",
			Source:     SourceConfig{Kind: SourceReleasesJSON},
		},
		{
			Name:       "lua",
			VersionVar: "LUA_VERSION",
			Pin:        "5.4",
			RootURL:    "https://www.lua.org/versions.html",
			Source:     SourceConfig{Kind: SourceWebLink},
		},
		{
			Name:       "pcre2",
			VersionVar: "PCRE_VERSION",
			Pin:        "10",
			RootURL:    "https://github.com/PCRE2Project/pcre2",
			Source:     SourceConfig{Kind: SourceGitHubReleases, TagPrefix: "pcre2-"},
		},
		{
			Name:       "hatop",
			VersionVar: "HATOP_VERSION",
			Pin:        "0",
			RootURL:    "https://github.com/jhunt/hatop",
			Source: SourceConfig{
				Kind:       SourceGitHubReleases,
				TagPrefix:  "v",
				FileSuffix: &noSuffix,
			},
		},
	}
}

// FindConfigFile searches for a settings file in standard locations.
func FindConfigFile() (string, error) {
	locations := []string{".", ".config", "ci"}
	patterns := []string{
		".autobump.yaml",
		".autobump.yml",
		"autobump.yaml",
		"autobump.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ValidateSettings checks every dependency entry for required values.
func ValidateSettings(settings *Settings) error {
	seen := make(map[string]bool, len(settings.Dependencies))

	for i, dep := range settings.Dependencies {
		if dep.Name == "" {
			return fmt.Errorf("dependencies[%d].name is required", i)
		}
		if seen[dep.Name] {
			return fmt.Errorf("dependencies[%d].name %q is duplicated", i, dep.Name)
		}
		seen[dep.Name] = true

		if dep.VersionVar == "" {
			return fmt.Errorf("dependencies[%d].version_var is required", i)
		}
		if dep.Pin == "" {
			return fmt.Errorf("dependencies[%d].pin is required", i)
		}
		if dep.RootURL == "" {
			return fmt.Errorf("dependencies[%d].root_url is required", i)
		}

		switch dep.Source.Kind {
		case SourceGitHubReleases, SourceWebLink, SourceReleasesJSON:
		default:
			return fmt.Errorf("dependencies[%d].source.kind %q is not supported", i, dep.Source.Kind)
		}
	}

	if settings.RetryMax != nil && *settings.RetryMax < 0 {
		return errors.New("retry_max must not be negative")
	}

	return nil
}
