package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// DependencyTracker holds the per-run state of one dependency: its current
// version, read from the packaging file, and its latest upstream release. Both
// are resolved once on first request and cached for the rest of the run.
type DependencyTracker struct {
	dependency    *entities.Dependency
	source        repositories.ReleaseSourceRepository
	workspace     repositories.WorkspaceRepository
	store         repositories.ArtifactStoreRepository
	packagingPath string

	currentVersion *entities.Version
	latestRelease  *entities.Release
}

// NewDependencyTracker binds a dependency to its release source and to the
// local files it reads and rewrites.
func NewDependencyTracker(
	dependency *entities.Dependency,
	source repositories.ReleaseSourceRepository,
	workspace repositories.WorkspaceRepository,
	store repositories.ArtifactStoreRepository,
	packagingPathTemplate string,
) *DependencyTracker {
	return &DependencyTracker{
		dependency:    dependency,
		source:        source,
		workspace:     workspace,
		store:         store,
		packagingPath: dependency.PackagingPath(packagingPathTemplate),
	}
}

// Dependency returns the tracked descriptor.
func (it *DependencyTracker) Dependency() *entities.Dependency { return it.dependency }

// PackagingPath returns the packaging file of the dependency's package.
func (it *DependencyTracker) PackagingPath() string { return it.packagingPath }

// CurrentVersion returns the version pinned in the packaging file.
func (it *DependencyTracker) CurrentVersion(_ context.Context) (entities.Version, error) {
	if it.currentVersion != nil {
		return *it.currentVersion, nil
	}

	content, err := it.workspace.ReadFile(it.packagingPath)
	if err != nil {
		return entities.Version{}, fmt.Errorf("failed to read packaging file %q: %w", it.packagingPath, err)
	}

	current, err := entities.FindPinnedVersion(string(content), it.dependency.VersionVar)
	if err != nil {
		return entities.Version{}, fmt.Errorf("could not find current version of %s: %w", it.dependency.Name, err)
	}

	it.currentVersion = &current
	return current, nil
}

// LatestRelease returns the newest release inside the pin, asking the release
// source only once.
func (it *DependencyTracker) LatestRelease(ctx context.Context) (*entities.Release, error) {
	if it.latestRelease != nil {
		return it.latestRelease, nil
	}

	logger.Debugf("[%s] Looking up releases via %s at %s", it.dependency.Name, it.source.Kind(), it.dependency.RootURL)
	release, err := it.source.Discover(ctx, it.dependency.Query())
	if err != nil {
		return nil, err
	}

	it.latestRelease = release
	return release, nil
}

// IsUpdateNeeded is true only when the latest release is strictly newer than
// the pinned version. A pin ahead of upstream counts as up to date.
func (it *DependencyTracker) IsUpdateNeeded(ctx context.Context) (bool, error) {
	current, err := it.CurrentVersion(ctx)
	if err != nil {
		return false, err
	}
	latest, err := it.LatestRelease(ctx)
	if err != nil {
		return false, err
	}
	return latest.Version.GreaterThan(current), nil
}

// ApplyUpdate swaps the registered blob for the downloaded archive at
// localFile and rewrites the pin line. The old blob is removed before the new
// one is added and before the packaging file changes; a crash in between
// leaves the manifest without the pinned blob until someone re-runs the bot.
func (it *DependencyTracker) ApplyUpdate(ctx context.Context, localFile string) error {
	current, err := it.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	latest, err := it.LatestRelease(ctx)
	if err != nil {
		return err
	}

	if removeErr := it.removeCurrentBlob(ctx, current); removeErr != nil {
		return removeErr
	}

	if addErr := it.store.Add(ctx, localFile, it.dependency.ManifestKey(latest.File)); addErr != nil {
		return addErr
	}

	return it.updatePackagingFile(latest)
}

func (it *DependencyTracker) removeCurrentBlob(ctx context.Context, current entities.Version) error {
	currentKey := it.dependency.CurrentManifestKey(current)

	exists, err := it.store.Has(ctx, currentKey)
	if err != nil {
		return err
	}
	if !exists {
		logger.Infof("[%s] Current blob not found: %s", it.dependency.Name, currentKey)
		return nil
	}

	return it.store.Remove(ctx, currentKey)
}

func (it *DependencyTracker) updatePackagingFile(latest *entities.Release) error {
	content, err := it.workspace.ReadFile(it.packagingPath)
	if err != nil {
		return fmt.Errorf("failed to read packaging file %q: %w", it.packagingPath, err)
	}

	logger.Infof("[%s] Writing %s=%s into %s", it.dependency.Name, it.dependency.VersionVar, latest.Version, it.packagingPath)
	rewritten := entities.RewritePinLine(string(content), it.dependency.VersionVar, latest.Version, latest.URL)

	if writeErr := it.workspace.WriteFile(it.packagingPath, []byte(rewritten)); writeErr != nil {
		return fmt.Errorf("failed to write packaging file %q: %w", it.packagingPath, writeErr)
	}
	return nil
}
