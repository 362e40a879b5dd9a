package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
)

// Check is the interface for the read-only check command.
type Check interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		env *entities.DiscoveryEnvironment,
		opts RunOptions,
	) ([]entities.DependencyStatus, error)
}

// CheckCommand compares every pinned version with its newest upstream release
// without touching blobs, files or the source-control host.
type CheckCommand struct {
	sourceRegistry *infraRepos.ReleaseSourceRegistry
	locals         *infraRepos.LocalFactories
}

// NewCheckCommand creates a new CheckCommand.
func NewCheckCommand(
	sourceRegistry *infraRepos.ReleaseSourceRegistry,
	locals *infraRepos.LocalFactories,
) *CheckCommand {
	return &CheckCommand{sourceRegistry: sourceRegistry, locals: locals}
}

// Execute reports the status of each configured dependency, in order.
func (it *CheckCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	env *entities.DiscoveryEnvironment,
	opts RunOptions,
) ([]entities.DependencyStatus, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}
	workspace, err := it.locals.Workspace(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace %q: %w", workDir, err)
	}
	fetcher := it.locals.Fetcher(settings)

	var statuses []entities.DependencyStatus
	for _, dependency := range settings.BuildDependencies() {
		if opts.Dependency != "" && dependency.Name != opts.Dependency {
			continue
		}

		source, sourceErr := it.sourceRegistry.Get(infraRepos.ReleaseSourceDeps{
			Fetcher: fetcher,
			Token:   env.GitHubToken,
		}, dependency.Source)
		if sourceErr != nil {
			return nil, fmt.Errorf("[%s] %w", dependency.Name, sourceErr)
		}

		// the tracker never mutates anything here, so no artifact store is bound
		tracker := NewDependencyTracker(dependency, source, workspace, nil, settings.PackagingPath)
		status, statusErr := checkDependency(ctx, tracker)
		if statusErr != nil {
			return nil, fmt.Errorf("[%s] %w", dependency.Name, statusErr)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

func checkDependency(ctx context.Context, tracker *DependencyTracker) (entities.DependencyStatus, error) {
	current, err := tracker.CurrentVersion(ctx)
	if err != nil {
		return entities.DependencyStatus{}, err
	}
	latest, err := tracker.LatestRelease(ctx)
	if err != nil {
		return entities.DependencyStatus{}, err
	}
	needed, err := tracker.IsUpdateNeeded(ctx)
	if err != nil {
		return entities.DependencyStatus{}, err
	}

	dependency := tracker.Dependency()
	logger.Debugf("[%s] current %s, latest %s", dependency.Name, current, latest.Version)
	return entities.DependencyStatus{
		Name:         dependency.Name,
		Pin:          dependency.Pin,
		Current:      current,
		Latest:       *latest,
		UpdateNeeded: needed,
	}, nil
}
