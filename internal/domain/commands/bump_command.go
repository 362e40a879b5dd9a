package commands

import (
	"context"
	"fmt"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
)

const prBodyFmt = `Automatic bump from version %s to version %s, downloaded from %s.

After merge, consider releasing a new version of %s.
`

// Bump is the interface for the bump command (the reconciliation run).
type Bump interface {
	Execute(ctx context.Context, settings *entities.Settings, env *entities.Environment, opts RunOptions) error
}

// RunOptions holds runtime options for a single run.
type RunOptions struct {
	DryRun     bool
	Verbose    bool
	WorkDir    string // release repository checkout, defaults to "."
	Dependency string // If set, only process this dependency (CLI override)
}

// BumpCommand walks the configured dependencies one at a time and, for each
// outdated one, downloads the new archive, swaps the registered blob, rewrites
// the pin, publishes the blob and opens a pull request. The first failure
// aborts the run.
type BumpCommand struct {
	sourceRegistry *infraRepos.ReleaseSourceRegistry
	scmRegistry    *infraRepos.SourceControlRegistry
	locals         *infraRepos.LocalFactories
}

// NewBumpCommand creates a new BumpCommand with the given registries.
func NewBumpCommand(
	sourceRegistry *infraRepos.ReleaseSourceRegistry,
	scmRegistry *infraRepos.SourceControlRegistry,
	locals *infraRepos.LocalFactories,
) *BumpCommand {
	return &BumpCommand{
		sourceRegistry: sourceRegistry,
		scmRegistry:    scmRegistry,
		locals:         locals,
	}
}

// bumpRun carries the collaborators of one Execute call.
type bumpRun struct {
	settings  *entities.Settings
	env       *entities.Environment
	dryRun    bool
	fetcher   repositories.FetchRepository
	workspace repositories.WorkspaceRepository
	store     repositories.ArtifactStoreRepository
	scm       repositories.SourceControlRepository
}

// Execute runs the full bump cycle over every configured dependency.
func (it *BumpCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	env *entities.Environment,
	opts RunOptions,
) error {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	run, err := it.prepare(settings, env, opts)
	if err != nil {
		return err
	}

	if env.BlobstoreKey == "" {
		logger.Warn("GCP_SERVICE_KEY is not set, blob uploads will rely on existing credentials")
	}
	if credErr := run.writeCredentials(ctx); credErr != nil {
		return credErr
	}

	for _, dependency := range settings.BuildDependencies() {
		if opts.Dependency != "" && dependency.Name != opts.Dependency {
			continue
		}

		source, sourceErr := it.sourceRegistry.Get(infraRepos.ReleaseSourceDeps{
			Fetcher: run.fetcher,
			Token:   env.GitHubToken,
		}, dependency.Source)
		if sourceErr != nil {
			return fmt.Errorf("[%s] %w", dependency.Name, sourceErr)
		}

		tracker := NewDependencyTracker(dependency, source, run.workspace, run.store, settings.PackagingPath)
		if bumpErr := run.bump(ctx, tracker); bumpErr != nil {
			return fmt.Errorf("[%s] %w", dependency.Name, bumpErr)
		}
	}

	logger.Info("Run complete")
	return nil
}

func (it *BumpCommand) prepare(
	settings *entities.Settings,
	env *entities.Environment,
	opts RunOptions,
) (*bumpRun, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	workspace, err := it.locals.Workspace(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace %q: %w", workDir, err)
	}

	fetcher := it.locals.Fetcher(settings)

	scm, err := it.scmRegistry.Get(env.PRProvider, infraRepos.SourceControlConfig{
		Token:      env.GitHubToken,
		Owner:      env.PROrg,
		Repo:       env.PRRepo,
		HTTPClient: fetcher.HTTPClient(),
	})
	if err != nil {
		return nil, err
	}

	run := &bumpRun{
		settings:  settings,
		env:       env,
		dryRun:    opts.DryRun || env.IsDryRun(),
		fetcher:   fetcher,
		workspace: workspace,
		store:     it.locals.ArtifactStore(workspace, settings),
		scm:       scm,
	}
	if run.dryRun {
		logger.Info("Dry run: blobs will not be changed or uploaded and no PR will be created")
		run.store = newDryRunArtifactStore(run.store)
	}
	return run, nil
}

// bump reconciles a single dependency.
func (r *bumpRun) bump(ctx context.Context, tracker *DependencyTracker) error {
	dependency := tracker.Dependency()

	current, err := tracker.CurrentVersion(ctx)
	if err != nil {
		return err
	}
	latest, err := tracker.LatestRelease(ctx)
	if err != nil {
		return err
	}

	needed, err := tracker.IsUpdateNeeded(ctx)
	if err != nil {
		return err
	}
	if !needed {
		logger.Infof(
			"[%s] already on the latest version: %s (pinned: %s.*)",
			dependency.Name, latest.Version, dependency.Pin,
		)
		return nil
	}

	branch := dependency.PRBranch(r.env.PRBase)
	exists, err := r.scm.PullRequestExists(ctx, branch, r.env.PRBase)
	if err != nil {
		return err
	}
	if exists {
		logger.Infof("[%s] Open bump PR exists (for branch: %s)", dependency.Name, branch)
		return nil
	}

	logger.Infof("[%s] Version-Bump required: %s --> %s", dependency.Name, current, latest.Version)

	localFile, err := latest.Download(ctx, r.fetcher, r.workspace.Path(r.settings.DownloadDir))
	if err != nil {
		return err
	}

	if applyErr := tracker.ApplyUpdate(ctx, localFile); applyErr != nil {
		return applyErr
	}

	if uploadErr := r.store.Upload(ctx); uploadErr != nil {
		return uploadErr
	}

	if r.dryRun {
		logger.Infof(
			"[%s] [DRY RUN] Would push branch %s and open a PR; local changes are kept for review",
			dependency.Name, branch,
		)
		return nil
	}

	if prErr := r.openPullRequest(ctx, tracker, current, latest, branch); prErr != nil {
		return prErr
	}

	// clear the working directory for the next dependency bump
	logger.Infof("[%s] Resetting local changes", dependency.Name)
	if resetErr := r.workspace.Reset(ctx); resetErr != nil {
		return resetErr
	}

	// the private config is not committed, so it must survive (or be restored after) the reset
	return r.writeCredentials(ctx)
}

func (r *bumpRun) writeCredentials(ctx context.Context) error {
	if r.env.BlobstoreKey == "" {
		return nil
	}
	return r.store.WriteCredentials(ctx, r.env.BlobstoreKey)
}

func (r *bumpRun) openPullRequest(
	ctx context.Context,
	tracker *DependencyTracker,
	current entities.Version,
	latest *entities.Release,
	branch string,
) error {
	dependency := tracker.Dependency()
	logger.Infof("[%s] Creating bump branch %s:%s and PR...", dependency.Name, r.env.PROrg, branch)

	if err := r.scm.ReplaceBranch(ctx, branch, r.env.PRBase); err != nil {
		return err
	}

	updates := []struct {
		path    string
		message string
	}{
		{
			path:    tracker.PackagingPath(),
			message: fmt.Sprintf("Bump %s version to %s", dependency.Name, latest.Version),
		},
		{
			path:    r.store.ManifestPath(),
			message: fmt.Sprintf("Update blob reference for %s to version %s", dependency.Name, latest.Version),
		},
	}
	for _, update := range updates {
		content, readErr := r.workspace.ReadFile(update.path)
		if readErr != nil {
			return fmt.Errorf("failed to read %q: %w", update.path, readErr)
		}
		if err := r.scm.UpdateFile(ctx, branch, update.path, content, update.message); err != nil {
			return err
		}
	}

	var labels []string
	if label := strings.TrimSpace(r.env.PRLabel); label != "" {
		labels = append(labels, label)
	}

	pr, err := r.scm.CreatePullRequest(ctx, entities.PullRequestInput{
		SourceBranch: branch,
		TargetBranch: r.env.PRBase,
		Title:        fmt.Sprintf("Bump %s version to %s", dependency.Name, latest.Version),
		Description:  fmt.Sprintf(prBodyFmt, current, latest.Version, latest.URL, r.env.PRRepo),
		Labels:       labels,
	})
	if err != nil {
		return err
	}

	logger.Infof("[%s] Created Pull Request: %s", dependency.Name, pr.URL)
	return nil
}
