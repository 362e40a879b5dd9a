package repositories

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	domainRepos "github.com/rios0rios0/autobump/internal/domain/repositories"
	boshRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/bosh"
	ghRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/github"
	ghrRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/githubreleases"
	gitRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/gitworkspace"
	httpRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/httpfetch"
	jsonRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/releasesjson"
	webRepo "github.com/rios0rios0/autobump/internal/infrastructure/repositories/weblink"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register release source registry with one factory per upstream shape
	if err := container.Provide(func() *ReleaseSourceRegistry {
		reg := NewReleaseSourceRegistry()
		reg.Register(entities.SourceGitHubReleases, func(
			deps ReleaseSourceDeps, source entities.SourceConfig,
		) domainRepos.ReleaseSourceRepository {
			client := ghrRepo.NewClient(deps.Fetcher.HTTPClient(), deps.Token)
			return ghrRepo.NewGitHubReleasesRepository(client, source)
		})
		reg.Register(entities.SourceWebLink, func(
			deps ReleaseSourceDeps, source entities.SourceConfig,
		) domainRepos.ReleaseSourceRepository {
			return webRepo.NewWebLinkRepository(deps.Fetcher, source)
		})
		reg.Register(entities.SourceReleasesJSON, func(
			deps ReleaseSourceDeps, source entities.SourceConfig,
		) domainRepos.ReleaseSourceRepository {
			return jsonRepo.NewReleasesJSONRepository(deps.Fetcher, source)
		})
		return reg
	}); err != nil {
		return err
	}

	// Register source-control registry with all host factories
	if err := container.Provide(func() *SourceControlRegistry {
		reg := NewSourceControlRegistry()
		reg.Register("github", func(cfg SourceControlConfig) domainRepos.SourceControlRepository {
			return ghRepo.NewGitHubSourceControlRepository(cfg.HTTPClient, cfg.Token, cfg.Owner, cfg.Repo)
		})
		return reg
	}); err != nil {
		return err
	}

	// Register factories for the collaborators bound to the local checkout
	if err := container.Provide(func() *LocalFactories {
		return &LocalFactories{
			Fetcher:   httpRepo.NewFromSettings,
			Workspace: gitRepo.NewGitWorkspaceRepository,
			ArtifactStore: func(
				workspace domainRepos.WorkspaceRepository, settings *entities.Settings,
			) domainRepos.ArtifactStoreRepository {
				return boshRepo.NewBoshArtifactStoreRepository(workspace, settings)
			},
		}
	}); err != nil {
		return err
	}

	return nil
}
