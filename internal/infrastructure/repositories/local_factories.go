package repositories

import (
	"github.com/rios0rios0/autobump/internal/domain/entities"
	domainRepos "github.com/rios0rios0/autobump/internal/domain/repositories"
)

// LocalFactories build the collaborators bound to the local checkout. They are
// invoked once per run, after the work directory and settings are known.
type LocalFactories struct {
	Fetcher       func(settings *entities.Settings) domainRepos.FetchRepository
	Workspace     func(workDir string) (domainRepos.WorkspaceRepository, error)
	ArtifactStore func(workspace domainRepos.WorkspaceRepository, settings *entities.Settings) domainRepos.ArtifactStoreRepository
}
