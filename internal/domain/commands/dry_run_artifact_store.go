package commands

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// dryRunArtifactStore logs every mutating blob command instead of running it.
// Manifest lookups and the local credentials file still go to the real store.
type dryRunArtifactStore struct {
	repositories.ArtifactStoreRepository
}

func newDryRunArtifactStore(store repositories.ArtifactStoreRepository) repositories.ArtifactStoreRepository {
	return &dryRunArtifactStore{ArtifactStoreRepository: store}
}

func (s *dryRunArtifactStore) Add(_ context.Context, localPath, registeredPath string) error {
	logger.Infof("[DRY RUN] Would add blob '%s' as '%s'", localPath, registeredPath)
	return nil
}

func (s *dryRunArtifactStore) Remove(_ context.Context, registeredPath string) error {
	logger.Infof("[DRY RUN] Would remove blob '%s'", registeredPath)
	return nil
}

func (s *dryRunArtifactStore) Upload(_ context.Context) error {
	logger.Info("[DRY RUN] Would upload blobs")
	return nil
}
