//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// SpyArtifactStoreRepository implements repositories.ArtifactStoreRepository
// over an in-memory set of registered paths.
type SpyArtifactStoreRepository struct {
	// --- Has ---
	Registered map[string]bool
	HasErr     error

	// --- Add / Remove / Upload ---
	AddErr    error
	RemoveErr error
	UploadErr error

	// --- WriteCredentials ---
	CredentialsErr error
	Credentials    []string

	// spy: mutating calls in order, e.g. "remove haproxy/haproxy-2.8.1.tar.gz"
	Calls []string

	// Workspace, when set, receives the private config on WriteCredentials and
	// is checked for it on every Upload.
	Workspace              repositories.WorkspaceRepository
	UploadsWithCredentials []bool
}

var _ repositories.ArtifactStoreRepository = (*SpyArtifactStoreRepository)(nil)

func (s *SpyArtifactStoreRepository) Has(_ context.Context, registeredPath string) (bool, error) {
	if s.HasErr != nil {
		return false, s.HasErr
	}
	return s.Registered[registeredPath], nil
}

func (s *SpyArtifactStoreRepository) Add(_ context.Context, localPath, registeredPath string) error {
	s.Calls = append(s.Calls, "add "+localPath+" "+registeredPath)
	if s.AddErr != nil {
		return s.AddErr
	}
	if s.Registered == nil {
		s.Registered = map[string]bool{}
	}
	s.Registered[registeredPath] = true
	return nil
}

func (s *SpyArtifactStoreRepository) Remove(_ context.Context, registeredPath string) error {
	s.Calls = append(s.Calls, "remove "+registeredPath)
	if s.RemoveErr != nil {
		return s.RemoveErr
	}
	delete(s.Registered, registeredPath)
	return nil
}

func (s *SpyArtifactStoreRepository) Upload(_ context.Context) error {
	s.Calls = append(s.Calls, "upload")
	if s.Workspace != nil {
		_, err := s.Workspace.ReadFile(entities.DefaultPrivateConfigPath)
		s.UploadsWithCredentials = append(s.UploadsWithCredentials, err == nil)
	}
	return s.UploadErr
}

func (s *SpyArtifactStoreRepository) WriteCredentials(_ context.Context, key string) error {
	s.Credentials = append(s.Credentials, key)
	if s.CredentialsErr != nil {
		return s.CredentialsErr
	}
	if s.Workspace != nil {
		return s.Workspace.WriteFile(entities.DefaultPrivateConfigPath, []byte(key))
	}
	return nil
}

func (s *SpyArtifactStoreRepository) ManifestPath() string { return entities.DefaultManifestPath }
