package repositories

import "context"

// ArtifactStoreRepository abstracts the blob manifest and the blob store CLI.
// Registered paths have the shape "<package>/<filename>".
type ArtifactStoreRepository interface {
	// Has reports whether the manifest already registers the given path.
	Has(ctx context.Context, registeredPath string) (bool, error)

	Add(ctx context.Context, localPath, registeredPath string) error
	Remove(ctx context.Context, registeredPath string) error

	// Upload publishes every locally added blob to the remote store.
	Upload(ctx context.Context) error

	// WriteCredentials stores the blob store key in the local, git-ignored
	// private configuration.
	WriteCredentials(ctx context.Context, key string) error

	// ManifestPath is the manifest file location relative to the workspace root.
	ManifestPath() string
}
