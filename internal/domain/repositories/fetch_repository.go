package repositories

import (
	"context"
	"net/http"
)

// FetchRepository is the HTTP layer shared by every release source.
type FetchRepository interface {
	// Get returns the body of a successful (200) response. Any other status
	// fails with entities.ErrFetchFailed.
	Get(ctx context.Context, url string) ([]byte, error)

	// Download streams the body of url into path, failing with
	// entities.ErrDownloadFailed on a non-success status.
	Download(ctx context.Context, url, path string) error

	// HTTPClient exposes the underlying client for API SDKs.
	HTTPClient() *http.Client
}
