//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// StubFetchRepository implements repositories.FetchRepository with canned pages.
// Downloads are recorded but never written to disk.
type StubFetchRepository struct {
	Pages       map[string]string // url -> body
	GetErr      error
	DownloadErr error

	// spy
	GetURLs   []string
	Downloads map[string]string // path -> url
}

var _ repositories.FetchRepository = (*StubFetchRepository)(nil)

func (f *StubFetchRepository) Get(_ context.Context, url string) ([]byte, error) {
	f.GetURLs = append(f.GetURLs, url)
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	body, ok := f.Pages[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s returned status 404", entities.ErrFetchFailed, url)
	}
	return []byte(body), nil
}

func (f *StubFetchRepository) Download(_ context.Context, url, path string) error {
	if f.DownloadErr != nil {
		return f.DownloadErr
	}
	if f.Downloads == nil {
		f.Downloads = map[string]string{}
	}
	f.Downloads[path] = url
	return nil
}

func (f *StubFetchRepository) HTTPClient() *http.Client { return http.DefaultClient }
