package entities

import (
	"context"
	"fmt"
	"path/filepath"

	logger "github.com/sirupsen/logrus"
)

// Release is one discovered upstream artifact. Only the newest qualifying
// release of each dependency is ever fetched.
type Release struct {
	Name    string  // logical name, e.g. "haproxy-2.8.1"
	URL     string  // absolute download URL
	File    string  // target file name including extension
	Version Version // parsed version
}

// ReleaseQuery is what a release source needs to look up the newest release of
// a dependency.
type ReleaseQuery struct {
	Name    string // dependency name, used to build file names and patterns
	RootURL string // pin already substituted
	Pin     string
}

// Downloader fetches the bytes at a URL into a local file.
type Downloader interface {
	Download(ctx context.Context, url, path string) error
}

// Download stores the release archive as dir/File and returns that path.
func (r Release) Download(ctx context.Context, downloader Downloader, dir string) (string, error) {
	path := filepath.Join(dir, r.File)
	logger.Infof("[%s] download '%s' to '%s'", r.Name, r.URL, path)

	if err := downloader.Download(ctx, r.URL, path); err != nil {
		return "", fmt.Errorf("failed to download %s: %w", r.Name, err)
	}
	return path, nil
}
