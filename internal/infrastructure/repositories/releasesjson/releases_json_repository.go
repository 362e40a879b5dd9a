package releasesjson

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

const manifestFile = "releases.json"

// manifest is the index published next to the HAProxy source archives, e.g.
// https://www.haproxy.org/download/2.8/src/releases.json.
type manifest struct {
	LatestRelease string                  `json:"latest_release"`
	Releases      map[string]manifestItem `json:"releases"`
}

type manifestItem struct {
	File string `json:"file"`
}

// ReleasesJSONRepository reads the latest release of a pinned branch from its
// releases.json index.
type ReleasesJSONRepository struct {
	fetcher repositories.FetchRepository
}

// NewReleasesJSONRepository creates the structured-manifest release source.
func NewReleasesJSONRepository(
	fetcher repositories.FetchRepository,
	_ entities.SourceConfig,
) repositories.ReleaseSourceRepository {
	return &ReleasesJSONRepository{fetcher: fetcher}
}

func (r *ReleasesJSONRepository) Kind() string { return entities.SourceReleasesJSON }

// Discover trusts the index's latest_release entry; the pin is already part of
// the root URL.
func (r *ReleasesJSONRepository) Discover(
	ctx context.Context,
	query entities.ReleaseQuery,
) (*entities.Release, error) {
	root := strings.TrimSuffix(query.RootURL, "/")
	indexURL := root + "/" + manifestFile

	body, err := r.fetcher.Get(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s releases list: %w", query.Name, err)
	}

	var doc manifest
	if unmarshalErr := json.Unmarshal(body, &doc); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrMalformedManifest, indexURL, unmarshalErr)
	}
	if doc.LatestRelease == "" {
		return nil, fmt.Errorf("%w: %s has no latest_release", entities.ErrMalformedManifest, indexURL)
	}
	item, ok := doc.Releases[doc.LatestRelease]
	if !ok || item.File == "" {
		return nil, fmt.Errorf(
			"%w: %s has no file for release %s", entities.ErrMalformedManifest, indexURL, doc.LatestRelease,
		)
	}

	v, err := entities.ParseVersion(doc.LatestRelease)
	if err != nil {
		return nil, err
	}

	return &entities.Release{
		Name:    strings.TrimSuffix(item.File, entities.DefaultFileSuffix),
		URL:     root + "/" + item.File,
		File:    item.File,
		Version: v,
	}, nil
}
