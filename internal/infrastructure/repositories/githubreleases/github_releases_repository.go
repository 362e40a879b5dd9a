package githubreleases

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

const perPage = 100

// GitHubReleasesRepository discovers releases from the tag list of a GitHub
// repository. Tags are stripped of a fixed prefix ("v", "pcre2-") before parsing.
type GitHubReleasesRepository struct {
	client     *gh.Client
	tagPrefix  string
	fileSuffix string
}

// NewClient creates a GitHub API client on top of the shared HTTP client.
// An empty token makes unauthenticated requests.
func NewClient(httpClient *http.Client, token string) *gh.Client {
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}

// NewGitHubReleasesRepository creates the tag-list release source.
func NewGitHubReleasesRepository(
	client *gh.Client,
	source entities.SourceConfig,
) repositories.ReleaseSourceRepository {
	return &GitHubReleasesRepository{
		client:     client,
		tagPrefix:  source.TagPrefix,
		fileSuffix: source.Suffix(),
	}
}

func (r *GitHubReleasesRepository) Kind() string { return entities.SourceGitHubReleases }

// Discover picks the highest tag inside the pin and resolves its download asset.
func (r *GitHubReleasesRepository) Discover(
	ctx context.Context,
	query entities.ReleaseQuery,
) (*entities.Release, error) {
	owner, repo, err := parseRepositoryURL(query.RootURL)
	if err != nil {
		return nil, err
	}

	releases, err := r.listReleases(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	var (
		winner        *gh.RepositoryRelease
		winnerVersion entities.Version
	)
	for _, rel := range releases {
		raw := strings.TrimPrefix(rel.GetTagName(), r.tagPrefix)
		if !strings.HasPrefix(raw, query.Pin) {
			continue
		}
		v, parseErr := entities.ParseVersion(raw)
		if parseErr != nil {
			logger.Debugf("[%s] Skipping tag %q: %v", query.Name, rel.GetTagName(), parseErr)
			continue
		}
		if winner == nil || v.GreaterThan(winnerVersion) {
			winner = rel
			winnerVersion = v
		}
	}

	if winner == nil {
		return nil, fmt.Errorf("%w: no tag of %s/%s matches pin %q", entities.ErrNoQualifyingRelease, owner, repo, query.Pin)
	}

	downloadURL, err := r.assetURL(winner)
	if err != nil {
		return nil, err
	}

	name := winner.GetName()
	if name == "" {
		name = winner.GetTagName()
	}
	return &entities.Release{
		Name:    name,
		URL:     downloadURL,
		File:    fmt.Sprintf("%s-%s%s", query.Name, winnerVersion, r.fileSuffix),
		Version: winnerVersion,
	}, nil
}

func (r *GitHubReleasesRepository) listReleases(
	ctx context.Context,
	owner, repo string,
) ([]*gh.RepositoryRelease, error) {
	var all []*gh.RepositoryRelease
	opts := &gh.ListOptions{PerPage: perPage}

	for {
		releases, resp, err := r.client.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list releases of %s/%s: %w", entities.ErrFetchFailed, owner, repo, err)
		}
		all = append(all, releases...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (r *GitHubReleasesRepository) assetURL(rel *gh.RepositoryRelease) (string, error) {
	for _, asset := range rel.Assets {
		if strings.HasSuffix(asset.GetName(), r.fileSuffix) {
			return asset.GetBrowserDownloadURL(), nil
		}
	}
	return "", fmt.Errorf("%w: no *%s asset in release %q", entities.ErrNoAssetFound, r.fileSuffix, rel.GetTagName())
}

// parseRepositoryURL extracts owner and name from e.g. https://github.com/PCRE2Project/pcre2.
func parseRepositoryURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid repository URL %q: %w", rawURL, err)
	}

	parts := strings.Split(strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository URL %q does not name an owner and a repository", rawURL)
	}
	return parts[0], parts[1], nil
}
