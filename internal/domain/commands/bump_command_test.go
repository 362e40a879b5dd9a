//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
	"github.com/rios0rios0/autobump/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/autobump/test/infrastructure/repositorydoubles"
)

const blobsManifest = "haproxy/haproxy-2.8.1.tar.gz:\n  size: 4371337\n" +
	"haproxy/lua-5.4.6.tar.gz:\n  size: 363329\n"

type bumpFixture struct {
	workspace *doubles.InMemoryWorkspaceRepository
	store     *doubles.SpyArtifactStoreRepository
	scm       *doubles.SpySourceControlRepository
	fetcher   *doubles.StubFetchRepository
	source    *doubles.StubReleaseSourceRepository
	settings  *entities.Settings
	env       *entities.Environment
	cmd       *commands.BumpCommand
}

// newBumpFixture tracks haproxy (2.8.1 pinned) and lua (5.4.6 pinned) against
// the given upstream versions.
func newBumpFixture(haproxyLatest, luaLatest string) *bumpFixture {
	f := &bumpFixture{
		workspace: doubles.NewInMemoryWorkspaceRepository("/repo"),
		store: &doubles.SpyArtifactStoreRepository{Registered: map[string]bool{
			"haproxy/haproxy-2.8.1.tar.gz": true,
			"haproxy/lua-5.4.6.tar.gz":     true,
		}},
		scm:     &doubles.SpySourceControlRepository{},
		fetcher: &doubles.StubFetchRepository{},
		source: &doubles.StubReleaseSourceRepository{Releases: map[string]*entities.Release{
			"haproxy": entitybuilders.NewReleaseBuilder().WithVersion(haproxyLatest).BuildRelease(),
			"lua":     entitybuilders.NewReleaseBuilder().WithName("lua").WithVersion(luaLatest).BuildRelease(),
		}},
		env: &entities.Environment{
			GitHubToken:  "token",
			PROrg:        "cloudfoundry",
			PRBase:       "master",
			PRLabel:      "run-ci",
			PRRepo:       "haproxy-boshrelease",
			PRProvider:   "github",
			BlobstoreKey: `{"type":"service_account"}`,
		},
	}
	f.workspace.Files["packages/haproxy/packaging"] = []byte(haproxyPackaging)
	f.workspace.Files[entities.DefaultManifestPath] = []byte(blobsManifest)
	f.workspace.Commit()

	f.settings = entities.DefaultSettings()
	f.settings.Dependencies = []entities.DependencyConfig{
		entitybuilders.NewDependencyBuilder().BuildConfig(),
		entitybuilders.NewDependencyBuilder().
			WithName("lua").
			WithVersionVar("LUA_VERSION").
			WithPin("5.4").
			WithRootURL("https://www.lua.org/versions.html").
			WithSource(entities.SourceConfig{Kind: entities.SourceWebLink}).
			BuildConfig(),
	}

	sources := infraRepos.NewReleaseSourceRegistry()
	for _, kind := range []string{entities.SourceReleasesJSON, entities.SourceWebLink} {
		sources.Register(kind, func(
			_ infraRepos.ReleaseSourceDeps, _ entities.SourceConfig,
		) repositories.ReleaseSourceRepository {
			return f.source
		})
	}

	scms := infraRepos.NewSourceControlRegistry()
	scms.Register("github", func(_ infraRepos.SourceControlConfig) repositories.SourceControlRepository {
		return f.scm
	})

	f.cmd = commands.NewBumpCommand(sources, scms, &infraRepos.LocalFactories{
		Fetcher: func(_ *entities.Settings) repositories.FetchRepository { return f.fetcher },
		Workspace: func(_ string) (repositories.WorkspaceRepository, error) {
			return f.workspace, nil
		},
		ArtifactStore: func(
			_ repositories.WorkspaceRepository, _ *entities.Settings,
		) repositories.ArtifactStoreRepository {
			return f.store
		},
	})
	return f
}

func (f *bumpFixture) execute(opts commands.RunOptions) error {
	return f.cmd.Execute(context.Background(), f.settings, f.env, opts)
}

func TestBumpCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should bump an outdated dependency and open a pull request", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{`{"type":"service_account"}`, `{"type":"service_account"}`}, f.store.Credentials)
		assert.Equal(t, map[string]string{
			"/repo/haproxy-2.8.2.tar.gz": "https://example.com/download/haproxy-2.8.2.tar.gz",
		}, f.fetcher.Downloads)
		assert.Equal(t, []string{
			"remove haproxy/haproxy-2.8.1.tar.gz",
			"add /repo/haproxy-2.8.2.tar.gz haproxy/haproxy-2.8.2.tar.gz",
			"upload",
		}, f.store.Calls)

		assert.Equal(t, []string{"haproxy-auto-bump-master"}, f.scm.ReplacedBranches)
		require.Len(t, f.scm.UpdatedFiles, 2)
		assert.Equal(t, "packages/haproxy/packaging", f.scm.UpdatedFiles[0].Path)
		assert.Equal(t, "Bump haproxy version to 2.8.2", f.scm.UpdatedFiles[0].Message)
		assert.Contains(t, f.scm.UpdatedFiles[0].Content,
			"HAPROXY_VERSION=2.8.2  # https://example.com/download/haproxy-2.8.2.tar.gz\n")
		assert.Equal(t, entities.DefaultManifestPath, f.scm.UpdatedFiles[1].Path)
		assert.Equal(t, "Update blob reference for haproxy to version 2.8.2", f.scm.UpdatedFiles[1].Message)

		require.Len(t, f.scm.PRInputs, 1)
		pr := f.scm.PRInputs[0]
		assert.Equal(t, "haproxy-auto-bump-master", pr.SourceBranch)
		assert.Equal(t, "master", pr.TargetBranch)
		assert.Equal(t, "Bump haproxy version to 2.8.2", pr.Title)
		assert.Equal(t, []string{"run-ci"}, pr.Labels)
		assert.Contains(t, pr.Description,
			"Automatic bump from version 2.8.1 to version 2.8.2, downloaded from "+
				"https://example.com/download/haproxy-2.8.2.tar.gz.")
		assert.Contains(t, pr.Description, "consider releasing a new version of haproxy-boshrelease")

		assert.Equal(t, 1, f.workspace.ResetCount)
		assert.Equal(t, haproxyPackaging, string(f.workspace.Files["packages/haproxy/packaging"]))
	})

	t.Run("should do nothing when every dependency is up to date", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.1", "5.4.6")

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Empty(t, f.store.Calls)
		assert.Empty(t, f.scm.PRExistsBranches)
		assert.Zero(t, f.scm.MutatingCalls())
		assert.Empty(t, f.fetcher.Downloads)
		assert.Zero(t, f.workspace.ResetCount)
	})

	t.Run("should be a no-op on a second run once the pull request is open", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		require.NoError(t, f.execute(commands.RunOptions{}))
		callsAfterFirstRun := len(f.store.Calls)
		mutationsAfterFirstRun := f.scm.MutatingCalls()
		f.scm.PRExistsResult = true

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Len(t, f.store.Calls, callsAfterFirstRun)
		assert.Equal(t, mutationsAfterFirstRun, f.scm.MutatingCalls())
		assert.Len(t, f.fetcher.Downloads, 1)
	})

	t.Run("should skip a dependency with an open bump pull request", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		f.scm.PRExistsResult = true

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"haproxy-auto-bump-master"}, f.scm.PRExistsBranches)
		assert.Equal(t, []string{"master"}, f.scm.PRExistsBases)
		assert.Empty(t, f.store.Calls)
		assert.Empty(t, f.fetcher.Downloads)
		assert.Zero(t, f.scm.MutatingCalls())
	})

	t.Run("should not mutate the artifact store or source control in a dry run", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.7")

		// when
		err := f.execute(commands.RunOptions{DryRun: true})

		// then
		require.NoError(t, err)
		assert.Empty(t, f.store.Calls)
		assert.Zero(t, f.scm.MutatingCalls())
		assert.Zero(t, f.workspace.ResetCount)
		assert.Len(t, f.fetcher.Downloads, 2)
		assert.Equal(t, "# haproxy build\n"+
			"HAPROXY_VERSION=2.8.2  # https://example.com/download/haproxy-2.8.2.tar.gz\n"+
			"LUA_VERSION=5.4.7  # https://example.com/download/lua-5.4.7.tar.gz\n",
			string(f.workspace.Files["packages/haproxy/packaging"]))
	})

	t.Run("should honour DRY_RUN from the environment", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		f.env.DryRun = "1"

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Empty(t, f.store.Calls)
		assert.Zero(t, f.scm.MutatingCalls())
	})

	t.Run("should abort the run on the first failing dependency", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.7")
		f.source.DiscoverErrs = map[string]error{"haproxy": entities.ErrFetchFailed}

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrFetchFailed)
		assert.Contains(t, err.Error(), "[haproxy]")
		require.Len(t, f.source.Queries, 1)
		assert.Equal(t, "haproxy", f.source.Queries[0].Name)
		assert.Empty(t, f.store.Calls)
	})

	t.Run("should abort when the download fails", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		f.fetcher.DownloadErr = entities.ErrDownloadFailed

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrDownloadFailed))
		assert.Empty(t, f.store.Calls)
	})

	t.Run("should abort when the pull request cannot be created", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.7")
		f.scm.CreatePRErr = entities.ErrPullRequestFailed

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrPullRequestFailed)
		assert.Zero(t, f.workspace.ResetCount)
		assert.Len(t, f.scm.PRInputs, 1)
	})

	t.Run("should only process the selected dependency", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.7")

		// when
		err := f.execute(commands.RunOptions{Dependency: "lua"})

		// then
		require.NoError(t, err)
		require.Len(t, f.scm.PRInputs, 1)
		assert.Equal(t, "Bump lua version to 5.4.7", f.scm.PRInputs[0].Title)
		assert.Equal(t, []string{"lua-auto-bump-master"}, f.scm.ReplacedBranches)
	})

	t.Run("should keep blobstore credentials for every upload across resets", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.7")
		f.store.Workspace = f.workspace

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.NoError(t, err)
		require.Len(t, f.scm.PRInputs, 2)
		assert.Equal(t, 2, f.workspace.ResetCount)
		assert.Equal(t, []bool{true, true}, f.store.UploadsWithCredentials)
		assert.Equal(t, `{"type":"service_account"}`, string(f.workspace.Files[entities.DefaultPrivateConfigPath]))
	})

	t.Run("should skip writing credentials when no blobstore key is set", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.1", "5.4.6")
		f.env.BlobstoreKey = ""

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.NoError(t, err)
		assert.Empty(t, f.store.Credentials)
	})

	t.Run("should fail for an unknown source control provider", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		f.env.PRProvider = "bitbucket"

		// when
		err := f.execute(commands.RunOptions{})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown source control provider")
		assert.Empty(t, f.source.Queries)
	})
}
