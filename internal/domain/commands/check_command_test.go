//go:build unit

package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/autobump/internal/infrastructure/repositories"
)

func newCheckCommand(f *bumpFixture) *commands.CheckCommand {
	sources := infraRepos.NewReleaseSourceRegistry()
	for _, kind := range []string{entities.SourceReleasesJSON, entities.SourceWebLink} {
		sources.Register(kind, func(
			_ infraRepos.ReleaseSourceDeps, _ entities.SourceConfig,
		) repositories.ReleaseSourceRepository {
			return f.source
		})
	}

	return commands.NewCheckCommand(sources, &infraRepos.LocalFactories{
		Fetcher: func(_ *entities.Settings) repositories.FetchRepository { return f.fetcher },
		Workspace: func(_ string) (repositories.WorkspaceRepository, error) {
			return f.workspace, nil
		},
	})
}

func TestCheckCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should report current and latest versions without side effects", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		cmd := newCheckCommand(f)

		// when
		statuses, err := cmd.Execute(
			context.Background(), f.settings, &entities.DiscoveryEnvironment{}, commands.RunOptions{},
		)

		// then
		require.NoError(t, err)
		require.Len(t, statuses, 2)

		assert.Equal(t, "haproxy", statuses[0].Name)
		assert.Equal(t, "2.8", statuses[0].Pin)
		assert.Equal(t, "2.8.1", statuses[0].Current.String())
		assert.Equal(t, "2.8.2", statuses[0].Latest.Version.String())
		assert.True(t, statuses[0].UpdateNeeded)

		assert.Equal(t, "lua", statuses[1].Name)
		assert.False(t, statuses[1].UpdateNeeded)

		assert.Empty(t, f.store.Calls)
		assert.Empty(t, f.fetcher.Downloads)
		assert.Equal(t, haproxyPackaging, string(f.workspace.Files["packages/haproxy/packaging"]))
	})

	t.Run("should honour the dependency filter", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		cmd := newCheckCommand(f)

		// when
		statuses, err := cmd.Execute(
			context.Background(), f.settings, &entities.DiscoveryEnvironment{},
			commands.RunOptions{Dependency: "lua"},
		)

		// then
		require.NoError(t, err)
		require.Len(t, statuses, 1)
		assert.Equal(t, "lua", statuses[0].Name)
	})

	t.Run("should fail when a release source fails", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		f.source.DiscoverErrs = map[string]error{"lua": entities.ErrNoQualifyingRelease}
		cmd := newCheckCommand(f)

		// when
		_, err := cmd.Execute(
			context.Background(), f.settings, &entities.DiscoveryEnvironment{}, commands.RunOptions{},
		)

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrNoQualifyingRelease)
	})
}

func TestDryRunArtifactStore(t *testing.T) {
	t.Parallel()

	t.Run("should forward lookups and swallow mutations", func(t *testing.T) {
		t.Parallel()

		// given
		f := newBumpFixture("2.8.2", "5.4.6")
		store := commands.NewDryRunArtifactStore(f.store)
		ctx := context.Background()

		// when
		found, hasErr := store.Has(ctx, "haproxy/haproxy-2.8.1.tar.gz")
		removeErr := store.Remove(ctx, "haproxy/haproxy-2.8.1.tar.gz")
		addErr := store.Add(ctx, "/repo/haproxy-2.8.2.tar.gz", "haproxy/haproxy-2.8.2.tar.gz")
		uploadErr := store.Upload(ctx)

		// then
		require.NoError(t, hasErr)
		require.NoError(t, removeErr)
		require.NoError(t, addErr)
		require.NoError(t, uploadErr)
		assert.True(t, found)
		assert.Empty(t, f.store.Calls)
		assert.Equal(t, entities.DefaultManifestPath, store.ManifestPath())
	})
}
