//go:build unit

package gitworkspace_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/infrastructure/repositories/gitworkspace"
)

const packaging = "HAPROXY_VERSION=2.8.1  # https://www.haproxy.org/download/2.8/src/haproxy-2.8.1.tar.gz\n"

// initRepository commits a packaging file and a .gitignore for config/private.yml.
func initRepository(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	files := map[string]string{
		"packages/haproxy/packaging": packaging,
		".gitignore":                 "config/private.yml\n",
	}
	worktree, err := repo.Worktree()
	require.NoError(t, err)
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, addErr := worktree.Add(name)
		require.NoError(t, addErr)
	}

	_, err = worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "bot", Email: "bot@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestGitWorkspaceRepository(t *testing.T) {
	t.Parallel()

	t.Run("should read and write files relative to the repository root", func(t *testing.T) {
		t.Parallel()

		// given
		dir := initRepository(t)
		workspace, err := gitworkspace.NewGitWorkspaceRepository(dir)
		require.NoError(t, err)

		// when
		writeErr := workspace.WriteFile("config/blobs.yml", []byte("{}\n"))
		content, readErr := workspace.ReadFile("packages/haproxy/packaging")

		// then
		require.NoError(t, writeErr)
		require.NoError(t, readErr)
		assert.Equal(t, packaging, string(content))
		assert.FileExists(t, filepath.Join(dir, "config", "blobs.yml"))
		assert.Equal(t, filepath.Join(dir, "haproxy-2.8.2.tar.gz"), workspace.Path("haproxy-2.8.2.tar.gz"))
	})

	t.Run("should discard edits and untracked files but keep ignored ones on Reset", func(t *testing.T) {
		t.Parallel()

		// given
		dir := initRepository(t)
		workspace, err := gitworkspace.NewGitWorkspaceRepository(dir)
		require.NoError(t, err)
		require.NoError(t, workspace.WriteFile("packages/haproxy/packaging", []byte("HAPROXY_VERSION=2.8.2  # new\n")))
		require.NoError(t, workspace.WriteFile("haproxy-2.8.2.tar.gz", []byte("archive")))
		require.NoError(t, workspace.WriteFile("config/private.yml", []byte("blobstore: {}\n")))
		require.NoError(t, workspace.WriteFile("tmp/extract/haproxy.c", []byte("int main;")))

		// when
		err = workspace.Reset(context.Background())

		// then
		require.NoError(t, err)
		content, readErr := workspace.ReadFile("packages/haproxy/packaging")
		require.NoError(t, readErr)
		assert.Equal(t, packaging, string(content))
		assert.NoFileExists(t, filepath.Join(dir, "haproxy-2.8.2.tar.gz"))
		assert.FileExists(t, filepath.Join(dir, "config", "private.yml"))
		assert.NoDirExists(t, filepath.Join(dir, "tmp"))
	})

	t.Run("should keep ignored files across repeated resets", func(t *testing.T) {
		t.Parallel()

		// given
		dir := initRepository(t)
		workspace, err := gitworkspace.NewGitWorkspaceRepository(dir)
		require.NoError(t, err)
		require.NoError(t, workspace.WriteFile("config/private.yml", []byte("blobstore: {}\n")))

		for range 2 {
			require.NoError(t, workspace.WriteFile("lua-5.4.7.tar.gz", []byte("archive")))

			// when
			resetErr := workspace.Reset(context.Background())

			// then
			require.NoError(t, resetErr)
			content, readErr := workspace.ReadFile("config/private.yml")
			require.NoError(t, readErr)
			assert.Equal(t, "blobstore: {}\n", string(content))
			assert.NoFileExists(t, filepath.Join(dir, "lua-5.4.7.tar.gz"))
		}
	})

	t.Run("should fail outside of a git repository", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := gitworkspace.NewGitWorkspaceRepository(t.TempDir())

		// then
		require.Error(t, err)
	})
}
