package gitworkspace

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

const filePerm = 0o644

// GitWorkspaceRepository is the local git checkout of the release repository.
// File access goes through the worktree filesystem so every path stays
// relative to the repository root.
type GitWorkspaceRepository struct {
	repo     *git.Repository
	worktree *git.Worktree
	fs       billy.Filesystem
}

// NewGitWorkspaceRepository opens the repository containing workDir.
func NewGitWorkspaceRepository(workDir string) (repositories.WorkspaceRepository, error) {
	repo, err := git.PlainOpenWithOptions(workDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository at %q: %w", workDir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &GitWorkspaceRepository{repo: repo, worktree: worktree, fs: worktree.Filesystem}, nil
}

func (w *GitWorkspaceRepository) ReadFile(path string) ([]byte, error) {
	return util.ReadFile(w.fs, path)
}

func (w *GitWorkspaceRepository) WriteFile(path string, content []byte) error {
	return util.WriteFile(w.fs, path, content, filePerm)
}

func (w *GitWorkspaceRepository) Path(path string) string {
	return filepath.Join(w.fs.Root(), path)
}

// Reset is the equivalent of "git reset --hard && git clean -fd". Ignored
// files such as config/private.yml are kept; go-git's own Clean removes them.
func (w *GitWorkspaceRepository) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	head, err := w.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	logger.Debugf("Resetting worktree to %s", head.Hash())
	if resetErr := w.worktree.Reset(&git.ResetOptions{Commit: head.Hash(), Mode: git.HardReset}); resetErr != nil {
		return fmt.Errorf("failed to reset worktree: %w", resetErr)
	}
	if cleanErr := w.removeUntracked(); cleanErr != nil {
		return fmt.Errorf("failed to clean worktree: %w", cleanErr)
	}
	return nil
}

func (w *GitWorkspaceRepository) removeUntracked() error {
	patterns, err := gitignore.ReadPatterns(w.fs, nil)
	if err != nil {
		return err
	}
	ignored := gitignore.NewMatcher(append(patterns, w.worktree.Excludes...))

	status, err := w.worktree.Status()
	if err != nil {
		return err
	}

	for file, fileStatus := range status {
		if fileStatus.Worktree != git.Untracked || ignored.Match(strings.Split(file, "/"), false) {
			continue
		}
		logger.Debugf("Removing untracked file %s", file)
		if removeErr := w.fs.Remove(file); removeErr != nil {
			return removeErr
		}
		w.removeEmptyParents(path.Dir(file))
	}
	return nil
}

// removeEmptyParents deletes dir and its ancestors while they are empty.
func (w *GitWorkspaceRepository) removeEmptyParents(dir string) {
	for dir != "." && dir != "/" && dir != "" {
		entries, err := w.fs.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if removeErr := w.fs.Remove(dir); removeErr != nil {
			return
		}
		dir = path.Dir(dir)
	}
}
