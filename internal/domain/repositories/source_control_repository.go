package repositories

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// SourceControlRepository abstracts the hosting service where bump branches
// are pushed and pull requests are opened.
type SourceControlRepository interface {
	Name() string

	// PullRequestExists reports whether an open pull request from branch into base exists.
	PullRequestExists(ctx context.Context, branch, base string) (bool, error)

	// ReplaceBranch deletes branch if it exists and recreates it from base.
	ReplaceBranch(ctx context.Context, branch, base string) error

	// UpdateFile commits content to path on branch.
	UpdateFile(ctx context.Context, branch, path string, content []byte, message string) error

	CreatePullRequest(ctx context.Context, input entities.PullRequestInput) (*entities.PullRequest, error)
}
