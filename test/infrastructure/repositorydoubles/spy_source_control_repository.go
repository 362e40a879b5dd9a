//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

// UpdatedFile records a single UpdateFile call.
type UpdatedFile struct {
	Branch  string
	Path    string
	Content string
	Message string
}

// SpySourceControlRepository implements repositories.SourceControlRepository as a configurable spy.
type SpySourceControlRepository struct {
	// --- PullRequestExists ---
	PRExistsResult   bool
	PRExistsErr      error
	PRExistsBranches []string
	PRExistsBases    []string

	// --- ReplaceBranch ---
	ReplaceBranchErr error
	ReplacedBranches []string

	// --- UpdateFile ---
	UpdateFileErr error
	UpdatedFiles  []UpdatedFile

	// --- CreatePullRequest ---
	CreatedPR   *entities.PullRequest
	CreatePRErr error
	PRInputs    []entities.PullRequestInput
}

var _ repositories.SourceControlRepository = (*SpySourceControlRepository)(nil)

func (p *SpySourceControlRepository) Name() string { return "spy" }

func (p *SpySourceControlRepository) PullRequestExists(_ context.Context, branch, base string) (bool, error) {
	p.PRExistsBranches = append(p.PRExistsBranches, branch)
	p.PRExistsBases = append(p.PRExistsBases, base)
	return p.PRExistsResult, p.PRExistsErr
}

func (p *SpySourceControlRepository) ReplaceBranch(_ context.Context, branch, _ string) error {
	p.ReplacedBranches = append(p.ReplacedBranches, branch)
	return p.ReplaceBranchErr
}

func (p *SpySourceControlRepository) UpdateFile(
	_ context.Context, branch, path string, content []byte, message string,
) error {
	p.UpdatedFiles = append(p.UpdatedFiles, UpdatedFile{
		Branch: branch, Path: path, Content: string(content), Message: message,
	})
	return p.UpdateFileErr
}

func (p *SpySourceControlRepository) CreatePullRequest(
	_ context.Context, input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	p.PRInputs = append(p.PRInputs, input)
	if p.CreatePRErr != nil {
		return nil, p.CreatePRErr
	}
	if p.CreatedPR != nil {
		return p.CreatedPR, nil
	}
	return &entities.PullRequest{
		ID:    1,
		Title: input.Title,
		URL:   "https://example.com/pr/1",
	}, nil
}

// MutatingCalls counts every call that changes the remote repository.
func (p *SpySourceControlRepository) MutatingCalls() int {
	return len(p.ReplacedBranches) + len(p.UpdatedFiles) + len(p.PRInputs)
}
