package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

const (
	providerName = "github"
	headsPrefix  = "heads/"
)

// GitHubSourceControlRepository implements repositories.SourceControlRepository
// for a single GitHub repository.
type GitHubSourceControlRepository struct {
	owner  string
	repo   string
	client *gh.Client
}

// NewGitHubSourceControlRepository creates a GitHub adapter for owner/repo
// authenticated with token.
func NewGitHubSourceControlRepository(
	httpClient *http.Client,
	token, owner, repo string,
) repositories.SourceControlRepository {
	client := gh.NewClient(httpClient).WithAuthToken(token)
	return NewWithClient(client, owner, repo)
}

// NewWithClient wraps an already configured client.
func NewWithClient(client *gh.Client, owner, repo string) repositories.SourceControlRepository {
	return &GitHubSourceControlRepository{owner: owner, repo: repo, client: client}
}

func (p *GitHubSourceControlRepository) Name() string { return providerName }

func (p *GitHubSourceControlRepository) PullRequestExists(ctx context.Context, branch, base string) (bool, error) {
	prs, _, err := p.client.PullRequests.List(
		ctx, p.owner, p.repo,
		&gh.PullRequestListOptions{
			Head:  p.owner + ":" + branch,
			Base:  base,
			State: "open",
		},
	)
	if err != nil {
		return false, fmt.Errorf("%w: failed to list pull requests: %w", entities.ErrPullRequestFailed, err)
	}

	// there should never be more than one, print them anyway
	for _, pr := range prs {
		logger.Infof("Open %s PR exists: %s", branch, pr.GetHTMLURL())
	}
	return len(prs) > 0, nil
}

// ReplaceBranch deletes a leftover branch and recreates it at the head of base.
func (p *GitHubSourceControlRepository) ReplaceBranch(ctx context.Context, branch, base string) error {
	_, resp, err := p.client.Git.GetRef(ctx, p.owner, p.repo, headsPrefix+branch)
	switch {
	case err == nil:
		logger.Infof("Branch %s exists, deleting it", branch)
		if _, delErr := p.client.Git.DeleteRef(ctx, p.owner, p.repo, headsPrefix+branch); delErr != nil {
			return fmt.Errorf("%w: failed to delete branch %q: %w", entities.ErrPullRequestFailed, branch, delErr)
		}
	case isNotFound(resp, err):
		logger.Infof("Branch %s didn't exist. We'll create it.", branch)
	default:
		return fmt.Errorf("%w: failed to get branch %q: %w", entities.ErrPullRequestFailed, branch, err)
	}

	baseRef, _, err := p.client.Git.GetRef(ctx, p.owner, p.repo, headsPrefix+base)
	if err != nil {
		return fmt.Errorf("%w: failed to get base branch ref: %w", entities.ErrPullRequestFailed, err)
	}

	branchRef := "refs/heads/" + branch
	_, _, err = p.client.Git.CreateRef(
		ctx, p.owner, p.repo,
		&gh.Reference{
			Ref:    &branchRef,
			Object: &gh.GitObject{SHA: baseRef.Object.SHA},
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to create branch %q: %w", entities.ErrPullRequestFailed, branch, err)
	}
	return nil
}

// UpdateFile commits the new content of an existing file on branch.
func (p *GitHubSourceControlRepository) UpdateFile(
	ctx context.Context,
	branch, path string,
	content []byte,
	message string,
) error {
	path = strings.TrimPrefix(path, "/")

	current, _, _, err := p.client.Repositories.GetContents(
		ctx, p.owner, p.repo, path,
		&gh.RepositoryContentGetOptions{Ref: branch},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to get file %q: %w", entities.ErrPullRequestFailed, path, err)
	}
	if current == nil {
		return fmt.Errorf("%w: path %q is a directory, not a file", entities.ErrPullRequestFailed, path)
	}

	logger.Infof("Committing %s to %s: %s", path, branch, message)
	_, _, err = p.client.Repositories.UpdateFile(
		ctx, p.owner, p.repo, path,
		&gh.RepositoryContentFileOptions{
			Message: &message,
			Content: content,
			SHA:     current.SHA,
			Branch:  &branch,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: failed to update file %q: %w", entities.ErrPullRequestFailed, path, err)
	}
	return nil
}

func (p *GitHubSourceControlRepository) CreatePullRequest(
	ctx context.Context,
	input entities.PullRequestInput,
) (*entities.PullRequest, error) {
	head := p.owner + ":" + strings.TrimPrefix(input.SourceBranch, "refs/heads/")
	base := strings.TrimPrefix(input.TargetBranch, "refs/heads/")

	draft := false
	pr, _, err := p.client.PullRequests.Create(
		ctx, p.owner, p.repo,
		&gh.NewPullRequest{
			Title: &input.Title,
			Head:  &head,
			Base:  &base,
			Body:  &input.Description,
			Draft: &draft,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create pull request: %w", entities.ErrPullRequestFailed, err)
	}

	if len(input.Labels) > 0 {
		_, _, err = p.client.Issues.AddLabelsToIssue(ctx, p.owner, p.repo, pr.GetNumber(), input.Labels)
		if err != nil {
			return nil, fmt.Errorf(
				"%w: failed to label pull request #%d: %w", entities.ErrPullRequestFailed, pr.GetNumber(), err,
			)
		}
	}

	return &entities.PullRequest{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		URL:    pr.GetHTMLURL(),
		Status: pr.GetState(),
	}, nil
}

func isNotFound(resp *gh.Response, err error) bool {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return true
	}
	var ghErr *gh.ErrorResponse
	return errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound
}
