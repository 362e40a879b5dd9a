package entities

// PullRequestInput describes a bump proposal to open on the source-control host.
type PullRequestInput struct {
	SourceBranch string
	TargetBranch string
	Title        string
	Description  string
	Labels       []string
}

// PullRequest is an opened proposal as reported by the host.
type PullRequest struct {
	ID     int
	Title  string
	URL    string
	Status string
}
