package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// issuesService is the slice of the GitHub API the escalator needs.
type issuesService interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// GitHubEscalator opens an issue in the configured repository for each module
// that needs review.
type GitHubEscalator struct {
	issues issuesService
	owner  string
	repo   string
	logger *zap.Logger
}

// NewGitHubEscalator creates an escalator authenticated with token.
func NewGitHubEscalator(ctx context.Context, owner, repo, token string, logger *zap.Logger) (*GitHubEscalator, error) {
	if owner == "" || repo == "" {
		return nil, errors.New("github owner and repo are required")
	}
	if token == "" {
		return nil, errors.New("github token is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	return &GitHubEscalator{issues: client.Issues, owner: owner, repo: repo, logger: logger}, nil
}

// Escalate opens a review issue for the module.
func (e *GitHubEscalator) Escalate(ctx context.Context, module string, issues []string) error {
	title := fmt.Sprintf("Validation failures in module %q", module)
	body := summary(module, issues)
	labels := []string{"validation", "needs-review"}

	issue, _, err := e.issues.Create(ctx, e.owner, e.repo, &github.IssueRequest{
		Title:  &title,
		Body:   &body,
		Labels: &labels,
	})
	if err != nil {
		return fmt.Errorf("create review issue for %s: %w", module, err)
	}

	e.logger.Info("opened review issue",
		zap.String("module", module),
		zap.Int("issue_number", issue.GetNumber()),
		zap.String("url", issue.GetHTMLURL()),
	)
	return nil
}
