// internal/github/client.go
package github

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"scm-collector/internal/model"
	"scm-collector/internal/repourl"
)

const perPage = 100

// Client is a wrapper around the go-github client that talks to any
// configured host (github.com or an enterprise install) with per-host credentials.
type Client struct {
	logger          *slog.Logger
	firstRunHistory time.Duration
	retryInterval   time.Duration
	now             func() time.Time

	// baseURL, when set, replaces the API endpoint for every host.
	baseURL string
}

// NewClient creates a Client. firstRunHistory bounds how far back commits
// and pull requests are paged for a repository that was never synced.
func NewClient(logger *slog.Logger, firstRunHistory time.Duration) *Client {
	return &Client{
		logger:          logger,
		firstRunHistory: firstRunHistory,
		retryInterval:   500 * time.Millisecond,
		now:             time.Now,
	}
}

// clientFor builds an authenticated go-github client for the host that serves repoURL.
func (c *Client) clientFor(repoURL string, creds model.Credentials) (*github.Client, error) {
	var hc *http.Client
	switch {
	case creds.Username != "":
		hc = (&github.BasicAuthTransport{Username: creds.Username, Password: creds.Password}).Client()
	case creds.Password != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Password})
		hc = oauth2.NewClient(context.Background(), ts)
	}
	gh := github.NewClient(hc)

	base := c.baseURL
	if base == "" {
		u, err := repourl.Parse(repoURL)
		if err != nil {
			return nil, err
		}
		host := strings.ToLower(u.Hostname())
		if host != "github.com" && host != "www.github.com" {
			scheme := u.Scheme
			if scheme != "http" {
				scheme = "https"
			}
			base = scheme + "://" + u.Host
		}
	}
	if base == "" {
		return gh, nil
	}
	return gh.WithEnterpriseURLs(base, base)
}

// since returns the oldest point in time worth fetching for repo.
func (c *Client) since(repo model.Repository, firstRun bool) time.Time {
	if firstRun || !repo.LastUpdateTime.Valid {
		return c.now().Add(-c.firstRunHistory)
	}
	return repo.LastUpdateTime.Time
}

// commitsSince bounds the commit listing by commit date. Commit dates are set
// by the author, not by the push, so later runs reach firstRunHistory behind
// the last update time and rely on the recorded head to stop early.
func (c *Client) commitsSince(repo model.Repository, firstRun bool) time.Time {
	if firstRun || !repo.LastUpdateTime.Valid {
		return c.now().Add(-c.firstRunHistory)
	}
	return repo.LastUpdateTime.Time.Add(-c.firstRunHistory)
}

// FetchCommits lists the commits on the repository's tracked branch, most recent first.
// On a first run it pages back firstRunHistory. Later runs stop at the recorded
// head revision, which is not included in the result.
func (c *Client) FetchCommits(ctx context.Context, repo model.Repository, firstRun bool, creds model.Credentials) ([]model.Commit, error) {
	owner, name, err := repourl.OwnerRepo(repo.URL)
	if err != nil {
		return nil, err
	}
	gh, err := c.clientFor(repo.URL, creds)
	if err != nil {
		return nil, err
	}

	opts := &github.CommitsListOptions{
		SHA:   repo.Branch,
		Since: c.commitsSince(repo, firstRun),
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	var allCommits []model.Commit
	for {
		c.logger.Debug("Fetching commits page", "owner", owner, "repo", name, "branch", repo.Branch, "page", opts.Page)

		var (
			commits []*github.RepositoryCommit
			resp    *github.Response
		)
		err := c.withRetry(ctx, "list commits", func() error {
			var err error
			commits, resp, err = gh.Repositories.ListCommits(ctx, owner, name, opts)
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, commit := range commits {
			if !firstRun && repo.LastUpdateCommit != "" && commit.GetSHA() == repo.LastUpdateCommit {
				c.logger.Debug("Reached recorded head", "owner", owner, "repo", name, "sha", repo.LastUpdateCommit)
				return allCommits, nil
			}
			allCommits = append(allCommits, toInternalCommit(commit))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allCommits, nil
}

// FetchPullRequests lists pull requests against the tracked branch in the given state,
// stopping once it pages past pull requests that were last updated before the cut-off.
func (c *Client) FetchPullRequests(ctx context.Context, repo model.Repository, state string, creds model.Credentials) ([]model.PullRequest, error) {
	owner, name, err := repourl.OwnerRepo(repo.URL)
	if err != nil {
		return nil, err
	}
	gh, err := c.clientFor(repo.URL, creds)
	if err != nil {
		return nil, err
	}

	cutoff := c.since(repo, !repo.LastUpdateTime.Valid)
	opts := &github.PullRequestListOptions{
		State:     state,
		Base:      repo.Branch,
		Sort:      "updated",
		Direction: "desc",
		ListOptions: github.ListOptions{
			PerPage: perPage,
		},
	}

	var all []model.PullRequest
	for {
		c.logger.Debug("Fetching pull requests page", "owner", owner, "repo", name, "state", state, "page", opts.Page)

		var (
			pulls []*github.PullRequest
			resp  *github.Response
		)
		err := c.withRetry(ctx, "list pull requests", func() error {
			var err error
			pulls, resp, err = gh.PullRequests.List(ctx, owner, name, opts)
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, pr := range pulls {
			if pr.GetUpdatedAt().Time.Before(cutoff) {
				return all, nil
			}
			all = append(all, toInternalPullRequest(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// toInternalCommit translates a github.RepositoryCommit object to our internal model.Commit.
func toInternalCommit(c *github.RepositoryCommit) model.Commit {
	return model.Commit{
		SHA:         c.GetSHA(),
		AuthorName:  c.GetCommit().GetAuthor().GetName(),
		AuthorEmail: c.GetCommit().GetAuthor().GetEmail(),
		Message:     c.GetCommit().GetMessage(),
		URL:         c.GetHTMLURL(),
		CommitDate:  c.GetCommit().GetAuthor().GetDate().Time,
	}
}

func toInternalPullRequest(pr *github.PullRequest) model.PullRequest {
	state := pr.GetState()
	if pr.MergedAt != nil {
		state = "merged"
	}
	return model.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		State:     state,
		Author:    pr.GetUser().GetLogin(),
		URL:       pr.GetHTMLURL(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
		MergedAt:  toNullTime(pr.MergedAt),
		ClosedAt:  toNullTime(pr.ClosedAt),
	}
}

// toNullTime is a helper to convert an optional github.Timestamp to a sql.NullTime.
func toNullTime(ts *github.Timestamp) sql.NullTime {
	if ts == nil || ts.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: ts.Time, Valid: true}
}
