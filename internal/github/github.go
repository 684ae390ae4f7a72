package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/eekwong/cody-code-review/internal/config"
)

const defaultAPIURL = "https://api.github.com"

// PullRequest holds the pull request metadata the review needs.
type PullRequest struct {
	Number int
	Title  string
	Body   string
}

// ChangedFile is one file touched by a pull request. Patch is empty when the
// API omits it (binary files, very large diffs).
type ChangedFile struct {
	Filename string
	Patch    string
}

// Comment is a created issue comment.
type Comment struct {
	ID  int64
	URL string
}

// Client wraps the go-github client for the three calls this tool makes.
type Client struct {
	gh *gogithub.Client
}

// NewClient builds a Client authenticated per cfg (token or GitHub App) and
// pointed at cfg.APIURL.
func NewClient(cfg config.Config) (*Client, error) {
	httpClient, err := newHTTPClient(cfg)
	if err != nil {
		return nil, err
	}

	gh := gogithub.NewClient(httpClient)
	if !cfg.App.Enabled() {
		gh = gh.WithAuthToken(cfg.Token)
	}

	if cfg.APIURL != defaultAPIURL {
		base, err := url.Parse(cfg.APIURL + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing API URL: %w", err)
		}
		gh.BaseURL = base
	}

	return &Client{gh: gh}, nil
}

// PullRequest fetches the title and body of a pull request.
func (c *Client) PullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request #%d: %w", number, err)
	}
	return &PullRequest{
		Number: number,
		Title:  pr.GetTitle(),
		Body:   pr.GetBody(),
	}, nil
}

// ChangedFiles fetches every file changed in a pull request, following
// pagination so large PRs are not silently truncated.
func (c *Client) ChangedFiles(ctx context.Context, owner, repo string, number int) ([]ChangedFile, error) {
	var changed []ChangedFile
	opts := &gogithub.ListOptions{PerPage: 100}

	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing files for pull request #%d: %w", number, err)
		}

		for _, f := range files {
			changed = append(changed, ChangedFile{
				Filename: f.GetFilename(),
				Patch:    f.GetPatch(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return changed, nil
}

// CreateComment posts body as an issue comment on the pull request. Success
// is strictly HTTP 201; anything else is an error.
func (c *Client) CreateComment(ctx context.Context, owner, repo string, number int, body string) (*Comment, error) {
	comment, resp, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gogithub.IssueComment{
		Body: gogithub.String(body),
	})
	if err != nil {
		return nil, fmt.Errorf("posting comment on pull request #%d: %w", number, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("posting comment on pull request #%d: unexpected status %d", number, resp.StatusCode)
	}
	return &Comment{
		ID:  comment.GetID(),
		URL: comment.GetHTMLURL(),
	}, nil
}
