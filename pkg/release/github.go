package release

import (
	gocontext "context"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v60/github"
)

// ReleaseInfo is the subset of a GitHub release the status report shows.
type ReleaseInfo struct {
	Tag         string    `json:"tag"`
	Name        string    `json:"name,omitempty"`
	PublishedAt time.Time `json:"published_at,omitzero"`
	URL         string    `json:"url,omitempty"`
}

// ReleaseClient looks up releases for one GitHub repository.
type ReleaseClient struct {
	inner *gh.Client
	owner string
	repo  string
}

// NewReleaseClient creates a client for owner/repo. The token is optional
// for public repositories.
func NewReleaseClient(token, owner, repo string) (*ReleaseClient, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("github release client: owner and repo are required")
	}

	httpClient := http.DefaultClient
	if token != "" {
		httpClient = &http.Client{Transport: &tokenTransport{token: token}}
	}
	return &ReleaseClient{inner: gh.NewClient(httpClient), owner: owner, repo: repo}, nil
}

// Latest returns the most recent published release, or nil when the
// repository has none.
func (c *ReleaseClient) Latest(ctx gocontext.Context) (*ReleaseInfo, error) {
	rel, resp, err := c.inner.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("latest release for %s/%s: %w", c.owner, c.repo, err)
	}

	return &ReleaseInfo{
		Tag:         rel.GetTagName(),
		Name:        rel.GetName(),
		PublishedAt: rel.GetPublishedAt().Time,
		URL:         rel.GetHTMLURL(),
	}, nil
}

// tokenTransport adds Bearer token auth to HTTP requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}
