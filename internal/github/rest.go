// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	clog "github.com/charmbracelet/log"
	gh "github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"

	"github.com/sirseerhq/repo-tweet/internal/apierror"
	"github.com/sirseerhq/repo-tweet/internal/transport"
	"github.com/sirseerhq/repo-tweet/pkg/version"
)

// RESTClient lists pull requests through the GitHub REST API.
type RESTClient struct {
	client    *gh.Client
	inspector apierror.Inspector
	log       *clog.Logger
}

var _ Client = (*RESTClient)(nil)

// NewRESTClient creates a client for the REST API at endpoint. An empty
// token sends unauthenticated requests, which work for public repositories.
func NewRESTClient(ctx context.Context, token, endpoint string) (*RESTClient, error) {
	httpClient := transport.NewClient("")
	if token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}
	client := gh.NewClient(httpClient)

	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	baseURL, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API endpoint %q: %w", endpoint, err)
	}
	client.BaseURL = baseURL
	client.UserAgent = version.UserAgent()

	return &RESTClient{
		client:    client,
		inspector: apierror.NewInspector(),
		log:       clog.Default().WithPrefix("github"),
	}, nil
}

// ListPullRequests implements Client.
func (c *RESTClient) ListPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) ([]PullRequest, error) {
	c.log.Debug("Listing pull requests", "api", "rest", "repo", owner+"/"+repo, "pageSize", opts.PageLimit(), "since", opts.Since)

	prs, _, err := c.client.PullRequests.List(ctx, owner, repo, &gh.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: opts.PageLimit()},
	})
	if err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	out := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		fullName := pr.GetBase().GetRepo().GetFullName()
		if fullName == "" {
			fullName = owner + "/" + repo
		}
		out = append(out, PullRequest{
			Number:     pr.GetNumber(),
			Repository: fullName,
			Title:      pr.GetTitle(),
			Body:       pr.GetBody(),
			URL:        pr.GetHTMLURL(),
			Author:     pr.GetUser().GetLogin(),
			CreatedAt:  pr.GetCreatedAt().Time,
		})
	}

	c.log.Debug("Listed pull requests", "count", len(out))
	return newestFirst(out, opts.Since), nil
}

// mapError turns go-github's typed errors into StatusErrors before the
// shared classification.
func (c *RESTClient) mapError(err error, owner, repo string) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return mapError(c.inspector, apierror.NewStatusError("github", 429, []byte(err.Error())), owner, repo)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return mapError(c.inspector, apierror.NewStatusError("github", respErr.Response.StatusCode, []byte(respErr.Message)), owner, repo)
	}

	return mapError(c.inspector, err, owner, repo)
}
