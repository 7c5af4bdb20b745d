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
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/shurcooL/graphql"

	"github.com/sirseerhq/repo-tweet/internal/apierror"
	"github.com/sirseerhq/repo-tweet/internal/transport"
)

// GraphQLClient implements the Client interface using GitHub's GraphQL API.
// It asks for exactly the fields an announcement needs, so one query
// returns a full page regardless of pull request size.
type GraphQLClient struct {
	client    *graphql.Client
	inspector apierror.Inspector
	log       *clog.Logger
}

var _ Client = (*GraphQLClient)(nil)

// NewGraphQLClient creates a client for the GraphQL API at endpoint. Requests
// go through the shared transport, which adds the token and caps responses.
func NewGraphQLClient(token string, endpoint string) *GraphQLClient {
	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, transport.NewClient(token)),
		inspector: apierror.NewInspector(),
		log:       clog.Default().WithPrefix("github"),
	}
}

type pullRequestNode struct {
	Number    graphql.Int
	Title     graphql.String
	Body      graphql.String
	URL       graphql.String
	CreatedAt time.Time
	Author    *struct {
		Login graphql.String
	}
}

// ListPullRequests implements Client.
func (c *GraphQLClient) ListPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) ([]PullRequest, error) {
	var query struct {
		Repository struct {
			NameWithOwner graphql.String
			PullRequests  struct {
				Nodes []pullRequestNode
			} `graphql:"pullRequests(first: $first, orderBy: {field: CREATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
		"first": graphql.Int(opts.PageLimit()),
	}

	c.log.Debug("Listing pull requests", "api", "graphql", "repo", owner+"/"+repo, "pageSize", opts.PageLimit(), "since", opts.Since)

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, mapError(c.inspector, err, owner, repo)
	}

	fullName := string(query.Repository.NameWithOwner)
	if fullName == "" {
		fullName = owner + "/" + repo
	}

	prs := make([]PullRequest, 0, len(query.Repository.PullRequests.Nodes))
	for _, node := range query.Repository.PullRequests.Nodes {
		prs = append(prs, node.toPullRequest(fullName))
	}

	c.log.Debug("Listed pull requests", "count", len(prs))
	return newestFirst(prs, opts.Since), nil
}

func (n pullRequestNode) toPullRequest(repository string) PullRequest {
	pr := PullRequest{
		Number:     int(n.Number),
		Repository: repository,
		Title:      string(n.Title),
		Body:       string(n.Body),
		URL:        string(n.URL),
		CreatedAt:  n.CreatedAt,
	}
	// Deleted accounts come back as a null author.
	if n.Author != nil {
		pr.Author = string(n.Author.Login)
	}
	return pr
}
