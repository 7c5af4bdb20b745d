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
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

func newGraphQLServer(t *testing.T, status int, response interface{}, seen *graphQLRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.True(t, strings.HasPrefix(r.Header.Get("User-Agent"), "repo-tweet/"))

		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGraphQLClient_ListPullRequests(t *testing.T) {
	response := map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"nameWithOwner": "octocat/hello-world",
				"pullRequests": map[string]interface{}{
					"nodes": []interface{}{
						map[string]interface{}{
							"number":    9,
							"title":     "Add retries",
							"body":      "",
							"url":       "https://github.com/octocat/hello-world/pull/9",
							"createdAt": "2024-03-02T10:00:00Z",
							"author":    map[string]interface{}{"login": "alice"},
						},
						map[string]interface{}{
							"number":    8,
							"title":     "Fix typo",
							"body":      "small",
							"url":       "https://github.com/octocat/hello-world/pull/8",
							"createdAt": "2024-03-01T10:00:00Z",
							"author":    nil,
						},
						map[string]interface{}{
							"number":    7,
							"title":     "Initial import",
							"body":      "",
							"url":       "https://github.com/octocat/hello-world/pull/7",
							"createdAt": "2024-02-28T10:00:00Z",
							"author":    map[string]interface{}{"login": "bob"},
						},
					},
				},
			},
		},
	}

	t.Run("maps nodes newest first", func(t *testing.T) {
		var seen graphQLRequest
		server := newGraphQLServer(t, http.StatusOK, response, &seen)
		client := NewGraphQLClient("test-token", server.URL)

		prs, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{PageSize: 5})
		require.NoError(t, err)
		require.Len(t, prs, 3)

		assert.Equal(t, 9, prs[0].Number)
		assert.Equal(t, "octocat/hello-world", prs[0].Repository)
		assert.Equal(t, "Add retries", prs[0].Title)
		assert.Equal(t, "https://github.com/octocat/hello-world/pull/9", prs[0].URL)
		assert.Equal(t, "alice", prs[0].Author)
		assert.Equal(t, 2024, prs[0].CreatedAt.Year())
		assert.Empty(t, prs[1].Author, "null author maps to empty login")
		assert.Equal(t, 7, prs[2].Number)

		assert.Contains(t, seen.Query, "pullRequests(first: $first")
		assert.Contains(t, seen.Query, "CREATED_AT")
		assert.EqualValues(t, 5, seen.Variables["first"])
		assert.Equal(t, "octocat", seen.Variables["owner"])
		assert.Equal(t, "hello-world", seen.Variables["repo"])
	})

	t.Run("filters by since", func(t *testing.T) {
		server := newGraphQLServer(t, http.StatusOK, response, nil)
		client := NewGraphQLClient("test-token", server.URL)

		prs, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{Since: 7})
		require.NoError(t, err)
		require.Len(t, prs, 2)
		assert.Equal(t, 9, prs[0].Number)
		assert.Equal(t, 8, prs[1].Number)
	})

	t.Run("empty repository", func(t *testing.T) {
		empty := map[string]interface{}{
			"data": map[string]interface{}{
				"repository": map[string]interface{}{
					"nameWithOwner": "octocat/empty",
					"pullRequests":  map[string]interface{}{"nodes": []interface{}{}},
				},
			},
		}
		server := newGraphQLServer(t, http.StatusOK, empty, nil)
		client := NewGraphQLClient("test-token", server.URL)

		prs, err := client.ListPullRequests(context.Background(), "octocat", "empty", FetchOptions{})
		require.NoError(t, err)
		assert.Empty(t, prs)
	})
}

func TestGraphQLClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response interface{}
		want     error
	}{
		{
			name:   "repository not found",
			status: http.StatusOK,
			response: map[string]interface{}{
				"data": map[string]interface{}{"repository": nil},
				"errors": []interface{}{
					map[string]interface{}{"message": "Could not resolve to a Repository with the name 'octocat/nope'."},
				},
			},
			want: rterrors.ErrRepoNotFound,
		},
		{
			name:     "bad credentials",
			status:   http.StatusUnauthorized,
			response: map[string]interface{}{"message": "Bad credentials"},
			want:     rterrors.ErrInvalidToken,
		},
		{
			name:     "rate limited",
			status:   http.StatusTooManyRequests,
			response: map[string]interface{}{"message": "API rate limit exceeded"},
			want:     rterrors.ErrRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newGraphQLServer(t, tt.status, tt.response, nil)
			client := NewGraphQLClient("test-token", server.URL)

			_, err := client.ListPullRequests(context.Background(), "octocat", "nope", FetchOptions{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestGraphQLClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewGraphQLClient("test-token", url)
	_, err := client.ListPullRequests(context.Background(), "octocat", "hello-world", FetchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, rterrors.ErrNetworkFailure)
}
