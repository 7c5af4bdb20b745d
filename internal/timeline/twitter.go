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

package timeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/dghubble/oauth1"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/sirseerhq/repo-tweet/internal/apierror"
	"github.com/sirseerhq/repo-tweet/internal/config"
	rterrors "github.com/sirseerhq/repo-tweet/internal/errors"
	"github.com/sirseerhq/repo-tweet/internal/transport"
)

const service = "twitter"

// TwitterSink authenticates against the Twitter API v2.
type TwitterSink struct {
	cfg       config.SinkConfig
	base      *http.Client
	inspector apierror.Inspector
	log       *clog.Logger
}

var _ Sink = (*TwitterSink)(nil)

// NewTwitterSink creates a sink for cfg. base is the HTTP client the
// authenticated clients are layered on, wrapped in the shared transport;
// nil uses the shared transport alone.
func NewTwitterSink(cfg config.SinkConfig, base *http.Client) *TwitterSink {
	return &TwitterSink{
		cfg:       cfg,
		base:      transport.Wrap(base),
		inspector: apierror.NewInspector(),
		log:       clog.Default().WithPrefix("timeline"),
	}
}

// Authenticate implements Sink.
func (s *TwitterSink) Authenticate(ctx context.Context) (Timeline, error) {
	switch {
	case s.cfg.APIKeys != nil:
		return s.authenticateUser(ctx, s.cfg.APIKeys)
	case s.cfg.BearerCredentials != nil:
		return s.authenticateApp(ctx, s.cfg.BearerCredentials)
	}
	return nil, fmt.Errorf("no bearer_credentials or api_keys configured: %w", rterrors.ErrSinkAuth)
}

func (s *TwitterSink) authenticateApp(ctx context.Context, creds *config.BearerCredentials) (Timeline, error) {
	if creds.ConsumerKey == "" || creds.ConsumerSecret == "" {
		return nil, fmt.Errorf("bearer_credentials need consumer_key and consumer_secret: %w", rterrors.ErrSinkAuth)
	}

	s.log.Debug("Requesting bearer token", "url", s.cfg.TokenURL)

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.base)
	cc := &clientcredentials.Config{
		ClientID:     creds.ConsumerKey,
		ClientSecret: creds.ConsumerSecret,
		TokenURL:     s.cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	token, err := cc.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			err = apierror.NewStatusError(service, retrieveErr.Response.StatusCode, retrieveErr.Body)
		}
		return nil, s.authError(err)
	}

	return s.newTimeline(oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))), nil
}

func (s *TwitterSink) authenticateUser(ctx context.Context, keys *config.APIKeys) (Timeline, error) {
	if keys.ConsumerKey == "" || keys.ConsumerSecret == "" || keys.AccessToken == "" || keys.AccessTokenSecret == "" {
		return nil, fmt.Errorf("api_keys need consumer_key, consumer_secret, access_token and access_token_secret: %w", rterrors.ErrSinkAuth)
	}

	ctx = context.WithValue(ctx, oauth1.HTTPClient, s.base)
	client := oauth1.NewConfig(keys.ConsumerKey, keys.ConsumerSecret).
		Client(ctx, oauth1.NewToken(keys.AccessToken, keys.AccessTokenSecret))
	tl := s.newTimeline(client)

	// OAuth1 has no token exchange, so the keys are checked against the
	// account they belong to.
	var me userResponse
	if err := tl.do(ctx, http.MethodGet, "/2/users/me", nil, http.StatusOK, &me); err != nil {
		return nil, s.authError(err)
	}
	s.log.Debug("Authenticated", "user", me.Data.Username)

	return tl, nil
}

func (s *TwitterSink) authError(err error) error {
	if s.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to timeline (%v): %w", err, rterrors.ErrNetworkFailure)
	}
	return fmt.Errorf("timeline credentials rejected (%v): %w", err, rterrors.ErrSinkAuth)
}

func (s *TwitterSink) newTimeline(client *http.Client) *twitterTimeline {
	limit := s.cfg.TimelineLimit
	if limit <= 0 {
		limit = 100
	}
	return &twitterTimeline{
		client:    client,
		endpoint:  strings.TrimSuffix(s.cfg.APIEndpoint, "/"),
		limit:     limit,
		inspector: s.inspector,
		log:       s.log,
	}
}

type twitterTimeline struct {
	client    *http.Client
	endpoint  string
	limit     int
	inspector apierror.Inspector
	log       *clog.Logger
}

type userResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type tweetsResponse struct {
	Data []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type createRequest struct {
	Text string `json:"text"`
}

// ListRecentPostings implements Timeline.
func (t *twitterTimeline) ListRecentPostings(ctx context.Context, account string) ([]string, error) {
	account = strings.TrimPrefix(account, "@")

	var user userResponse
	if err := t.do(ctx, http.MethodGet, "/2/users/by/username/"+url.PathEscape(account), nil, http.StatusOK, &user); err != nil {
		return nil, t.readError(err, account)
	}
	// Unknown usernames come back as 200 with only an errors array.
	if user.Data.ID == "" {
		return nil, fmt.Errorf("account @%s: %w", account, rterrors.ErrAccountNotFound)
	}

	q := url.Values{}
	q.Set("max_results", strconv.Itoa(t.limit))

	var tweets tweetsResponse
	path := "/2/users/" + url.PathEscape(user.Data.ID) + "/tweets?" + q.Encode()
	if err := t.do(ctx, http.MethodGet, path, nil, http.StatusOK, &tweets); err != nil {
		return nil, t.readError(err, account)
	}

	texts := make([]string, 0, len(tweets.Data))
	for _, tw := range tweets.Data {
		texts = append(texts, tw.Text)
	}

	t.log.Debug("Read timeline", "account", account, "postings", len(texts))
	return texts, nil
}

// Post implements Timeline.
func (t *twitterTimeline) Post(ctx context.Context, text string) error {
	err := t.do(ctx, http.MethodPost, "/2/tweets", createRequest{Text: text}, http.StatusCreated, nil)
	switch {
	case err == nil:
		return nil
	case t.inspector.IsDuplicateError(err):
		return fmt.Errorf("%v: %w: %w", err, rterrors.ErrPostRejected, rterrors.ErrDuplicatePost)
	case t.inspector.IsRateLimitError(err):
		return fmt.Errorf("%v: %w: %w", err, rterrors.ErrPostRejected, rterrors.ErrRateLimit)
	case t.inspector.IsNetworkError(err):
		return fmt.Errorf("posting failed (%v): %w", err, rterrors.ErrNetworkFailure)
	}
	return fmt.Errorf("%v: %w", err, rterrors.ErrPostRejected)
}

func (t *twitterTimeline) readError(err error, account string) error {
	switch {
	case t.inspector.IsRateLimitError(err):
		return fmt.Errorf("reading @%s (%v): %w", account, err, rterrors.ErrRateLimit)
	case t.inspector.IsAuthError(err):
		return fmt.Errorf("reading @%s (%v): %w", account, err, rterrors.ErrSinkAuth)
	case t.inspector.IsNotFoundError(err):
		return fmt.Errorf("account @%s: %w", account, rterrors.ErrAccountNotFound)
	case t.inspector.IsNetworkError(err):
		return fmt.Errorf("reading @%s (%v): %w", account, err, rterrors.ErrNetworkFailure)
	}
	return fmt.Errorf("reading @%s: %w", account, err)
}

// do sends one JSON request and decodes the response into out. Any status
// other than want becomes an *apierror.StatusError.
func (t *twitterTimeline) do(ctx context.Context, method, path string, body interface{}, want int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != want {
		return apierror.NewStatusError(service, resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
