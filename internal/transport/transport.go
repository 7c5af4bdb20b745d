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

// Package transport provides the HTTP client both services are reached
// through. Every request carries the tool's User-Agent and every response
// body is capped, so a misbehaving endpoint cannot exhaust memory.
package transport

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirseerhq/repo-tweet/pkg/version"
)

// MaxResponseSize bounds how much of a single API response is read. A page
// of pull requests or a timeline of recent postings is far below it.
const MaxResponseSize = 10 * 1024 * 1024

// ErrResponseTooLarge is returned by reads past the response size cap.
var ErrResponseTooLarge = errors.New("response too large")

// Transport decorates a base RoundTripper with an optional bearer token, the
// User-Agent and the response size cap.
type Transport struct {
	// Token is sent as a bearer token when set.
	Token string
	// Limit overrides MaxResponseSize when positive.
	Limit int64
	// Base is the underlying transport; nil uses a pooled default.
	Base http.RoundTripper
}

var defaultBase http.RoundTripper = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        10,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	ForceAttemptHTTP2:   true,
}

// NewClient returns an HTTP client sending token as a bearer credential.
// An empty token sends no Authorization header, leaving it to outer layers
// such as OAuth signing.
func NewClient(token string) *http.Client {
	return &http.Client{Transport: &Transport{Token: token}}
}

// Wrap returns a copy of c whose transport is decorated by Transport. The
// timeout, jar and redirect policy of c are kept.
func Wrap(c *http.Client) *http.Client {
	if c == nil {
		return NewClient("")
	}
	if _, ok := c.Transport.(*Transport); ok {
		return c
	}
	wrapped := *c
	wrapped.Transport = &Transport{Base: c.Transport}
	return &wrapped
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	base := t.Base
	if base == nil {
		base = defaultBase
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		limit := t.Limit
		if limit <= 0 {
			limit = MaxResponseSize
		}
		resp.Body = &cappedBody{ReadCloser: resp.Body, remaining: limit, limit: limit}
	}
	return resp, nil
}

// cappedBody fails reads once more than limit bytes would be returned. A
// body of exactly limit bytes still ends in io.EOF.
type cappedBody struct {
	io.ReadCloser
	remaining int64
	limit     int64
}

func (b *cappedBody) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		var extra [1]byte
		n, err := b.ReadCloser.Read(extra[:])
		if n > 0 {
			return 0, fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, b.limit)
		}
		return 0, err
	}

	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.ReadCloser.Read(p)
	b.remaining -= int64(n)
	return n, err
}
