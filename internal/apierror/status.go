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

package apierror

import (
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// maxBodyInError bounds how much of a response body is kept in an error.
const maxBodyInError = 512

// StatusError is a non-2xx HTTP response from one of the APIs.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

// NewStatusError builds a StatusError, trimming the body to a readable size.
func NewStatusError(service string, code int, body []byte) *StatusError {
	b := strings.TrimSpace(string(body))
	if len(b) > maxBodyInError {
		cut := maxBodyInError
		for cut > 0 && !utf8.RuneStart(b[cut]) {
			cut--
		}
		b = b[:cut] + "..."
	}
	return &StatusError{Service: service, StatusCode: code, Body: b}
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d %s", e.Service, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: status %d %s: %s", e.Service, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsAuthError reports 401, and 403 responses that are not rate limits or
// duplicate-content rejections.
func (e *StatusError) IsAuthError() bool {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		return !e.IsRateLimitError() && !e.IsDuplicateError() && !e.isContentRejection()
	}
	return false
}

// IsNotFoundError reports 404 responses.
func (e *StatusError) IsNotFoundError() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimitError reports 429 responses and 403 responses carrying a rate
// limit message.
func (e *StatusError) IsRateLimitError() bool {
	if e.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return e.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(e.Body), "rate limit")
}

// IsDuplicateError reports a rejection of content that was already posted.
func (e *StatusError) IsDuplicateError() bool {
	if e.StatusCode != http.StatusForbidden && e.StatusCode != http.StatusConflict {
		return false
	}
	return strings.Contains(strings.ToLower(e.Body), "duplicate")
}

// isContentRejection covers 403s the timeline returns for a specific posting
// rather than for the credentials.
func (e *StatusError) isContentRejection() bool {
	body := strings.ToLower(e.Body)
	return strings.Contains(body, "not permitted to perform this action") ||
		strings.Contains(body, "too long")
}
