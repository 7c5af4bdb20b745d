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

package announce

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/sirseerhq/repo-tweet/internal/github"
)

func TestFormatPosting(t *testing.T) {
	pr := github.PullRequest{
		Number:     42,
		Repository: "jfieger/repo-tweet",
		Title:      "Add  tweet\tformatting",
		URL:        "https://github.com/jfieger/repo-tweet/pull/42",
	}

	posting := FormatPosting(pr)

	assert.Equal(t, `pull request #42 created in jfieger/repo-tweet "Add tweet formatting" https://github.com/jfieger/repo-tweet/pull/42`, posting.Text)
	assert.Equal(t, 42, posting.Sequence)
	assert.Equal(t, "jfieger/repo-tweet", posting.Repository)
	assert.Equal(t, pr.URL, posting.URL)
	assert.Equal(t, posting, FormatPosting(pr), "formatting is deterministic")
}

func TestFormatPosting_TruncatesLongTitles(t *testing.T) {
	pr := github.PullRequest{
		Number:     7,
		Repository: "o/r",
		Title:      strings.Repeat("é", 400),
		URL:        "https://github.com/o/r/pull/7",
	}

	posting := FormatPosting(pr)

	assert.Equal(t, MaxPostingLength, utf8.RuneCountInString(posting.Text))
	assert.True(t, strings.HasSuffix(posting.Text, "…\" https://github.com/o/r/pull/7"))
	assert.True(t, strings.HasPrefix(posting.Text, "pull request #7 created in o/r \"éé"))
}

func TestFormatPosting_ShortTitleUntouched(t *testing.T) {
	pr := github.PullRequest{Number: 1, Repository: "o/r", Title: "Fix", URL: "u"}
	assert.NotContains(t, FormatPosting(pr).Text, "…")
}
