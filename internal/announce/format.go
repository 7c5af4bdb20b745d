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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirseerhq/repo-tweet/internal/github"
)

// MaxPostingLength is the longest text the timeline accepts, in characters.
const MaxPostingLength = 280

const ellipsis = "…"

// FormatPosting renders the announcement for pr. The text is
//
//	pull request #<n> created in <repo> "<title>" <url>
//
// and is deterministic, which the timeline fallback relies on. Titles that
// would push the text past MaxPostingLength are cut and end in an ellipsis.
func FormatPosting(pr github.PullRequest) Posting {
	title := strings.Join(strings.Fields(pr.Title), " ")
	text := render(pr, title)

	if over := utf8.RuneCountInString(text) - MaxPostingLength; over > 0 {
		runes := []rune(title)
		keep := len(runes) - over - utf8.RuneCountInString(ellipsis)
		if keep < 0 {
			keep = 0
		}
		text = render(pr, string(runes[:keep])+ellipsis)
	}

	return Posting{
		Sequence:   pr.Number,
		Repository: pr.Repository,
		URL:        pr.URL,
		Text:       text,
	}
}

func render(pr github.PullRequest, title string) string {
	return fmt.Sprintf("pull request #%d created in %s \"%s\" %s", pr.Number, pr.Repository, title, pr.URL)
}
