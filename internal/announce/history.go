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
	"regexp"
	"strconv"
	"strings"
)

// announcementPrefix matches the start of a text produced by FormatPosting.
// Only the prefix is parsed; the timeline rewrites URLs and may cut titles.
var announcementPrefix = regexp.MustCompile(`^pull request #(\d+) created in (\S+) `)

// ParseAnnouncement extracts the pull request number and repository from a
// posting text. ok is false for anything FormatPosting did not produce.
func ParseAnnouncement(text string) (sequence int, repository string, ok bool) {
	m := announcementPrefix.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, "", false
	}
	return n, m[2], true
}

// history is what the timeline says was already announced.
type history struct {
	texts map[string]bool

	// announced holds the numbers parsed from this repository's postings.
	announced map[int]bool
	highest   int
}

func newHistory(texts []string, repository string) *history {
	h := &history{
		texts:     make(map[string]bool, len(texts)),
		announced: make(map[int]bool),
	}
	for _, text := range texts {
		h.texts[text] = true

		n, repo, ok := ParseAnnouncement(text)
		if !ok || !strings.EqualFold(repo, repository) {
			continue
		}
		h.announced[n] = true
		if n > h.highest {
			h.highest = n
		}
	}
	return h
}

// contains reports whether p is on the timeline, either verbatim or as an
// announcement of the same pull request.
func (h *history) contains(p Posting) bool {
	if h == nil {
		return false
	}
	return h.texts[p.Text] || h.announced[p.Sequence]
}
