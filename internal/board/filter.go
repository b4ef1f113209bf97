package board

import (
	"strconv"
	"strings"
)

// SearchKey is the lowercased form a pull request is matched against.
func SearchKey(pr PullRequest) string {
	return strings.ToLower("#" + strconv.Itoa(pr.ID) + " - " + pr.Title)
}

// Project returns the groups visible under query. A group whose repository
// name contains the query is kept whole; otherwise only matching pull
// requests survive and groups left empty are dropped. Matching is
// case-insensitive and whitespace is matched literally. The input is never
// modified.
func Project(groups []Group, query string) []Group {
	if query == "" {
		return groups
	}
	q := strings.ToLower(query)

	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Repo), q) {
			out = append(out, g)
			continue
		}

		var matched []PullRequest
		for _, pr := range g.PRs {
			if strings.Contains(SearchKey(pr), q) {
				matched = append(matched, pr)
			}
		}
		if len(matched) > 0 {
			out = append(out, Group{Repo: g.Repo, PRs: matched})
		}
	}
	return out
}
