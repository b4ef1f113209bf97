package board

import "slices"

// Store maps repository names to their pull requests. Repositories are kept
// in lexicographic order; pull requests keep the order they were fetched in.
type Store struct {
	repos []string
	prs   map[string][]PullRequest
}

func NewStore() *Store {
	return &Store{prs: make(map[string][]PullRequest)}
}

// Replace swaps the whole group for repo. An empty list removes the group.
// Duplicate ids within prs keep their first occurrence.
func (s *Store) Replace(repo string, prs []PullRequest) {
	if len(prs) == 0 {
		s.remove(repo)
		return
	}

	seen := make(map[int]bool, len(prs))
	group := make([]PullRequest, 0, len(prs))
	for _, pr := range prs {
		if seen[pr.ID] {
			continue
		}
		seen[pr.ID] = true
		pr.Repo = repo
		group = append(group, pr)
	}

	if _, ok := s.prs[repo]; !ok {
		i, _ := slices.BinarySearch(s.repos, repo)
		s.repos = slices.Insert(s.repos, i, repo)
	}
	s.prs[repo] = group
}

func (s *Store) remove(repo string) {
	if _, ok := s.prs[repo]; !ok {
		return
	}
	delete(s.prs, repo)
	if i, found := slices.BinarySearch(s.repos, repo); found {
		s.repos = slices.Delete(s.repos, i, i+1)
	}
}

// Groups returns all groups in repository order. Group slices are shared
// with the store and must be treated as read-only.
func (s *Store) Groups() []Group {
	groups := make([]Group, 0, len(s.repos))
	for _, repo := range s.repos {
		groups = append(groups, Group{Repo: repo, PRs: s.prs[repo]})
	}
	return groups
}

// PRCount returns the number of pull requests across all groups.
func (s *Store) PRCount() int {
	n := 0
	for _, prs := range s.prs {
		n += len(prs)
	}
	return n
}
