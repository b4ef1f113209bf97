package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_EmptyQueryIsIdentity(t *testing.T) {
	groups := testStore().Groups()

	assert.Equal(t, groups, Project(groups, ""))
}

func TestProject_WhitespaceIsMatchedLiterally(t *testing.T) {
	groups := testStore().Groups()

	// every search key contains " - "
	assert.Equal(t, groups, Project(groups, " "))
	assert.Empty(t, Project(groups, "   "))
}

func TestProject_MatchesSinglePR(t *testing.T) {
	groups := testStore().Groups()

	got := Project(groups, "PR#3")

	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Repo)
	require.Len(t, got[0].PRs, 1)
	assert.Equal(t, 3, got[0].PRs[0].ID)
}

func TestProject_RepoNameMatchKeepsWholeGroup(t *testing.T) {
	s := NewStore()
	s.Replace("acme/widgets", []PullRequest{pr("acme/widgets", 1, "Fix"), pr("acme/widgets", 2, "Add")})
	s.Replace("acme/gadgets", []PullRequest{pr("acme/gadgets", 3, "Widgets support")})
	s.Replace("other/thing", []PullRequest{pr("other/thing", 4, "Unrelated")})

	got := Project(s.Groups(), "WIDGETS")

	require.Len(t, got, 2)
	// acme/gadgets sorts first and matches on title only
	assert.Equal(t, "acme/gadgets", got[0].Repo)
	assert.Len(t, got[0].PRs, 1)
	assert.Equal(t, "acme/widgets", got[1].Repo)
	prs, _ := groupOf(s, "acme/widgets")
	assert.Equal(t, prs, got[1].PRs)
}

func TestProject_MatchesNumberPrefix(t *testing.T) {
	s := NewStore()
	s.Replace("a", []PullRequest{pr("a", 12, "x"), pr("a", 120, "y"), pr("a", 3, "z")})

	got := Project(s.Groups(), "#12")

	require.Len(t, got, 1)
	assert.Len(t, got[0].PRs, 2)
}

func TestProject_OrderIsSubsequence(t *testing.T) {
	s := NewStore()
	for _, repo := range []string{"a/1", "b/2", "c/3", "d/4"} {
		s.Replace(repo, []PullRequest{pr(repo, 1, "common"), pr(repo, 2, "only-"+repo)})
	}
	all := repoNames(s)

	got := Project(s.Groups(), "only-")

	last := -1
	for _, g := range got {
		idx := -1
		for i, r := range all {
			if r == g.Repo {
				idx = i
			}
		}
		require.Greater(t, idx, last, "group %s out of order", g.Repo)
		last = idx
	}
}

func TestProject_DoesNotMutateStore(t *testing.T) {
	s := testStore()
	before := s.Groups()

	_ = Project(s.Groups(), "PR#1")

	assert.Equal(t, before, s.Groups())
}

func TestProject_NoMatch(t *testing.T) {
	assert.Empty(t, Project(testStore().Groups(), "nothing matches"))
}

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "#42 - fix the thing", SearchKey(PullRequest{ID: 42, Title: "Fix The Thing"}))
}
