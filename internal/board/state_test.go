package board

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *State {
	s := NewState()
	s.ApplyRefresh("a", []PullRequest{pr("a", 1, "PR#1"), pr("a", 2, "PR#2")}, nil)
	s.ApplyRefresh("b", []PullRequest{pr("b", 3, "PR#3")}, []PullRequest{pr("b", 4, "mine")})
	return s
}

func TestState_ScenarioA(t *testing.T) {
	s := seeded()

	rows := s.VisibleRows()
	require.Len(t, rows, 5)
	assert.Equal(t, RowLeaf, rows[2].Kind)
	assert.Equal(t, 2, rows[2].PR.ID)
	assert.Equal(t, RowHeader, rows[3].Kind)
	assert.Equal(t, "b", rows[3].Repo)
}

func TestState_ScenarioB(t *testing.T) {
	s := seeded()
	s.SetFilterQuery("PR#3")

	rows := s.VisibleRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "b", rows[0].Repo)
	assert.Equal(t, 3, rows[1].PR.ID)
	assert.Equal(t, "PR#3", s.FilterQuery())

	s.ClearFilterQuery()
	assert.Len(t, s.VisibleRows(), 5)
}

func TestState_ScenarioC(t *testing.T) {
	s := seeded()
	s.ApplyRefresh("a", nil, nil)

	rows := s.VisibleRows()
	assert.Len(t, rows, 2)
	for _, g := range s.Groups(PanelReview) {
		assert.NotEqual(t, "a", g.Repo)
	}
}

func TestState_ScenarioD(t *testing.T) {
	aReview := []PullRequest{pr("a", 1, "one"), pr("a", 2, "two")}
	bReview := []PullRequest{pr("b", 3, "three")}
	bAssigned := []PullRequest{pr("b", 4, "four")}

	ab := NewState()
	ab.ApplyRefresh("a", aReview, nil)
	ab.ApplyRefresh("b", bReview, bAssigned)

	ba := NewState()
	ba.ApplyRefresh("b", bReview, bAssigned)
	ba.ApplyRefresh("a", aReview, nil)

	for _, p := range Panels {
		assert.Equal(t, ab.Groups(p), ba.Groups(p), "panel %s", p)
		assert.Equal(t, ab.PanelRows(p), ba.PanelRows(p), "panel %s", p)
	}
}

func TestState_ConcurrentRefreshes(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo := fmt.Sprintf("repo-%02d", i)
			s.SetLoading(repo)
			s.ApplyRefresh(repo, []PullRequest{pr(repo, i, "x")}, nil)
		}()
		// UI loop keeps reading and navigating meanwhile
		s.ScrollDown()
		_ = s.Snapshot()
	}
	wg.Wait()

	assert.Len(t, s.Groups(PanelReview), 20)
	assert.Equal(t, Loaded, s.CurrentLoadingState().Kind)
}

func TestState_PanelsHaveIndependentCursors(t *testing.T) {
	s := seeded()
	s.ScrollDown()
	s.ScrollDown()
	require.Equal(t, 2, s.CurrentSelection().PR.ID)

	assert.Equal(t, PanelAssigned, s.NextPanel())
	sel := s.CurrentSelection()
	assert.Equal(t, RowHeader, sel.Kind)
	assert.Nil(t, s.Snapshot().Details.PR)

	s.ScrollDown()
	assert.Equal(t, 4, s.CurrentSelection().PR.ID)
	assert.Equal(t, 4, s.Snapshot().Details.PR.ID)

	assert.Equal(t, PanelReview, s.NextPanel())
	assert.Equal(t, 2, s.CurrentSelection().PR.ID)
	assert.Equal(t, 2, s.Snapshot().Details.PR.ID)
}

func TestState_DetailsFollowNavigation(t *testing.T) {
	s := seeded()
	assert.Nil(t, s.Snapshot().Details.PR)

	s.ScrollDown()
	assert.Equal(t, Key{Repo: "a", ID: 1}, s.Snapshot().Details.PR.Key())

	s.NextRepository()
	assert.Nil(t, s.Snapshot().Details.PR)

	s.JumpDown()
	assert.Equal(t, 3, s.Snapshot().Details.PR.ID)

	s.PreviousRepository()
	s.JumpUp()
	assert.Nil(t, s.Snapshot().Details.PR)
}

func TestState_RefreshKeepsDetailsScrollForSamePR(t *testing.T) {
	s := NewState()
	body := longBody(30)
	s.ApplyRefresh("a", []PullRequest{{ID: 1, Title: "one", Body: body}}, nil)
	s.SetDetailsViewport(80, 10)
	s.ScrollDown()
	s.ScrollDetailsDown()
	s.ScrollDetailsDown()
	require.Equal(t, 2*DetailsScrollStep, s.Snapshot().Details.Scroll)

	s.ApplyRefresh("a", []PullRequest{{ID: 1, Title: "one v2", Body: body}}, nil)
	snap := s.Snapshot()
	assert.Equal(t, 2*DetailsScrollStep, snap.Details.Scroll)
	assert.Equal(t, "one v2", snap.Details.PR.Title)

	s.ScrollDetailsUp()
	s.ScrollDetailsUp()
	s.ScrollDetailsUp()
	assert.Equal(t, 0, s.Snapshot().Details.Scroll)
}

func TestState_RefreshShrinkClampsAndResyncs(t *testing.T) {
	s := seeded()
	for range 4 {
		s.ScrollDown()
	}
	require.Equal(t, 3, s.CurrentSelection().PR.ID)

	s.ApplyRefresh("b", nil, nil)

	sel := s.CurrentSelection()
	assert.Equal(t, 2, sel.Index)
	assert.Equal(t, 2, sel.PR.ID)
	assert.Equal(t, 2, s.Snapshot().Details.PR.ID)
}

func TestState_LoadingTransitions(t *testing.T) {
	s := NewState()
	assert.Equal(t, Idle, s.CurrentLoadingState().Kind)

	s.SetLoading("a")
	assert.Equal(t, LoadingState{Kind: Loading, Repo: "a"}, s.CurrentLoadingState())

	s.SetError("a", errors.New("boom"))
	st := s.CurrentLoadingState()
	assert.Equal(t, Failed, st.Kind)
	assert.Equal(t, "boom", st.Message)
	assert.Equal(t, "error: boom", st.String())

	// errors are not terminal
	s.SetLoading("a")
	s.ApplyRefresh("a", []PullRequest{pr("a", 1, "x")}, nil)
	assert.Equal(t, Loaded, s.CurrentLoadingState().Kind)
}

func TestState_RefreshingCountsOpenRefreshes(t *testing.T) {
	s := NewState()

	s.SetLoading("a")
	s.SetLoading("b")
	s.SetLoading("c")
	assert.Equal(t, 3, s.Snapshot().Refreshing)

	s.ApplyRefresh("a", []PullRequest{pr("a", 1, "x")}, nil)
	snap := s.Snapshot()
	assert.Equal(t, Loaded, snap.Loading.Kind)
	assert.Equal(t, 2, snap.Refreshing)

	s.SetError("b", errors.New("boom"))
	s.ApplyRefresh("c", nil, nil)
	assert.Equal(t, 0, s.Snapshot().Refreshing)

	// a commit without a matching start never goes negative
	s.ApplyRefresh("d", nil, nil)
	assert.Equal(t, 0, s.Snapshot().Refreshing)
}

func TestState_ErrorLeavesDataUntouched(t *testing.T) {
	s := seeded()
	before := s.Groups(PanelReview)

	s.SetError("a", errors.New("rate limited"))

	assert.Equal(t, before, s.Groups(PanelReview))
}

func TestState_FilterAppliesToBothPanels(t *testing.T) {
	s := seeded()
	s.SetFilterQuery("mine")

	assert.Empty(t, s.PanelRows(PanelReview))
	assert.Len(t, s.PanelRows(PanelAssigned), 2)

	// a refresh keeps the query applied
	s.ApplyRefresh("c", []PullRequest{pr("c", 5, "mine too")}, nil)
	assert.Len(t, s.PanelRows(PanelReview), 2)
}

func TestState_ProfileCache(t *testing.T) {
	s := seeded()
	assert.Equal(t, []string{"alice", "bob"}, s.MissingProfiles([]string{"alice", "bob", "alice", ""}))

	s.CacheProfile(Profile{Name: "Alice A", Login: "alice"})
	s.CacheProfile(Profile{Name: "ignored"})

	p, ok := s.Profile("alice")
	require.True(t, ok)
	assert.Equal(t, "Alice A (alice)", p.String())
	assert.Equal(t, []string{"bob"}, s.MissingProfiles([]string{"alice", "bob"}))
}

func TestState_SnapshotResolvesAuthor(t *testing.T) {
	s := NewState()
	s.ApplyRefresh("a", []PullRequest{{ID: 1, Author: "carol"}}, nil)
	s.ScrollDown()

	assert.Equal(t, "carol", s.Snapshot().Details.Author.String())

	s.CacheProfile(Profile{Name: "Carol C", Login: "carol"})
	assert.Equal(t, "Carol C (carol)", s.Snapshot().Details.Author.String())
}
