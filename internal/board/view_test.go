package board

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cursorOf(t *testing.T, v *View) int {
	t.Helper()
	c, ok := v.Cursor()
	require.True(t, ok, "cursor unset")
	return c
}

func TestView_CursorUnsetWhenEmpty(t *testing.T) {
	v := NewView()
	v.Recompute(NewStore())

	_, ok := v.Cursor()
	assert.False(t, ok)
	assert.Equal(t, RowOutOfBounds, v.Selection().Kind)

	// navigation on an empty view is a no-op
	v.ScrollDown()
	v.JumpDown()
	v.NextRepository()
	assert.False(t, v.ToggleExpand())
	_, ok = v.Cursor()
	assert.False(t, ok)
}

func TestView_CursorInitializesToZero(t *testing.T) {
	s := NewStore()
	v := NewView()
	v.Recompute(s)

	s.Replace("a", []PullRequest{pr("a", 1, "one")})
	v.Recompute(s)

	assert.Equal(t, 0, cursorOf(t, v))
}

func TestView_ScrollClamps(t *testing.T) {
	s := testStore()
	v := NewView()
	v.Recompute(s)

	v.ScrollUp()
	assert.Equal(t, 0, cursorOf(t, v))

	for range 10 {
		v.ScrollDown()
	}
	assert.Equal(t, 4, cursorOf(t, v))

	v.ScrollUp()
	assert.Equal(t, 3, cursorOf(t, v))
}

func TestView_Jump(t *testing.T) {
	s := NewStore()
	var prs []PullRequest
	for i := 1; i <= 25; i++ {
		prs = append(prs, pr("a", i, fmt.Sprintf("pr %d", i)))
	}
	s.Replace("a", prs)
	v := NewView()
	v.Recompute(s)

	v.JumpDown()
	assert.Equal(t, JumpSize, cursorOf(t, v))
	v.JumpDown()
	v.JumpDown()
	assert.Equal(t, 25, cursorOf(t, v))
	v.JumpUp()
	assert.Equal(t, 25-JumpSize, cursorOf(t, v))
	v.JumpUp()
	v.JumpUp()
	assert.Equal(t, 0, cursorOf(t, v))
}

func TestView_RepositoryJumps(t *testing.T) {
	v := NewView()
	v.Recompute(testStore())

	v.NextRepository()
	assert.Equal(t, 3, cursorOf(t, v))
	// no header after "b"
	v.NextRepository()
	assert.Equal(t, 3, cursorOf(t, v))

	v.PreviousRepository()
	assert.Equal(t, 0, cursorOf(t, v))

	// from a leaf, previous goes to the leaf's own header
	v.ScrollDown()
	v.ScrollDown()
	v.PreviousRepository()
	assert.Equal(t, 0, cursorOf(t, v))
}

func TestView_ToggleExpand(t *testing.T) {
	s := testStore()
	v := NewView()
	v.Recompute(s)

	require.True(t, v.ToggleExpand())
	assert.True(t, v.Rows()[0].Collapsed)
	assert.Equal(t, 3, v.Total())
	assert.Equal(t, 0, cursorOf(t, v))

	// leaves cannot be toggled
	v.ScrollDown()
	v.ScrollDown()
	require.Equal(t, RowLeaf, v.Selection().Kind)
	assert.False(t, v.ToggleExpand())

	v.PreviousRepository()
	v.PreviousRepository()
	require.True(t, v.ToggleExpand())
	assert.False(t, v.Rows()[0].Collapsed)
	assert.Equal(t, 5, v.Total())
}

func TestView_ShrinkClampsCursor(t *testing.T) {
	s := testStore()
	v := NewView()
	v.Recompute(s)
	for range 4 {
		v.ScrollDown()
	}
	require.Equal(t, 4, cursorOf(t, v))

	s.Replace("b", nil)
	v.Recompute(s)
	assert.Equal(t, 2, cursorOf(t, v))

	s.Replace("a", nil)
	v.Recompute(s)
	_, ok := v.Cursor()
	assert.False(t, ok)
}

func TestView_SelectionSurvivesGrowth(t *testing.T) {
	s := testStore()
	v := NewView()
	v.Recompute(s)
	v.ScrollDown()
	require.Equal(t, 1, v.Selection().PR.ID)

	s.Replace("c", []PullRequest{pr("c", 9, "new")})
	v.Recompute(s)

	assert.Equal(t, 1, cursorOf(t, v))
	assert.Equal(t, 1, v.Selection().PR.ID)
}

func TestView_QueryFiltersAndClamps(t *testing.T) {
	s := testStore()
	v := NewView()
	v.Recompute(s)
	for range 4 {
		v.ScrollDown()
	}

	v.SetQuery(s, "pr#1")
	assert.Equal(t, 2, v.Total())
	assert.Equal(t, 1, cursorOf(t, v))
	assert.Equal(t, 1, v.Selection().PR.ID)

	v.SetQuery(s, "")
	assert.Equal(t, 5, v.Total())
}

func TestView_ToggleLaterGroupKeepsCursorOnHeader(t *testing.T) {
	s := testStore()
	v := NewView()
	v.Recompute(s)

	require.True(t, v.ToggleExpand())
	v.NextRepository()
	require.Equal(t, "b", v.Selection().Repo)

	require.True(t, v.ToggleExpand())
	assert.Equal(t, 1, cursorOf(t, v))
	sel := v.Selection()
	assert.Equal(t, RowHeader, sel.Kind)
	assert.True(t, sel.Collapsed)
	assert.Equal(t, 2, v.Total())
}
