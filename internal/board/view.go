package board

// JumpSize is how many rows JumpUp and JumpDown move the cursor.
const JumpSize = 10

// View is the filtered, cursored projection of one panel's store.
type View struct {
	query     string
	groups    []Group
	collapsed map[string]bool
	cursor    int // -1 = unset
}

func NewView() *View {
	return &View{collapsed: make(map[string]bool), cursor: -1}
}

// Recompute re-projects the store and clamps the cursor.
func (v *View) Recompute(s *Store) {
	v.groups = Project(s.Groups(), v.query)
	v.clamp()
}

// SetQuery changes the filter and re-projects.
func (v *View) SetQuery(s *Store, query string) {
	v.query = query
	v.Recompute(s)
}

func (v *View) Groups() []Group {
	return v.groups
}

func (v *View) Total() int {
	return TotalRows(v.groups, v.collapsed)
}

func (v *View) Rows() []Row {
	return Rows(v.groups, v.collapsed)
}

// Cursor returns the cursor row, or false when nothing is visible.
func (v *View) Cursor() (int, bool) {
	return v.cursor, v.cursor >= 0
}

// Selection resolves the cursor.
func (v *View) Selection() Row {
	if v.cursor < 0 {
		return Row{Kind: RowOutOfBounds, Index: -1}
	}
	return RowAt(v.groups, v.collapsed, v.cursor)
}

func (v *View) clamp() {
	total := v.Total()
	switch {
	case total == 0:
		v.cursor = -1
	case v.cursor < 0:
		v.cursor = 0
	case v.cursor >= total:
		v.cursor = total - 1
	}
}

func (v *View) move(delta int) {
	if v.cursor < 0 {
		return
	}
	v.cursor = max(0, min(v.cursor+delta, v.Total()-1))
}

func (v *View) ScrollDown() { v.move(1) }
func (v *View) ScrollUp()   { v.move(-1) }
func (v *View) JumpDown()   { v.move(JumpSize) }
func (v *View) JumpUp()     { v.move(-JumpSize) }

func (v *View) NextRepository() {
	if v.cursor < 0 {
		return
	}
	if i, ok := NextHeader(v.groups, v.collapsed, v.cursor); ok {
		v.cursor = i
	}
}

func (v *View) PreviousRepository() {
	if v.cursor < 0 {
		return
	}
	if i, ok := PrevHeader(v.groups, v.collapsed, v.cursor); ok {
		v.cursor = i
	}
}

// ToggleExpand collapses or expands the group under the cursor. It only
// acts on headers and reports whether anything changed. The cursor stays on
// the toggled header.
func (v *View) ToggleExpand() bool {
	row := v.Selection()
	if row.Kind != RowHeader {
		return false
	}
	if v.collapsed[row.Repo] {
		delete(v.collapsed, row.Repo)
	} else {
		v.collapsed[row.Repo] = true
	}
	if i, ok := HeaderIndex(v.groups, v.collapsed, row.Repo); ok {
		v.cursor = i
	}
	v.clamp()
	return true
}
