package board

// RowKind tells what a linear row index resolves to.
type RowKind int

const (
	RowOutOfBounds RowKind = iota
	RowHeader
	RowLeaf
)

func (k RowKind) String() string {
	switch k {
	case RowHeader:
		return "header"
	case RowLeaf:
		return "leaf"
	default:
		return "out_of_bounds"
	}
}

// Row is one visible line of a view: a repository header or a pull request.
type Row struct {
	Kind  RowKind
	Index int
	Repo  string

	// PR is set for leaves.
	PR PullRequest

	// Count and Collapsed describe the group; set for headers.
	Count     int
	Collapsed bool
}

func groupRows(g Group, collapsed map[string]bool) int {
	if collapsed[g.Repo] {
		return 0
	}
	return len(g.PRs)
}

// TotalRows counts headers plus the leaves of expanded groups.
func TotalRows(groups []Group, collapsed map[string]bool) int {
	n := 0
	for _, g := range groups {
		n += 1 + groupRows(g, collapsed)
	}
	return n
}

// RowAt resolves a linear index. Offset 0 within a group is its header;
// offsets 1..n are its leaves.
func RowAt(groups []Group, collapsed map[string]bool, index int) Row {
	if index < 0 {
		return Row{Kind: RowOutOfBounds, Index: index}
	}

	offset := index
	for _, g := range groups {
		n := groupRows(g, collapsed)
		if offset == 0 {
			return Row{
				Kind:      RowHeader,
				Index:     index,
				Repo:      g.Repo,
				Count:     len(g.PRs),
				Collapsed: collapsed[g.Repo],
			}
		}
		if offset <= n {
			return Row{Kind: RowLeaf, Index: index, Repo: g.Repo, PR: g.PRs[offset-1]}
		}
		offset -= 1 + n
	}
	return Row{Kind: RowOutOfBounds, Index: index}
}

// HeaderIndex returns the row of repo's header.
func HeaderIndex(groups []Group, collapsed map[string]bool, repo string) (int, bool) {
	index := 0
	for _, g := range groups {
		if g.Repo == repo {
			return index, true
		}
		index += 1 + groupRows(g, collapsed)
	}
	return 0, false
}

// Rows lists every visible row in order.
func Rows(groups []Group, collapsed map[string]bool) []Row {
	rows := make([]Row, 0, TotalRows(groups, collapsed))
	for _, g := range groups {
		rows = append(rows, Row{
			Kind:      RowHeader,
			Index:     len(rows),
			Repo:      g.Repo,
			Count:     len(g.PRs),
			Collapsed: collapsed[g.Repo],
		})
		for i := 0; i < groupRows(g, collapsed); i++ {
			rows = append(rows, Row{Kind: RowLeaf, Index: len(rows), Repo: g.Repo, PR: g.PRs[i]})
		}
	}
	return rows
}

// NextHeader returns the first header row after from.
func NextHeader(groups []Group, collapsed map[string]bool, from int) (int, bool) {
	index := 0
	for _, g := range groups {
		if index > from {
			return index, true
		}
		index += 1 + groupRows(g, collapsed)
	}
	return 0, false
}

// PrevHeader returns the last header row before from. From a leaf this is
// the header of its own group.
func PrevHeader(groups []Group, collapsed map[string]bool, from int) (int, bool) {
	index := 0
	prev, found := 0, false
	for _, g := range groups {
		if index >= from {
			break
		}
		prev, found = index, true
		index += 1 + groupRows(g, collapsed)
	}
	return prev, found
}
