package board

import (
	"slices"
	"sync"
)

// State is the single container shared by the UI loop and refresh tasks.
// Every method holds the lock only for one synchronous read or mutation.
type State struct {
	mu sync.RWMutex

	active   Panel
	stores   map[Panel]*Store
	views    map[Panel]*View
	query    string
	details  Details
	profiles map[string]Profile
	loading  LoadingState
	inFlight int
}

func NewState() *State {
	s := &State{
		active:   PanelReview,
		stores:   make(map[Panel]*Store, len(Panels)),
		views:    make(map[Panel]*View, len(Panels)),
		profiles: make(map[string]Profile),
	}
	for _, p := range Panels {
		s.stores[p] = NewStore()
		s.views[p] = NewView()
	}
	return s
}

// Snapshot is a consistent copy of everything the renderer needs.
type Snapshot struct {
	Active  Panel
	Query   string
	Rows    []Row
	Cursor  int // -1 when nothing is visible
	Counts  map[Panel]int
	Details DetailsSnapshot
	Loading LoadingState

	// Refreshing counts repository refreshes started but not finished.
	Refreshing int
}

// DetailsSnapshot describes the details pane.
type DetailsSnapshot struct {
	PR     *PullRequest
	Author Profile
	Scroll int
	Lines  int
}

// syncDetails must be called with mu held for writing.
func (s *State) syncDetails() {
	row := s.views[s.active].Selection()
	if row.Kind == RowLeaf {
		s.details.Sync(&row.PR)
		return
	}
	s.details.Sync(nil)
}

func (s *State) navigate(fn func(v *View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.views[s.active])
	s.syncDetails()
}

func (s *State) ScrollUp()           { s.navigate((*View).ScrollUp) }
func (s *State) ScrollDown()         { s.navigate((*View).ScrollDown) }
func (s *State) JumpUp()             { s.navigate((*View).JumpUp) }
func (s *State) JumpDown()           { s.navigate((*View).JumpDown) }
func (s *State) NextRepository()     { s.navigate((*View).NextRepository) }
func (s *State) PreviousRepository() { s.navigate((*View).PreviousRepository) }

// ToggleExpand collapses or expands the group under the cursor.
func (s *State) ToggleExpand() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.views[s.active].ToggleExpand()
	s.syncDetails()
	return changed
}

// NextPanel switches panels and re-derives the details pane.
func (s *State) NextPanel() Panel {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = s.active.Next()
	s.syncDetails()
	return s.active
}

func (s *State) ActivePanel() Panel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// SetFilterQuery filters both panels.
func (s *State) SetFilterQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	for _, p := range Panels {
		s.views[p].SetQuery(s.stores[p], query)
	}
	s.syncDetails()
}

func (s *State) ClearFilterQuery() {
	s.SetFilterQuery("")
}

func (s *State) FilterQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// CurrentSelection resolves the active panel's cursor.
func (s *State) CurrentSelection() Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[s.active].Selection()
}

func (s *State) CurrentLoadingState() LoadingState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// VisibleRows lists the active panel's rows.
func (s *State) VisibleRows() []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[s.active].Rows()
}

// PanelRows lists the rows of any panel.
func (s *State) PanelRows(p Panel) []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.views[p].Rows()
}

// Groups returns a panel's unfiltered groups.
func (s *State) Groups(p Panel) []Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stores[p].Groups()
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.views[s.active]
	cursor, ok := v.Cursor()
	if !ok {
		cursor = -1
	}

	counts := make(map[Panel]int, len(Panels))
	for _, p := range Panels {
		counts[p] = s.stores[p].PRCount()
	}

	snap := Snapshot{
		Active:     s.active,
		Query:      s.query,
		Rows:       v.Rows(),
		Cursor:     cursor,
		Counts:     counts,
		Loading:    s.loading,
		Refreshing: s.inFlight,
		Details: DetailsSnapshot{
			Scroll: s.details.Scroll(),
			Lines:  s.details.Lines(),
		},
	}
	if pr := s.details.PR(); pr != nil {
		cp := *pr
		snap.Details.PR = &cp
		snap.Details.Author = s.profileLocked(pr.Author)
	}
	return snap
}

// SetDetailsViewport sets the body area size of the details pane.
func (s *State) SetDetailsViewport(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details.Resize(width, height)
}

func (s *State) ScrollDetailsDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details.ScrollDown(DetailsScrollStep)
}

func (s *State) ScrollDetailsUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details.ScrollUp(DetailsScrollStep)
}

// SetLoading marks a refresh of repo as started.
func (s *State) SetLoading(repo string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = LoadingState{Kind: Loading, Repo: repo}
	s.inFlight++
}

// finish must be called with mu held for writing.
func (s *State) finish() {
	s.inFlight = max(0, s.inFlight-1)
}

// SetError records a failed refresh of repo. Stored data is left untouched.
func (s *State) SetError(repo string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = LoadingState{Kind: Failed, Repo: repo, Message: err.Error()}
	s.finish()
}

// ApplyRefresh replaces repo's group in both panels, recomputes the views
// and re-derives the details pane.
func (s *State) ApplyRefresh(repo string, review, assigned []PullRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batches := map[Panel][]PullRequest{
		PanelReview:   review,
		PanelAssigned: assigned,
	}
	for _, p := range Panels {
		s.stores[p].Replace(repo, batches[p])
		s.views[p].Recompute(s.stores[p])
	}
	s.syncDetails()
	s.loading = LoadingState{Kind: Loaded, Repo: repo}
	s.finish()
}

// CacheProfile stores a profile. Entries are never evicted.
func (s *State) CacheProfile(p Profile) {
	if p.Login == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.Login] = p
}

// Profile returns the cached profile for login.
func (s *State) Profile(login string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[login]
	return p, ok
}

func (s *State) profileLocked(login string) Profile {
	if p, ok := s.profiles[login]; ok {
		return p
	}
	return Profile{Login: login}
}

// MissingProfiles filters logins down to those not cached yet, without
// duplicates.
func (s *State) MissingProfiles(logins []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var missing []string
	for _, login := range logins {
		if login == "" || slices.Contains(missing, login) {
			continue
		}
		if _, ok := s.profiles[login]; !ok {
			missing = append(missing, login)
		}
	}
	return missing
}
