package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcin-skalski/gitme/internal/board"
)

// Refresher starts a refresh of every repository without blocking.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Launcher runs the external actions on a pull request.
type Launcher interface {
	Review(ctx context.Context, dir string, pr board.PullRequest) error
	Open(pr board.PullRequest) error
}

type Options struct {
	State     *board.State
	Refresher Refresher
	Launcher  Launcher
	// Paths maps "owner/name" to the local checkout used by Review.
	Paths map[string]string
	// Tick is how often the view re-reads the board without a push.
	Tick     time.Duration
	Username string
}

// StateChangedMsg tells the model the board changed outside the UI loop.
type StateChangedMsg struct{}

type tickMsg time.Time

type launchDoneMsg struct {
	action string
	err    error
}

type Model struct {
	ctx       context.Context
	state     *board.State
	refresher Refresher
	launcher  Launcher
	paths     map[string]string
	tick      time.Duration
	username  string

	snap         board.Snapshot
	width        int
	height       int
	searching    bool
	search       textinput.Model
	spinner      spinner.Model
	help         help.Model
	showHelp     bool
	dismissedErr string
	status       string
}

func NewModel(ctx context.Context, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter by repo, #number or title"
	ti.CharLimit = 120

	s := spinner.New()
	s.Spinner = spinner.MiniDot

	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}

	return Model{
		ctx:       ctx,
		state:     opts.State,
		refresher: opts.Refresher,
		launcher:  opts.Launcher,
		paths:     opts.Paths,
		tick:      tick,
		username:  opts.Username,
		snap:      opts.State.Snapshot(),
		search:    ti,
		spinner:   s,
		help:      help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tick), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w, h := m.detailsBodySize()
		m.state.SetDetailsViewport(w, h)
		m.snap = m.state.Snapshot()
		return m, nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.snap = m.state.Snapshot()
		return m, cmd

	case StateChangedMsg:
		m.snap = m.state.Snapshot()
		return m, nil

	case tickMsg:
		m.snap = m.state.Snapshot()
		return m, tickCmd(m.tick)

	case launchDoneMsg:
		if msg.err != nil {
			m.status = msg.action + " failed: " + msg.err.Error()
		} else {
			m.status = msg.action + " done"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}

	if m.showHelp {
		switch {
		case msg.String() == "ctrl+c":
			return tea.Quit
		case key.Matches(msg, keys.Help), key.Matches(msg, keys.Close), key.Matches(msg, keys.Quit):
			m.showHelp = false
		}
		return nil
	}

	if m.errorVisible() {
		switch {
		case msg.String() == "ctrl+c":
			return tea.Quit
		case key.Matches(msg, keys.Close), key.Matches(msg, keys.ConfirmSearch):
			m.dismissedErr = m.snap.Loading.Message
			return nil
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = true
	case key.Matches(msg, keys.Up):
		m.state.ScrollUp()
	case key.Matches(msg, keys.Down):
		m.state.ScrollDown()
	case key.Matches(msg, keys.JumpUp):
		m.state.JumpUp()
	case key.Matches(msg, keys.JumpDown):
		m.state.JumpDown()
	case key.Matches(msg, keys.NextRepo):
		m.state.NextRepository()
	case key.Matches(msg, keys.PrevRepo):
		m.state.PreviousRepository()
	case key.Matches(msg, keys.Toggle):
		m.state.ToggleExpand()
	case key.Matches(msg, keys.SwitchPanel):
		m.state.NextPanel()
	case key.Matches(msg, keys.DetailsDown):
		m.state.ScrollDetailsDown()
	case key.Matches(msg, keys.DetailsUp):
		m.state.ScrollDetailsUp()
	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.SetValue(m.state.FilterQuery())
		m.search.CursorEnd()
		return m.search.Focus()
	case key.Matches(msg, keys.Close):
		m.state.ClearFilterQuery()
		m.status = ""
	case key.Matches(msg, keys.Refresh):
		if m.refresher != nil {
			m.refresher.Refresh(m.ctx)
		}
	case key.Matches(msg, keys.Open):
		return m.openSelected()
	case key.Matches(msg, keys.Review):
		return m.reviewSelected()
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.String() == "ctrl+c":
		return tea.Quit
	case key.Matches(msg, keys.Close):
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.state.ClearFilterQuery()
		return nil
	case key.Matches(msg, keys.ConfirmSearch):
		m.searching = false
		m.search.Blur()
		return nil
	}

	var cmd tea.Cmd
	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.state.SetFilterQuery(v)
	}
	return cmd
}

func (m *Model) selectedPR() (board.PullRequest, bool) {
	row := m.state.CurrentSelection()
	if row.Kind != board.RowLeaf {
		return board.PullRequest{}, false
	}
	return row.PR, true
}

func (m *Model) openSelected() tea.Cmd {
	pr, ok := m.selectedPR()
	if !ok || m.launcher == nil {
		return nil
	}
	launcher := m.launcher
	m.status = "opening " + pr.Key().String()
	return func() tea.Msg {
		return launchDoneMsg{action: "open " + pr.Key().String(), err: launcher.Open(pr)}
	}
}

// reviewSelected runs the review command; only PRs awaiting review qualify.
func (m *Model) reviewSelected() tea.Cmd {
	if m.state.ActivePanel() != board.PanelReview || m.launcher == nil {
		return nil
	}
	pr, ok := m.selectedPR()
	if !ok {
		return nil
	}
	launcher, ctx, dir := m.launcher, m.ctx, m.paths[pr.Repo]
	m.status = "reviewing " + pr.Key().String()
	return func() tea.Msg {
		return launchDoneMsg{action: "review " + pr.Key().String(), err: launcher.Review(ctx, dir, pr)}
	}
}

// errorVisible reports whether the latest refresh error has not been
// dismissed yet.
func (m Model) errorVisible() bool {
	return m.snap.Loading.Kind == board.Failed && m.snap.Loading.Message != m.dismissedErr
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
