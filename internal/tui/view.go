package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/marcin-skalski/gitme/internal/board"
)

const (
	headerLines  = 1
	searchLines  = 1
	footerLines  = 2
	paneChrome   = 2 // border rows
	paneHChrome  = 4 // border + padding columns
	detailsMeta  = 6 // title, repo, author, flags, url, rule
	scrollMarker = 1
)

func (m Model) layout() (listWidth, detailsWidth, paneHeight int) {
	w, h := max(m.width, 40), max(m.height, 12)
	listWidth = w * 2 / 5
	detailsWidth = w - listWidth
	paneHeight = h - headerLines - searchLines - footerLines
	return
}

// detailsBodySize is the area the PR body scrolls in.
func (m Model) detailsBodySize() (int, int) {
	_, dw, ph := m.layout()
	return max(1, dw-paneHChrome), max(1, ph-paneChrome-detailsMeta-scrollMarker)
}

func (m Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	lw, dw, ph := m.layout()
	inner := ph - paneChrome

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		activePaneStyle.Width(lw-2).Height(inner).Render(m.renderList(lw-paneHChrome, inner)),
		paneStyle.Width(dw-2).Height(inner).Render(m.renderDetails(dw-paneHChrome)),
	)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearch())
	b.WriteString("\n")
	b.WriteString(panes)
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	screen := b.String()
	switch {
	case m.showHelp:
		return m.overlay(popupStyle.Render(m.renderHelp()))
	case m.errorVisible():
		return m.overlay(errorPopupStyle.Width(min(70, m.width-4)).Render(
			errorStyle.Render("Refresh failed") + "\n\n" +
				m.snap.Loading.Repo + ": " + m.snap.Loading.Message + "\n\n" +
				labelStyle.Render("esc to dismiss")))
	}
	return screen
}

func (m Model) overlay(popup string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, popup)
}

func (m Model) renderHeader() string {
	var tabs []string
	for _, p := range board.Panels {
		label := fmt.Sprintf("%s (%d)", p, m.snap.Counts[p])
		if p == m.snap.Active {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	title := "gitme"
	if m.username != "" {
		title += " │ " + m.username
	}
	return headerStyle.Render(title) + " " + strings.Join(tabs, "")
}

func (m Model) renderSearch() string {
	if m.searching {
		return m.search.View()
	}
	if m.snap.Query != "" {
		return labelStyle.Render("filter: ") + m.snap.Query + labelStyle.Render("  (esc to clear)")
	}
	return ""
}

func (m Model) renderList(width, height int) string {
	if len(m.snap.Rows) == 0 {
		msg := "(no pull requests)"
		if m.snap.Query != "" {
			msg = "(nothing matches the filter)"
		} else if m.snap.Loading.Kind == board.Idle || m.snap.Loading.Kind == board.Loading {
			msg = "(loading…)"
		}
		return emptyStyle.Render(msg)
	}

	start := 0
	if m.snap.Cursor >= height {
		start = m.snap.Cursor - height + 1
	}
	end := min(len(m.snap.Rows), start+height)

	lines := make([]string, 0, end-start)
	for _, row := range m.snap.Rows[start:end] {
		lines = append(lines, renderRow(row, row.Index == m.snap.Cursor, width))
	}
	return strings.Join(lines, "\n")
}

func renderRow(row board.Row, selected bool, width int) string {
	var text string
	style := prStyle
	switch row.Kind {
	case board.RowHeader:
		marker := "▾"
		if row.Collapsed {
			marker = "▸"
		}
		text = fmt.Sprintf("%s %s (%d)", marker, row.Repo, row.Count)
		style = repoStyle
	case board.RowLeaf:
		text = fmt.Sprintf("  #%d %s", row.PR.ID, row.PR.Title)
		if row.PR.IsDraft {
			text += " [draft]"
			style = draftStyle
		}
	}

	if runewidth.StringWidth(text) > width {
		text = runewidth.Truncate(text, width, "…")
	}
	if selected {
		return cursorStyle.Render(runewidth.FillRight(text, width))
	}
	return style.Render(text)
}

func (m Model) renderDetails(width int) string {
	d := m.snap.Details
	if d.PR == nil {
		return emptyStyle.Render("(select a pull request)")
	}
	pr := d.PR
	_, bodyHeight := m.detailsBodySize()

	var b strings.Builder
	b.WriteString(titleStyle.Render(ansi.Truncate(pr.Title, width, "…")))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("#%d · %s", pr.ID, pr.Repo)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("author: ") + d.Author.String())
	b.WriteString("\n")
	draft := ""
	if pr.IsDraft {
		draft = "  " + draftStyle.Render("draft")
	}
	b.WriteString(flag(pr.Mergeable, "mergeable", "not mergeable") + "  " +
		flag(pr.Rebaseable, "rebaseable", "not rebaseable") + draft)
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(ansi.Truncate(pr.URL, width, "…")))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(strings.Repeat("─", max(0, width))))
	b.WriteString("\n")

	body := board.WrapBody(pr.Body, width)
	if body == "" {
		b.WriteString(emptyStyle.Render("(no description)"))
		return b.String()
	}
	lines := strings.Split(body, "\n")
	from := min(d.Scroll, len(lines))
	to := min(len(lines), from+bodyHeight)
	b.WriteString(strings.Join(lines[from:to], "\n"))
	if len(lines) > bodyHeight {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("lines %d-%d of %d", from+1, to, len(lines))))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	var status string
	st := m.snap.Loading
	switch {
	case st.Kind == board.Failed:
		status = errorStyle.Render(ansi.Truncate(st.String(), max(10, m.width-2), "…"))
		if m.snap.Refreshing > 0 {
			status = m.spinner.View() + " " + status
		}
	case m.snap.Refreshing == 1 && st.Kind == board.Loading:
		status = m.spinner.View() + " " + st.String()
	case m.snap.Refreshing > 0:
		status = m.spinner.View() + " " + refreshingLabel(m.snap.Refreshing)
	case st.Kind == board.Loaded:
		status = okStyle.Render("✓ up to date")
	default:
		status = labelStyle.Render("idle")
	}
	if m.status != "" {
		status += footerStyle.Render(" │ " + m.status)
	}
	return status + "\n" + m.help.ShortHelpView(keys.ShortHelp())
}

func refreshingLabel(n int) string {
	if n == 1 {
		return "refreshing 1 repo"
	}
	return fmt.Sprintf("refreshing %d repos", n)
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	return titleStyle.Render("Keybindings") + "\n\n" + h.View(keys) + "\n\n" + labelStyle.Render("? or esc to close")
}
