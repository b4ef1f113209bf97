package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("39")  // blue
	colorRepo    = lipgloss.Color("212") // pink
	colorMuted   = lipgloss.Color("240") // gray
	colorText    = lipgloss.Color("252")
	colorDraft   = lipgloss.Color("244")
	colorOK      = lipgloss.Color("46")  // green
	colorWarn    = lipgloss.Color("214") // orange
	colorError   = lipgloss.Color("196") // red
	colorCursorB = lipgloss.Color("237")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			PaddingLeft(1).
			PaddingRight(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Underline(true).
			PaddingRight(2)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingRight(2)

	repoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRepo)

	prStyle = lipgloss.NewStyle().
		Foreground(colorText)

	draftStyle = lipgloss.NewStyle().
			Foreground(colorDraft).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Background(colorCursorB)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	activePaneStyle = paneStyle.
			BorderForeground(colorAccent)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	okStyle    = lipgloss.NewStyle().Foreground(colorOK)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	errorStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	errorPopupStyle = popupStyle.
			BorderForeground(colorError)
)

// flag renders a tri-state PR attribute; nil means GitHub has not computed it.
func flag(v *bool, yes, no string) string {
	switch {
	case v == nil:
		return labelStyle.Render(yes + " ?")
	case *v:
		return okStyle.Render(yes)
	default:
		return warnStyle.Render(no)
	}
}
