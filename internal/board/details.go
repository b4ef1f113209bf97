package board

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DetailsScrollStep is how many lines one details scroll moves.
const DetailsScrollStep = 3

// Details tracks the pull request shown in the details pane and the
// scroll offset into its body.
type Details struct {
	pr     *PullRequest
	scroll int
	width  int
	height int
	lines  int
}

// Sync points the pane at pr, or at nothing when pr is nil. Scroll resets
// only when the identity changes.
func (d *Details) Sync(pr *PullRequest) {
	if pr == nil {
		d.pr = nil
		d.scroll = 0
		d.lines = 0
		return
	}
	if d.pr == nil || d.pr.Key() != pr.Key() {
		d.scroll = 0
	}
	cp := *pr
	d.pr = &cp
	d.reflow()
}

// Resize sets the body viewport and reflows.
func (d *Details) Resize(width, height int) {
	d.width = max(0, width)
	d.height = max(0, height)
	d.reflow()
}

func (d *Details) reflow() {
	if d.pr == nil {
		d.lines = 0
	} else {
		d.lines = WrappedLineCount(d.pr.Body, d.width)
	}
	d.scroll = min(d.scroll, d.maxScroll())
}

func (d *Details) maxScroll() int {
	return max(0, d.lines-d.height)
}

func (d *Details) ScrollDown(n int) {
	if d.pr == nil {
		return
	}
	d.scroll = min(d.scroll+n, d.maxScroll())
}

func (d *Details) ScrollUp(n int) {
	if d.pr == nil {
		return
	}
	d.scroll = max(0, d.scroll-n)
}

func (d *Details) PR() *PullRequest {
	return d.pr
}

func (d *Details) Scroll() int {
	return d.scroll
}

func (d *Details) Lines() int {
	return d.lines
}

// WrapBody wraps a pull request body to width columns. A width of zero or
// less leaves the text as is.
func WrapBody(body string, width int) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	if width <= 0 {
		return body
	}
	return ansi.Wrap(body, width, "")
}

// WrappedLineCount is the number of lines WrapBody produces.
func WrappedLineCount(body string, width int) int {
	if body == "" {
		return 0
	}
	return strings.Count(WrapBody(body, width), "\n") + 1
}
