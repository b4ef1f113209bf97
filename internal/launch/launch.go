// Package launch starts external programs for the selected pull request:
// the configured review command and the web browser.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/browser"

	"github.com/marcin-skalski/gitme/internal/board"
)

// ErrNoPath is returned when a repository has no local checkout configured.
var ErrNoPath = errors.New("no system_path configured for repository")

type Launcher struct {
	command string
	args    []string
	logger  *slog.Logger

	// openURL is swapped out in tests.
	openURL func(url string) error
}

// New builds a launcher for command. An empty command falls back to
// $TERMINAL and then ghostty.
func New(command string, args []string, logger *slog.Logger) *Launcher {
	if command == "" {
		command = os.Getenv("TERMINAL")
	}
	if command == "" {
		command = "ghostty"
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		openURL: browser.OpenURL,
	}
}

// Review runs the review command inside dir. The pull request is exposed to
// the command through GITME_REPO, GITME_PR_NUMBER and GITME_PR_URL. The
// command outlives ctx, so quitting gitme leaves the terminal open.
func (l *Launcher) Review(ctx context.Context, dir string, pr board.PullRequest) error {
	if dir == "" {
		return fmt.Errorf("review %s: %w", pr.Key(), ErrNoPath)
	}
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("review %s: %w", pr.Key(), err)
	} else if !info.IsDir() {
		return fmt.Errorf("review %s: %s is not a directory", pr.Key(), dir)
	}

	env := append(os.Environ(),
		"GITME_REPO="+pr.Repo,
		"GITME_PR_NUMBER="+strconv.Itoa(pr.ID),
		"GITME_PR_URL="+pr.URL,
	)
	return l.run(context.WithoutCancel(ctx), dir, env, l.command, l.args...)
}

// Open shows the pull request in the default browser.
func (l *Launcher) Open(pr board.PullRequest) error {
	if pr.URL == "" {
		return fmt.Errorf("open %s: no url", pr.Key())
	}
	l.logger.Debug("open in browser", "pr", pr.Key().String(), "url", pr.URL)
	if err := l.openURL(pr.URL); err != nil {
		return fmt.Errorf("open %s: %w", pr.Key(), err)
	}
	return nil
}

func (l *Launcher) run(ctx context.Context, dir string, env []string, name string, args ...string) error {
	l.logger.Debug("exec", "cmd", name+" "+strings.Join(args, " "), "dir", dir)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w\n%s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
