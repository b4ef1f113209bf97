package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	"github.com/marcin-skalski/gitme/internal/board"
)

// GetUser fetches the public profile of login.
func (c *Client) GetUser(ctx context.Context, login string) (board.Profile, error) {
	var w wireUser
	if _, err := c.getJSON(ctx, "get user", "/users/"+url.PathEscape(login), &w); err != nil {
		return board.Profile{}, fmt.Errorf("get user %s: %w", login, err)
	}
	p, err := toProfile(w)
	if err != nil {
		return board.Profile{}, fmt.Errorf("get user %s: %w", login, err)
	}
	return p, nil
}

// AuthenticatedUser returns the profile the token belongs to.
func (c *Client) AuthenticatedUser(ctx context.Context) (board.Profile, error) {
	var w wireUser
	if _, err := c.getJSON(ctx, "get authenticated user", "/user", &w); err != nil {
		return board.Profile{}, fmt.Errorf("get authenticated user: %w", err)
	}
	return toProfile(w)
}

// ResolveToken picks the API token: the configured key, then GITHUB_TOKEN,
// then `gh auth token`.
func ResolveToken(ctx context.Context, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		return tok, nil
	}
	out, err := exec.CommandContext(ctx, "gh", "auth", "token").Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("no api_key or GITHUB_TOKEN and `gh auth token` failed: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("no api_key or GITHUB_TOKEN and `gh auth token` failed: %w", err)
	}
	tok := strings.TrimSpace(string(out))
	if tok == "" {
		return "", fmt.Errorf("empty token from `gh auth token`")
	}
	return tok, nil
}
