// Package board is the in-memory model behind the dashboard: per-panel PR
// stores, filtered views with a linear cursor, the details pane and the
// global loading state. Everything is guarded by a single State container.
package board

import "fmt"

// PullRequest is an immutable snapshot of an open pull request.
type PullRequest struct {
	ID         int
	Title      string
	URL        string
	Repo       string
	Body       string
	Author     string
	IsDraft    bool
	// nil until GitHub has computed them; the list endpoint never does
	Mergeable  *bool
	Rebaseable *bool

	Assignees          []string
	RequestedReviewers []string
}

// Key identifies a pull request across refreshes.
type Key struct {
	Repo string
	ID   int
}

func (k Key) String() string {
	return fmt.Sprintf("%s#%d", k.Repo, k.ID)
}

func (pr PullRequest) Key() Key {
	return Key{Repo: pr.Repo, ID: pr.ID}
}

// Profile is a cached GitHub user profile.
type Profile struct {
	Name  string
	Login string
}

func (p Profile) String() string {
	if p.Name == "" || p.Name == p.Login {
		return p.Login
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Login)
}

// Group is the list of pull requests of one repository in fetch order.
type Group struct {
	Repo string
	PRs  []PullRequest
}
