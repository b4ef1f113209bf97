package github

import "github.com/marcin-skalski/gitme/internal/board"

// Wire records. Pointer fields distinguish absent from zero.
type wireUser struct {
	Login *string `json:"login"`
	Name  *string `json:"name"`
}

type wirePullRequest struct {
	Number             *int       `json:"number"`
	Title              *string    `json:"title"`
	HTMLURL            *string    `json:"html_url"`
	Body               *string    `json:"body"`
	Draft              *bool      `json:"draft"`
	User               *wireUser  `json:"user"`
	Assignees          []wireUser `json:"assignees"`
	RequestedReviewers []wireUser `json:"requested_reviewers"`
	Mergeable          *bool      `json:"mergeable"`
	Rebaseable         *bool      `json:"rebaseable"`
}

type wireReview struct {
	User  *wireUser `json:"user"`
	State *string   `json:"state"`
}

// toPullRequest maps a wire PR. Missing optional fields fall back to zero
// values and are listed in issues. A missing number is an error since the
// PR would have no identity.
func toPullRequest(repo string, w wirePullRequest) (board.PullRequest, []*DataShapeError, error) {
	if w.Number == nil {
		return board.PullRequest{}, nil, &DataShapeError{Field: "number", Reason: "missing"}
	}

	var issues []*DataShapeError
	str := func(field string, v *string) string {
		if v == nil {
			issues = append(issues, &DataShapeError{Field: field, Reason: "missing"})
			return ""
		}
		return *v
	}

	pr := board.PullRequest{
		ID:    *w.Number,
		Repo:  repo,
		Title: str("title", w.Title),
		URL:   str("html_url", w.HTMLURL),
		// null for PRs opened without a description
		Body:       deref(w.Body),
		IsDraft:    deref(w.Draft),
		Mergeable:  w.Mergeable,
		Rebaseable: w.Rebaseable,
	}

	if w.User == nil || w.User.Login == nil {
		issues = append(issues, &DataShapeError{Field: "user.login", Reason: "missing"})
	} else {
		pr.Author = *w.User.Login
	}

	pr.Assignees = logins(w.Assignees)
	pr.RequestedReviewers = logins(w.RequestedReviewers)
	return pr, issues, nil
}

func toProfile(w wireUser) (board.Profile, error) {
	if w.Login == nil || *w.Login == "" {
		return board.Profile{}, &DataShapeError{Field: "login", Reason: "missing"}
	}
	return board.Profile{Login: *w.Login, Name: deref(w.Name)}, nil
}

// logins skips users without a login, such as deleted accounts.
func logins(users []wireUser) []string {
	var out []string
	for _, u := range users {
		if u.Login != nil && *u.Login != "" {
			out = append(out, *u.Login)
		}
	}
	return out
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
