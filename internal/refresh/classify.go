package refresh

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/marcin-skalski/gitme/internal/board"
)

// maxLookups bounds concurrent review lookups per repository.
const maxLookups = 8

// ReviewLookup lists who already submitted a review on a pull request.
type ReviewLookup interface {
	ListReviewers(ctx context.Context, owner, repo string, number int) ([]string, error)
}

// Buckets holds one repository's pull requests split per panel, each in
// fetch order.
type Buckets struct {
	Review   []board.PullRequest
	Assigned []board.PullRequest
}

type verdict int

const (
	verdictNone verdict = iota
	verdictAssigned
	verdictReview
	verdictLookup
)

func quickVerdict(pr board.PullRequest, user string) verdict {
	if containsLogin(pr.Assignees, user) {
		return verdictAssigned
	}
	if containsLogin(pr.RequestedReviewers, user) {
		return verdictReview
	}
	// nobody reviews their own PR, so skip the lookup
	if strings.EqualFold(pr.Author, user) {
		return verdictNone
	}
	// GitHub drops users from requested_reviewers once they review
	return verdictLookup
}

// Classify puts each pull request in at most one bucket. An assignee match
// wins; otherwise the PR needs the user's review when they are a requested
// reviewer or already submitted one. The user's own PRs skip the lookup. Review lookups run concurrently and
// all finish before Classify returns, so a failed lookup fails the batch.
func Classify(ctx context.Context, lookup ReviewLookup, owner, name string, prs []board.PullRequest, user string) (Buckets, error) {
	if user == "" {
		return Buckets{}, nil
	}

	verdicts := make([]verdict, len(prs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLookups)
	for i, pr := range prs {
		verdicts[i] = quickVerdict(pr, user)
		if verdicts[i] != verdictLookup {
			continue
		}
		g.Go(func() error {
			reviewers, err := lookup.ListReviewers(gctx, owner, name, pr.ID)
			if err != nil {
				return err
			}
			if containsLogin(reviewers, user) {
				verdicts[i] = verdictReview
			} else {
				verdicts[i] = verdictNone
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Buckets{}, err
	}

	var b Buckets
	for i, pr := range prs {
		switch verdicts[i] {
		case verdictAssigned:
			b.Assigned = append(b.Assigned, pr)
		case verdictReview:
			b.Review = append(b.Review, pr)
		}
	}
	return b, nil
}

func containsLogin(logins []string, user string) bool {
	for _, l := range logins {
		if strings.EqualFold(l, user) {
			return true
		}
	}
	return false
}
