package github

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/marcin-skalski/gitme/internal/board"
)

// ListPullRequests returns the open pull requests of owner/repo in the
// order GitHub returns them. Records with shape problems degrade to
// defaults; records without a number are skipped.
func (c *Client) ListPullRequests(ctx context.Context, owner, repo string) ([]board.PullRequest, error) {
	full := owner + "/" + repo
	path := repoPath(owner, repo) + "/pulls?state=open&per_page=100"

	var prs []board.PullRequest
	err := c.getPages(ctx, "list PRs", path, func(page json.RawMessage) error {
		var wire []wirePullRequest
		if err := json.Unmarshal(page, &wire); err != nil {
			return err
		}
		for _, w := range wire {
			pr, issues, err := toPullRequest(full, w)
			if err != nil {
				c.logger.Warn("skipping pull request", "repo", full, "err", err)
				continue
			}
			for _, issue := range issues {
				c.logger.Warn("pull request field defaulted", "repo", full, "pr", pr.ID, "err", issue)
			}
			prs = append(prs, pr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list PRs %s: %w", full, err)
	}

	c.logger.Debug("listed pull requests", "repo", full, "count", len(prs))
	return prs, nil
}

// GetPullRequest fetches a single pull request. Unlike the list endpoint it
// carries mergeable and rebaseable, which stay nil while GitHub is still
// computing them.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (board.PullRequest, error) {
	full := owner + "/" + repo
	path := fmt.Sprintf("%s/pulls/%d", repoPath(owner, repo), number)

	var w wirePullRequest
	if _, err := c.getJSON(ctx, "get PR", path, &w); err != nil {
		return board.PullRequest{}, fmt.Errorf("get PR %s#%d: %w", full, number, err)
	}
	pr, issues, err := toPullRequest(full, w)
	if err != nil {
		return board.PullRequest{}, fmt.Errorf("get PR %s#%d: %w", full, number, err)
	}
	for _, issue := range issues {
		c.logger.Warn("pull request field defaulted", "repo", full, "pr", number, "err", issue)
	}
	return pr, nil
}

// ListReviewers returns the distinct logins that submitted a review on a
// pull request, in first-review order.
func (c *Client) ListReviewers(ctx context.Context, owner, repo string, number int) ([]string, error) {
	path := fmt.Sprintf("%s/pulls/%d/reviews?per_page=100", repoPath(owner, repo), number)

	var reviewers []string
	err := c.getPages(ctx, "list reviews", path, func(page json.RawMessage) error {
		var wire []wireReview
		if err := json.Unmarshal(page, &wire); err != nil {
			return err
		}
		for _, r := range wire {
			if r.User == nil || r.User.Login == nil || *r.User.Login == "" {
				continue
			}
			if login := *r.User.Login; !slices.Contains(reviewers, login) {
				reviewers = append(reviewers, login)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reviews %s/%s#%d: %w", owner, repo, number, err)
	}
	return reviewers, nil
}
