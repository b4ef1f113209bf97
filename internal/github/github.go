package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Client talks to the GitHub REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type Options struct {
	// BaseURL defaults to GITHUB_API_URL, then api.github.com.
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(opts Options, logger *slog.Logger) *Client {
	base := opts.BaseURL
	if base == "" {
		base = os.Getenv("GITHUB_API_URL")
	}
	if base == "" {
		base = defaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		token:      opts.Token,
		httpClient: hc,
		logger:     logger,
	}
}

// getJSON fetches path and decodes into out. It returns the URL of the next
// page when the response carries one.
func (c *Client) getJSON(ctx context.Context, op, path string, out any) (string, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + path
	} else if err := c.sameOrigin(path); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("github request", "op", op, "url", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return "", &DataShapeError{Op: op, Field: "body", Reason: "empty response"}
		}
		return "", &DataShapeError{Op: op, Field: "body", Reason: err.Error()}
	}
	return nextPage(resp.Header.Get("Link")), nil
}

// sameOrigin rejects absolute URLs outside the API base so the token is
// only ever sent to the configured host.
func (c *Client) sameOrigin(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("parse next page %q: %w", target, err)
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse base url %q: %w", c.baseURL, err)
	}
	if !strings.EqualFold(u.Scheme, base.Scheme) || !strings.EqualFold(u.Host, base.Host) {
		return fmt.Errorf("refusing to follow %s outside %s", u.Redacted(), base.Host)
	}
	return nil
}

// getPages follows Link rel="next" until exhausted, decoding each page with
// decode.
func (c *Client) getPages(ctx context.Context, op, path string, decode func(page json.RawMessage) error) error {
	next := path
	for next != "" {
		var page json.RawMessage
		var err error
		next, err = c.getJSON(ctx, op, next, &page)
		if err != nil {
			return err
		}
		if err := decode(page); err != nil {
			return &DataShapeError{Op: op, Field: "body", Reason: err.Error()}
		}
	}
	return nil
}

// nextPage extracts the rel="next" target from a Link header.
func nextPage(link string) string {
	for _, part := range strings.Split(link, ",") {
		segs := strings.Split(strings.TrimSpace(part), ";")
		if len(segs) < 2 {
			continue
		}
		for _, attr := range segs[1:] {
			if strings.TrimSpace(attr) == `rel="next"` {
				return strings.Trim(strings.TrimSpace(segs[0]), "<>")
			}
		}
	}
	return ""
}

func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}
