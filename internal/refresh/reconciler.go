// Package refresh fetches every configured repository concurrently and
// reconciles the results into the shared board state.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/marcin-skalski/gitme/internal/board"
	"github.com/marcin-skalski/gitme/internal/config"
	"github.com/marcin-skalski/gitme/internal/github"
	"github.com/marcin-skalski/gitme/internal/telemetry"
)

// Source is the GitHub side of a refresh.
type Source interface {
	ReviewLookup
	ListPullRequests(ctx context.Context, owner, repo string) ([]board.PullRequest, error)
	GetPullRequest(ctx context.Context, owner, repo string, number int) (board.PullRequest, error)
	GetUser(ctx context.Context, login string) (board.Profile, error)
}

type Reconciler struct {
	state    *board.State
	source   Source
	repos    []config.RepoConfig
	username string
	logger   *slog.Logger
	tracer   oteltrace.Tracer

	notify atomic.Pointer[func()]
	wg     sync.WaitGroup
}

func New(state *board.State, source Source, repos []config.RepoConfig, username string, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		state:    state,
		source:   source,
		repos:    repos,
		username: username,
		logger:   logger,
		tracer:   telemetry.Tracer(),
	}
}

// OnUpdate registers fn to run after every state change made by a refresh.
// fn is called from refresh goroutines.
func (r *Reconciler) OnUpdate(fn func()) {
	r.notify.Store(&fn)
}

func (r *Reconciler) changed() {
	if fn := r.notify.Load(); fn != nil && *fn != nil {
		(*fn)()
	}
}

// Run refreshes immediately and then every interval until ctx is done. It
// waits for in-flight refreshes before returning.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	r.logger.Info("refresh loop started", "interval", interval, "repos", len(r.repos), "user", r.username)

	r.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down, waiting for refreshes")
			r.wg.Wait()
			return nil
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh starts one refresh per repository and returns without waiting.
// Refreshes already in flight keep running; whichever finishes last wins
// for its repository.
func (r *Reconciler) Refresh(ctx context.Context) {
	for _, repo := range r.repos {
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			// errors are recorded in the board state
			_ = r.RefreshRepo(ctx, repo)
		}()
	}
}

// Wait blocks until all started refreshes are done.
func (r *Reconciler) Wait() {
	r.wg.Wait()
}

// RefreshRepo fetches and classifies one repository and commits it to the
// board. On failure the stored data for every repository stays as it was.
func (r *Reconciler) RefreshRepo(ctx context.Context, repo config.RepoConfig) error {
	key := repo.FullName()
	ctx, span := r.tracer.Start(ctx, "refresh.repository",
		oteltrace.WithAttributes(attribute.String("gitme.repo", key)))
	defer span.End()

	start := time.Now()
	r.state.SetLoading(key)
	r.changed()

	prs, err := r.source.ListPullRequests(ctx, repo.Owner, repo.Name)
	if err != nil {
		return r.fail(span, key, err)
	}

	buckets, err := Classify(ctx, r.source, repo.Owner, repo.Name, prs, r.username)
	if err != nil {
		return r.fail(span, key, err)
	}

	r.fillMergeability(ctx, repo, buckets)

	r.state.ApplyRefresh(key, buckets.Review, buckets.Assigned)
	r.changed()

	span.SetAttributes(
		attribute.Int("gitme.open_prs", len(prs)),
		attribute.Int("gitme.review", len(buckets.Review)),
		attribute.Int("gitme.assigned", len(buckets.Assigned)),
	)
	r.logger.Info("refreshed repo",
		"repo", key,
		"open_prs", len(prs),
		"review", len(buckets.Review),
		"assigned", len(buckets.Assigned),
		"took", time.Since(start).Round(time.Millisecond))

	r.cacheAuthors(ctx, buckets)
	return nil
}

func (r *Reconciler) fail(span oteltrace.Span, key string, err error) error {
	level, err := describe(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	r.logger.Log(context.Background(), level, "refresh repo failed", "repo", key, "err", err)
	r.state.SetError(key, err)
	r.changed()
	return err
}

// describe adds a hint for GitHub errors the user can act on. Rate limits
// clear by themselves and are logged at warn.
func describe(err error) (slog.Level, error) {
	switch {
	case github.IsRateLimited(err):
		return slog.LevelWarn, fmt.Errorf("rate limited, retrying next tick: %w", err)
	case github.IsUnauthorized(err):
		return slog.LevelError, fmt.Errorf("bad credentials, check api_key, GITHUB_TOKEN or gh auth: %w", err)
	case github.IsNotFound(err):
		return slog.LevelError, fmt.Errorf("repository not found or not accessible: %w", err)
	}
	return slog.LevelError, err
}

// fillMergeability fetches every bucketed PR on its own, since only the
// single PR endpoint reports mergeable and rebaseable. Failures leave both
// unknown.
func (r *Reconciler) fillMergeability(ctx context.Context, repo config.RepoConfig, b Buckets) {
	var g errgroup.Group
	g.SetLimit(maxLookups)
	for _, prs := range [][]board.PullRequest{b.Review, b.Assigned} {
		for i := range prs {
			g.Go(func() error {
				full, err := r.source.GetPullRequest(ctx, repo.Owner, repo.Name, prs[i].ID)
				if err != nil {
					r.logger.Warn("fetch mergeability failed", "repo", repo.FullName(), "pr", prs[i].ID, "err", err)
					return nil
				}
				prs[i].Mergeable, prs[i].Rebaseable = full.Mergeable, full.Rebaseable
				return nil
			})
		}
	}
	_ = g.Wait()
}

// cacheAuthors fetches profiles of authors not cached yet. Failures are
// logged and skipped.
func (r *Reconciler) cacheAuthors(ctx context.Context, b Buckets) {
	var authors []string
	for _, prs := range [][]board.PullRequest{b.Review, b.Assigned} {
		for _, pr := range prs {
			authors = append(authors, pr.Author)
		}
	}
	missing := r.state.MissingProfiles(authors)
	if len(missing) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(maxLookups)
	var fetched atomic.Int32
	for _, login := range missing {
		g.Go(func() error {
			p, err := r.source.GetUser(ctx, login)
			if err != nil {
				r.logger.Warn("fetch profile failed", "login", login, "err", err)
				return nil
			}
			r.state.CacheProfile(p)
			fetched.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if fetched.Load() > 0 {
		r.changed()
	}
}
