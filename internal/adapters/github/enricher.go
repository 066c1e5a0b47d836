// Package github fills in repository activity for projects that link a
// GitHub repository.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/kaspa-ecosystem/discovery/internal/domain/model"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
	"github.com/kaspa-ecosystem/discovery/pkg/metrics"
)

const (
	defaultTTL    = time.Hour
	defaultWindow = 30 * 24 * time.Hour
)

// Source provides the project collection to enrich.
type Source interface {
	Projects(ctx context.Context) ([]model.Project, error)
}

type repoStats struct {
	stars     int
	pushedAt  *time.Time
	commits   int
	fetchedAt time.Time
}

// Enricher wraps a Source and overwrites stars, last push and recent
// commit count with live GitHub data. Projects whose lookup fails keep
// the values their source supplied.
type Enricher struct {
	next    Source
	client  *github.Client
	limiter *rate.Limiter
	ttl     time.Duration
	window  time.Duration
	now     func() time.Time
	log     logger.Logger

	mu    sync.Mutex
	cache map[string]repoStats
}

// NewClient returns a GitHub client. An empty token makes anonymous
// requests; an empty baseURL targets api.github.com.
func NewClient(token, baseURL string) (*github.Client, error) {
	var client *github.Client
	if token == "" {
		client = github.NewClient(nil)
	} else {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		client = github.NewClient(oauth2.NewClient(context.Background(), ts))
	}
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		client.BaseURL = u
	}
	return client, nil
}

// NewEnricher wraps next.
func NewEnricher(next Source, client *github.Client, opts ...Option) *Enricher {
	e := &Enricher{
		next:    next,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		ttl:     defaultTTL,
		window:  defaultWindow,
		now:     time.Now,
		log:     logger.Default().Named("github"),
		cache:   make(map[string]repoStats),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Projects returns the wrapped source's projects with GitHub data applied.
func (e *Enricher) Projects(ctx context.Context) ([]model.Project, error) {
	projects, err := e.next.Projects(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Project, len(projects))
	copy(out, projects)

	for i := range out {
		owner, name, ok := ParseRepo(out[i].GitHubRepo)
		if !ok {
			continue
		}
		stats, err := e.stats(ctx, owner, name)
		if err != nil {
			e.log.Warn(ctx, "github lookup failed",
				logger.String("repo", owner+"/"+name),
				logger.Error(err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		out[i].GitHubStars = stats.stars
		if stats.pushedAt != nil {
			at := *stats.pushedAt
			out[i].GitHubPushedAt = &at
		}
		commits := stats.commits
		out[i].GitHubCommits = &commits
	}
	return out, nil
}

func (e *Enricher) stats(ctx context.Context, owner, name string) (repoStats, error) {
	key := strings.ToLower(owner + "/" + name)
	now := e.now()

	e.mu.Lock()
	cached, ok := e.cache[key]
	e.mu.Unlock()
	if ok && now.Sub(cached.fetchedAt) < e.ttl {
		metrics.RecordGitHubRequest("cached")
		return cached, nil
	}

	stats, err := e.fetch(ctx, owner, name, now)
	if err != nil {
		metrics.RecordGitHubRequest("error")
		return repoStats{}, err
	}
	metrics.RecordGitHubRequest("ok")

	e.mu.Lock()
	e.cache[key] = stats
	e.mu.Unlock()
	return stats, nil
}

func (e *Enricher) fetch(ctx context.Context, owner, name string, now time.Time) (repoStats, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return repoStats{}, err
	}
	repo, _, err := e.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return repoStats{}, fmt.Errorf("get repository: %w", err)
	}
	stats := repoStats{stars: repo.GetStargazersCount(), fetchedAt: now}
	if repo.PushedAt != nil {
		at := repo.GetPushedAt().Time
		stats.pushedAt = &at
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return repoStats{}, err
	}
	// One commit per page: the last page number is the commit count.
	commits, resp, err := e.client.Repositories.ListCommits(ctx, owner, name, &github.CommitsListOptions{
		Since:       now.Add(-e.window),
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return repoStats{}, fmt.Errorf("list commits: %w", err)
	}
	stats.commits = len(commits)
	if resp != nil && resp.LastPage > stats.commits {
		stats.commits = resp.LastPage
	}
	return stats, nil
}

// ParseRepo accepts "owner/name" or a github.com URL.
func ParseRepo(s string) (owner, name string, ok bool) {
	s = strings.TrimSpace(s)
	for _, prefix := range []string{"https://", "http://"} {
		s = strings.TrimPrefix(s, prefix)
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
