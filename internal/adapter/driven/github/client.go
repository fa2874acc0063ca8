// Package github implements the ReleaseClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/releasedash/internal/domain/model"
	"github.com/ericfisherdev/releasedash/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ReleaseClient = (*Client)(nil)

// releasesPerPage is the fixed page size used for release listing.
const releasesPerPage = 100

// defaultPageDelay is the fixed pause between successive page requests for
// one repository. It is unconditional rather than adaptive: the point is to
// stay well clear of secondary rate limits even when headers look healthy.
const defaultPageDelay = time.Second

// Client implements the driven.ReleaseClient port using the go-github library.
type Client struct {
	gh        *gh.Client
	pageDelay time.Duration
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client; PAT auth when a token is configured)
//
// An empty token yields an unauthenticated client, which works against public
// repositories at a much lower rate limit.
func NewClient(token string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)

	client := gh.NewClient(rateLimitClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	return &Client{
		gh:        client,
		pageDelay: defaultPageDelay,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client, base URL,
// and page delay. This constructor is intended for testing, allowing injection
// of an httptest server and a near-zero pacing delay.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, pageDelay time.Duration) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:        client,
		pageDelay: pageDelay,
	}, nil
}

// FetchReleases retrieves every release for the given repository and maps each
// one to a domain ReleaseRecord. It pages through the API at a fixed page size
// starting from page 1 and stops when a page comes back empty, pausing between
// successive page requests to respect rate limiting.
func (c *Client) FetchReleases(ctx context.Context, repoFullName string) ([]model.ReleaseRecord, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: releasesPerPage}

	var records []model.ReleaseRecord

	for page := 1; ; page++ {
		if page > 1 {
			if err := wait(ctx, c.pageDelay); err != nil {
				return nil, err
			}
		}

		opts.Page = page
		releases, resp, err := c.gh.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing releases for %s (page %d): %w", repoFullName, page, err)
		}

		logRateLimit(resp, repoFullName, page, len(releases))

		if len(releases) == 0 {
			break
		}

		for _, rel := range releases {
			records = append(records, mapRelease(rel, repoFullName))
		}
	}

	if records == nil {
		records = []model.ReleaseRecord{}
	}

	return records, nil
}

// mapRelease converts a go-github RepositoryRelease to a domain ReleaseRecord.
// It uses GetXxx() helper methods exclusively to avoid nil pointer panics.
// A nil published_at (draft releases) flows through as a zero time, producing
// an undated record with sentinel date fields.
func mapRelease(rel *gh.RepositoryRelease, repoFullName string) model.ReleaseRecord {
	return model.NewReleaseRecord(
		repoFullName,
		rel.GetTagName(),
		rel.GetName(),
		rel.GetBody(),
		rel.GetCreatedAt().Time,
		rel.GetPublishedAt().Time,
		rel.GetDraft(),
		rel.GetPrerelease(),
	)
}

// wait blocks for d or until the context is canceled, whichever comes first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
