package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Client wraps the go-github client with helper methods.
type Client struct {
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	baseURL       string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRateLimiter replaces the default proactive rate limiter.
func WithRateLimiter(r *RateLimiter) Option {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// NewClient creates a new GitHub API client with a token provider.
func NewClient(tokenProvider driven.TokenProvider, opts ...Option) *Client {
	c := &Client{
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(DefaultRate),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ensureClient initializes the go-github client if not already done.
// This is called lazily so we can get the token when needed.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.gh != nil {
		return nil
	}

	var token string
	if c.tokenProvider != nil {
		t, err := c.tokenProvider.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("get token: %w", err)
		}
		token = t
	}

	var tc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(ctx, ts)
	} else {
		logger.Warn("No GitHub token configured, using unauthenticated requests")
		tc = &http.Client{}
	}
	tc.Timeout = DefaultTimeout

	client := gh.NewClient(tc)
	if c.baseURL != "" {
		base := c.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return fmt.Errorf("parse base url: %w", err)
		}
		client.BaseURL = u
	}
	c.gh = client

	return nil
}

// SearchRepositories fetches one page of repository search results.
func (c *Client) SearchRepositories(
	ctx context.Context, query string, opts *gh.SearchOptions,
) (*gh.RepositoriesSearchResult, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	result, resp, err := c.gh.Search.Repositories(ctx, query, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "search repositories")
	}

	return result, nil
}

// ListWorkflowRuns fetches one page of workflow runs for a repository.
func (c *Client) ListWorkflowRuns(
	ctx context.Context, owner, repo string, opts *gh.ListWorkflowRunsOptions,
) (*gh.WorkflowRuns, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	runs, resp, err := c.gh.Actions.ListRepositoryWorkflowRuns(ctx, owner, repo, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return nil, c.wrapError(err, "list workflow runs")
	}

	return runs, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
// Rate limit errors keep their go-github type so the classifier can read
// the structured reset time.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateLimitErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%s: %w", operation, err)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		if limitErr := tooManyRequests(ghErr); limitErr != nil {
			return fmt.Errorf("%s: %w", operation, limitErr)
		}
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			Err:        err,
		}
		if ghErr.Response.Request != nil && ghErr.Response.Request.URL != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}

// tooManyRequests builds a RateLimitError from a 429 response, which go-github
// reports as a plain ErrorResponse. A 403 with an exhausted quota already
// arrives as *gh.RateLimitError. Bodies carrying the cooldown message are
// left to the text rule.
func tooManyRequests(e *gh.ErrorResponse) *RateLimitError {
	resp := e.Response
	if resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}
	if _, ok := CooldownSeconds(e.Message); ok {
		return nil
	}

	limitErr := &RateLimitError{}
	if v, ok := headerInt(resp.Header, HeaderRateRemaining); ok {
		limitErr.Remaining = int(v)
	}
	if v, ok := headerInt(resp.Header, HeaderRateLimit); ok {
		limitErr.Limit = int(v)
	}
	if v, ok := headerInt(resp.Header, HeaderRetryAfter); ok {
		limitErr.ResetAt = now().Add(time.Duration(v) * time.Second)
	} else if v, ok := headerInt(resp.Header, HeaderRateReset); ok {
		limitErr.ResetAt = time.Unix(v, 0)
	}
	return limitErr
}
