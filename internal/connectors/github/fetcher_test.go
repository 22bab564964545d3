package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
)

// mockTokenProvider implements driven.TokenProvider for testing.
type mockTokenProvider struct {
	token string
	err   error
}

func (p *mockTokenProvider) GetToken(_ context.Context) (string, error) {
	return p.token, p.err
}

func (p *mockTokenProvider) IsAuthenticated() bool {
	return p.token != ""
}

func newTestFetcher(t *testing.T, handler http.HandlerFunc) *Fetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(
		&mockTokenProvider{token: "test-token"},
		WithBaseURL(srv.URL),
		WithRateLimiter(NewRateLimiter(0)),
	)
	return NewFetcher(client, DefaultConfig())
}

const searchResponse = `{
  "total_count": 12,
  "incomplete_results": false,
  "items": [
    {"id": 1, "name": "alpha", "full_name": "octo/alpha", "url": "https://api.github.com/repos/octo/alpha",
     "default_branch": "main", "owner": {"login": "octo"}},
    {"id": 2, "name": "beta", "full_name": "octo/beta", "url": "https://api.github.com/repos/octo/beta",
     "default_branch": "trunk", "owner": {"login": "octo"}}
  ]
}`

func TestFetcher_FetchRepositories(t *testing.T) {
	t.Run("returns items and total", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search/repositories", r.URL.Path)
			assert.Equal(t, "octo in:name in:description in:readme user:octo", r.URL.Query().Get("q"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "5", r.URL.Query().Get("per_page"))
			assert.Equal(t, "asc", r.URL.Query().Get("order"))
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, searchResponse)
		})

		result, err := f.FetchRepositories(context.Background(), "octo", 2, 5)

		require.NoError(t, err)
		assert.False(t, result.ShouldRetry)
		assert.Equal(t, 12, result.Total)
		require.Len(t, result.Items, 2)
		assert.Equal(t, []string{
			"https://api.github.com/repos/octo/alpha",
			"https://api.github.com/repos/octo/beta",
		}, domain.Keys(result.Items))

		parent, err := domain.ParentFromDocument(result.Items[1])
		require.NoError(t, err)
		assert.Equal(t, domain.Parent{Owner: "octo", Name: "beta", DefaultBranch: "trunk"}, parent)
	})

	t.Run("primary rate limit asks for retry", func(t *testing.T) {
		reset := time.Now().Add(30 * time.Second).Unix()
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(HeaderRateRemaining, "0")
			w.Header().Set(HeaderRateLimit, "30")
			w.Header().Set(HeaderRateReset, strconv.FormatInt(reset, 10))
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "API rate limit exceeded"}`)
		})

		result, err := f.FetchRepositories(context.Background(), "octo", 1, 30)

		require.NoError(t, err)
		assert.True(t, result.ShouldRetry)
		assert.Empty(t, result.Items)
		assert.InDelta(t, 30, result.RetryAfter.Seconds(), 1)
	})

	t.Run("secondary rate limit uses retry after", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "7")
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "You have exceeded a secondary rate limit.",
				"documentation_url": "https://docs.github.com/rest/overview/rate-limits-for-the-rest-api#about-secondary-rate-limits"}`)
		})

		result, err := f.FetchRepositories(context.Background(), "octo", 1, 30)

		require.NoError(t, err)
		assert.True(t, result.ShouldRetry)
		assert.Equal(t, 7*time.Second, result.RetryAfter)
	})

	t.Run("rate limit message asks for retry", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"message": "Rate limited for the next 12 seconds"}`)
		})

		result, err := f.FetchRepositories(context.Background(), "octo", 1, 30)

		require.NoError(t, err)
		assert.True(t, result.ShouldRetry)
		assert.Equal(t, 12*time.Second, result.RetryAfter)
	})

	t.Run("too many requests uses retry after", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "9")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"message": "Too many requests"}`)
		})

		result, err := f.FetchRepositories(context.Background(), "octo", 1, 30)

		require.NoError(t, err)
		assert.True(t, result.ShouldRetry)
		assert.InDelta(t, 9, result.RetryAfter.Seconds(), 1)
	})

	t.Run("too many requests without headers uses default cooldown", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"message": "Too many requests"}`)
		})

		result, err := f.FetchRepositories(context.Background(), "octo", 1, 30)

		require.NoError(t, err)
		assert.True(t, result.ShouldRetry)
		assert.Equal(t, DefaultSecondaryCooldown, result.RetryAfter)
	})

	t.Run("unauthorized is fatal", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
		})

		_, err := f.FetchRepositories(context.Background(), "octo", 1, 30)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRemote)
		assert.True(t, IsUnauthorized(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("other errors are fatal", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"message": "Validation Failed"}`)
		})

		_, err := f.FetchRepositories(context.Background(), "octo", 1, 30)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrRemote))
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	})

	t.Run("empty term is rejected without a call", func(t *testing.T) {
		called := false
		f := newTestFetcher(t, func(http.ResponseWriter, *http.Request) { called = true })

		_, err := f.FetchRepositories(context.Background(), "  ", 1, 30)

		assert.ErrorIs(t, err, ErrEmptySearchTerm)
		assert.False(t, called)
	})
}

func TestFetcher_FetchWorkflowRuns(t *testing.T) {
	t.Run("lists runs on the default branch", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/octo/alpha/actions/runs", r.URL.Path)
			assert.Equal(t, "main", r.URL.Query().Get("branch"))
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"total_count": 2, "workflow_runs": [
				{"id": 10, "name": "CI", "url": "https://api.github.com/repos/octo/alpha/actions/runs/10"},
				{"id": 11, "name": "Release", "url": "https://api.github.com/repos/octo/alpha/actions/runs/11"}
			]}`)
		})

		result, err := f.FetchWorkflowRuns(context.Background(), domain.Parent{Owner: "octo", Name: "alpha", DefaultBranch: "main"})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Total)
		assert.Equal(t, []string{
			"https://api.github.com/repos/octo/alpha/actions/runs/10",
			"https://api.github.com/repos/octo/alpha/actions/runs/11",
		}, domain.Keys(result.Items))
	})

	t.Run("not found is fatal", func(t *testing.T) {
		f := newTestFetcher(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
		})

		_, err := f.FetchWorkflowRuns(context.Background(), domain.Parent{Owner: "octo", Name: "gone"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRemote)
		assert.True(t, IsNotFound(err))
	})
}

func TestClient_TokenError(t *testing.T) {
	client := NewClient(&mockTokenProvider{err: errors.New("keychain locked")}, WithRateLimiter(NewRateLimiter(0)))

	_, err := client.SearchRepositories(context.Background(), "q", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "keychain locked")
}

func TestClient_TooManyRequestsIsRateLimitError(t *testing.T) {
	reset := time.Now().Add(20 * time.Second).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "30")
		w.Header().Set("X-RateLimit-Remaining", "3")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message": "Too many requests"}`)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(&mockTokenProvider{token: "t"}, WithBaseURL(srv.URL), WithRateLimiter(NewRateLimiter(0)))

	_, err := client.SearchRepositories(context.Background(), "q", nil)

	var limitErr *RateLimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, time.Unix(reset, 0), limitErr.ResetAt)
	assert.Equal(t, 3, limitErr.Remaining)
	assert.Equal(t, 30, limitErr.Limit)
	assert.InDelta(t, 20, Classify(err).Seconds(), 2)
}
