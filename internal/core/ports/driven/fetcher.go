package driven

import (
	"context"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
)

// Fetcher issues exactly one remote call per invocation.
// Throttled calls return a result with ShouldRetry set instead of an error;
// any returned error is fatal for the run.
type Fetcher interface {
	// FetchRepositories fetches one page of repositories matching a search term.
	FetchRepositories(ctx context.Context, term string, page, perPage int) (domain.FetchResult, error)

	// FetchWorkflowRuns fetches the workflow runs of one repository.
	FetchWorkflowRuns(ctx context.Context, parent domain.Parent) (domain.FetchResult, error)
}
