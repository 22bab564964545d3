package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

// Verify interface compliance.
var _ driven.Fetcher = (*Fetcher)(nil)

// Fetcher issues one GitHub call per fetch and turns the response into documents.
type Fetcher struct {
	client *Client
	config *Config
}

// NewFetcher creates a fetcher. A nil config uses DefaultConfig.
func NewFetcher(client *Client, cfg *Config) *Fetcher {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Fetcher{client: client, config: cfg}
}

// FetchRepositories fetches one page of repository search results.
func (f *Fetcher) FetchRepositories(ctx context.Context, term string, page, perPage int) (domain.FetchResult, error) {
	if strings.TrimSpace(term) == "" {
		return domain.FetchResult{}, ErrEmptySearchTerm
	}

	opts := &gh.SearchOptions{
		Sort:  f.config.Sort,
		Order: f.config.Order,
		ListOptions: gh.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	result, err := f.client.SearchRepositories(ctx, f.config.BuildQuery(term), opts)
	if err != nil {
		return f.handleError(err, fmt.Sprintf("search repositories page %d", page))
	}

	items := make([]domain.Document, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		logger.Info("repository: %s", repo.GetFullName())
		doc, err := toDocument(repo)
		if err != nil {
			return domain.FetchResult{}, fmt.Errorf("%w: encode repository %s: %w", domain.ErrRemote, repo.GetFullName(), err)
		}
		items = append(items, doc)
	}

	return domain.FetchResult{Items: items, Total: result.GetTotal()}, nil
}

// FetchWorkflowRuns fetches the first page of workflow runs on the parent's default branch.
func (f *Fetcher) FetchWorkflowRuns(ctx context.Context, parent domain.Parent) (domain.FetchResult, error) {
	opts := &gh.ListWorkflowRunsOptions{
		Branch:  parent.DefaultBranch,
		Created: f.config.Created,
		ListOptions: gh.ListOptions{
			Page:    1,
			PerPage: f.config.WorkflowPerPage,
		},
	}

	runs, err := f.client.ListWorkflowRuns(ctx, parent.Owner, parent.Name, opts)
	if err != nil {
		return f.handleError(err, "list workflow runs for "+parent.FullName())
	}

	items := make([]domain.Document, 0, len(runs.WorkflowRuns))
	for _, run := range runs.WorkflowRuns {
		logger.Info("workflow run: %s", run.GetName())
		doc, err := toDocument(run)
		if err != nil {
			return domain.FetchResult{}, fmt.Errorf("%w: encode workflow run %d: %w", domain.ErrRemote, run.GetID(), err)
		}
		items = append(items, doc)
	}

	return domain.FetchResult{Items: items, Total: runs.GetTotalCount()}, nil
}

// handleError turns throttling into a retry result and everything else into a fatal error.
func (f *Fetcher) handleError(err error, operation string) (domain.FetchResult, error) {
	if wait := Classify(err); wait > 0 {
		logger.Warn("%s: rate limited, retrying in %s", operation, wait)
		return domain.Retry(wait), nil
	}
	if IsUnauthorized(err) {
		logger.Warn("%s: unauthorized, check GITHUB_TOKEN", operation)
	}
	return domain.FetchResult{}, fmt.Errorf("%w: %s: %w", domain.ErrRemote, operation, err)
}

func toDocument(v any) (domain.Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return domain.Document{}, err
	}
	return domain.NewDocument(raw)
}
