package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/logger"
)

const (
	// DefaultPerPage is the repository search page size.
	DefaultPerPage = 5

	// DefaultMaxResults is the number of search results GitHub serves per query.
	DefaultMaxResults = 1000
)

// CollectorConfig tunes repository pagination.
type CollectorConfig struct {
	// PerPage is the repository search page size.
	PerPage int

	// MaxResults caps progress for searches whose total exceeds what the API
	// will page through. Zero disables the cap.
	MaxResults int
}

// Collector pages through the GitHub API and writes one snapshot per page or parent.
type Collector struct {
	fetcher   driven.Fetcher
	snapshots driven.SnapshotStore
	sleep     Sleeper
	cfg       CollectorConfig
}

// NewCollector creates a collector. A nil sleep uses ContextSleep.
func NewCollector(
	fetcher driven.Fetcher,
	snapshots driven.SnapshotStore,
	sleep Sleeper,
	cfg CollectorConfig,
) *Collector {
	if sleep == nil {
		sleep = ContextSleep
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = DefaultPerPage
	}
	return &Collector{
		fetcher:   fetcher,
		snapshots: snapshots,
		sleep:     sleep,
		cfg:       cfg,
	}
}

// Collect fetches a category to exhaustion.
// Repositories need a search term; workflow runs are fetched for every
// repository found in the repository snapshots.
func (c *Collector) Collect(ctx context.Context, category domain.Category, term string) (*domain.CollectReport, error) {
	switch category {
	case domain.CategoryRepositories:
		return c.collectRepositories(ctx, term)
	case domain.CategoryWorkflowRuns:
		return c.collectWorkflowRuns(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, category)
	}
}

func (c *Collector) collectRepositories(ctx context.Context, term string) (*domain.CollectReport, error) {
	report := &domain.CollectReport{Category: domain.CategoryRepositories}
	logger.Info("search term: %s", term)

	page := 1
	for {
		result, err := c.fetcher.FetchRepositories(ctx, term, page, c.cfg.PerPage)
		report.Calls++
		if err != nil {
			return report, err
		}

		if result.ShouldRetry {
			report.Retries++
			logger.Warn("page %d throttled, sleeping %s", page, result.RetryAfter)
			if err := c.sleep(ctx, result.RetryAfter); err != nil {
				return report, err
			}
			continue
		}

		if _, err := c.snapshots.Write(domain.CategoryRepositories, strconv.Itoa(page), result.Items); err != nil {
			return report, err
		}
		report.Files++
		report.Documents += len(result.Items)
		report.Total = result.Total

		progress := page * c.cfg.PerPage
		logger.Info("progress/total: %d/%d", progress, result.Total)

		if progress >= c.limit(result.Total) {
			break
		}
		if len(result.Items) == 0 {
			logger.Warn("page %d was empty before reaching total %d, stopping", page, result.Total)
			break
		}
		page++
	}

	logger.Info("download complete: %d repositories in %d pages", report.Documents, report.Files)
	return report, nil
}

func (c *Collector) limit(total int) int {
	if c.cfg.MaxResults > 0 && total > c.cfg.MaxResults {
		return c.cfg.MaxResults
	}
	return total
}

func (c *Collector) collectWorkflowRuns(ctx context.Context) (*domain.CollectReport, error) {
	report := &domain.CollectReport{Category: domain.CategoryWorkflowRuns}

	parents, err := c.parents()
	if err != nil {
		return report, err
	}
	report.Total = len(parents)

	for i := 0; i < len(parents); {
		parent := parents[i]
		logger.Debug("owner %s repo %s branch %s", parent.Owner, parent.Name, parent.DefaultBranch)

		result, err := c.fetcher.FetchWorkflowRuns(ctx, parent)
		report.Calls++
		if err != nil {
			return report, err
		}

		if result.ShouldRetry {
			report.Retries++
			logger.Warn("%s throttled, sleeping %s", parent.FullName(), result.RetryAfter)
			if err := c.sleep(ctx, result.RetryAfter); err != nil {
				return report, err
			}
			continue
		}

		if len(result.Items) > 0 {
			if _, err := c.snapshots.Write(domain.CategoryWorkflowRuns, parent.Identifier(), result.Items); err != nil {
				return report, err
			}
			report.Files++
			report.Documents += len(result.Items)
		}

		i++
		logger.Info("progress/total: %d/%d", i, len(parents))
	}

	return report, nil
}

// parents reads the repository snapshots, skipping records without owner
// or name and repeats across pages.
func (c *Collector) parents() ([]domain.Parent, error) {
	set, err := c.snapshots.Load(domain.CategoryRepositories)
	if err != nil {
		return nil, fmt.Errorf("load repository snapshots: %w", err)
	}

	seen := make(map[string]bool)
	var parents []domain.Parent
	for _, doc := range set.Documents() {
		p, err := domain.ParentFromDocument(doc)
		if err != nil {
			logger.Warn("skipping repository: %v", err)
			continue
		}
		if seen[p.FullName()] {
			continue
		}
		seen[p.FullName()] = true
		parents = append(parents, p)
	}
	return parents, nil
}
