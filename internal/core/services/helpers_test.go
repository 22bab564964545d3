package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghpipe/internal/adapters/driven/snapshot/file"
	"github.com/custodia-labs/ghpipe/internal/core/domain"
)

// fakeFetcher scripts fetch results per page or per parent.
type fakeFetcher struct {
	repoFn func(page int) (domain.FetchResult, error)
	runFn  func(parent domain.Parent) (domain.FetchResult, error)

	pages   []int
	parents []string
}

func (f *fakeFetcher) FetchRepositories(_ context.Context, _ string, page, _ int) (domain.FetchResult, error) {
	f.pages = append(f.pages, page)
	return f.repoFn(page)
}

func (f *fakeFetcher) FetchWorkflowRuns(_ context.Context, parent domain.Parent) (domain.FetchResult, error) {
	f.parents = append(f.parents, parent.FullName())
	return f.runFn(parent)
}

// fakeSleeper records requested cooldowns without waiting.
type fakeSleeper struct {
	waits []time.Duration
	err   error
}

func (s *fakeSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return s.err
}

// pagedRepos returns a repoFn serving total records in pages of perPage.
func pagedRepos(total, perPage int) func(page int) (domain.FetchResult, error) {
	return func(page int) (domain.FetchResult, error) {
		var items []domain.Document
		for i := (page - 1) * perPage; i < page*perPage && i < total; i++ {
			items = append(items, repoDoc("octo", fmt.Sprintf("repo%d", i)))
		}
		return domain.FetchResult{Items: items, Total: total}, nil
	}
}

func repoDoc(owner, name string) domain.Document {
	return domain.MustDocument(fmt.Sprintf(
		`{"url":"https://api.github.com/repos/%[1]s/%[2]s","name":"%[2]s","full_name":"%[1]s/%[2]s","default_branch":"main","owner":{"login":"%[1]s"}}`,
		owner, name))
}

func runDoc(owner, name string, id int) domain.Document {
	return domain.MustDocument(fmt.Sprintf(
		`{"url":"https://api.github.com/repos/%s/%s/actions/runs/%d","id":%d,"name":"CI"}`,
		owner, name, id, id))
}

func newLayout(t *testing.T) domain.Layout {
	t.Helper()
	layout, err := domain.NewLayout(filepath.Join(t.TempDir(), ".data"))
	require.NoError(t, err)
	return layout
}

func newSnapshots(t *testing.T) (*file.Store, domain.Layout) {
	t.Helper()
	layout := newLayout(t)
	return file.NewStore(layout), layout
}

func writeSnapshot(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}
