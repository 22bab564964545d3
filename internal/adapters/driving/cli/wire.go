package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/custodia-labs/ghpipe/internal/adapters/driven/archive/exec"
	"github.com/custodia-labs/ghpipe/internal/adapters/driven/archive/native"
	"github.com/custodia-labs/ghpipe/internal/adapters/driven/auth"
	"github.com/custodia-labs/ghpipe/internal/adapters/driven/snapshot/file"
	"github.com/custodia-labs/ghpipe/internal/adapters/driven/storage/mongo"
	"github.com/custodia-labs/ghpipe/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ghpipe/internal/config"
	"github.com/custodia-labs/ghpipe/internal/connectors/github"
	"github.com/custodia-labs/ghpipe/internal/core/domain"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driven"
	"github.com/custodia-labs/ghpipe/internal/core/ports/driving"
	"github.com/custodia-labs/ghpipe/internal/core/services"
)

// BuildPipeline wires the adapters named by cfg into a pipeline.
// The document store connects on first use, so collect and archive steps
// run without one.
func BuildPipeline(cfg *config.Config) (driving.Pipeline, func() error, error) {
	layout, err := domain.NewLayout(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	snapshots := file.NewStore(layout)

	fetcher, err := newFetcher(cfg.GitHub)
	if err != nil {
		return nil, nil, err
	}
	collector := services.NewCollector(fetcher, snapshots, services.ContextSleep, services.CollectorConfig{
		PerPage:    cfg.GitHub.PerPage,
		MaxResults: cfg.GitHub.MaxResults,
	})

	archiver, cipher := newArchiveBackend(cfg.Archive)
	archives := services.NewArchiveManager(layout, archiver, cipher, cfg.Archive.Passphrase)

	store := &lazyStore{open: func(ctx context.Context) (driven.DocumentStore, error) {
		return openStore(ctx, cfg)
	}}
	storeSync := services.NewStoreSync(snapshots, store)
	return services.NewPipelineOrchestrator(collector, archives, storeSync, snapshots), store.Close, nil
}

func newFetcher(g config.GitHubConfig) (*github.Fetcher, error) {
	opts := []github.Option{github.WithRateLimiter(github.NewRateLimiter(g.RequestsPerSecond))}
	if g.BaseURL != "" {
		opts = append(opts, github.WithBaseURL(g.BaseURL))
	}
	client := github.NewClient(auth.NewTokenProvider(g.Token), opts...)

	fc := &github.Config{
		QueryTemplate:   g.QueryTemplate,
		Sort:            g.Sort,
		Order:           g.Order,
		WorkflowPerPage: g.WorkflowPerPage,
		Created:         g.Created,
	}
	if err := fc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return github.NewFetcher(client, fc), nil
}

func newArchiveBackend(a config.ArchiveConfig) (driven.Archiver, driven.Cipher) {
	if a.Backend == config.BackendExec {
		runner := exec.CommandRunner{}
		return exec.NewArchiver(runner, a.TarBinary), exec.NewCipher(runner, a.GPGBinary)
	}
	return native.NewArchiver(), native.NewCipher()
}

func openStore(ctx context.Context, cfg *config.Config) (driven.DocumentStore, error) {
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		path := cfg.Store.SQLitePath
		if path == "" {
			path = filepath.Join(cfg.DataDir, "store", sqlite.DefaultFileName)
		}
		return sqlite.NewStore(path)
	default:
		timeout := time.Duration(cfg.Store.TimeoutSeconds) * time.Second
		return mongo.NewStore(ctx, cfg.Store.ConnectionString, cfg.Store.Database, timeout)
	}
}

// lazyStore defers opening the document store until a method needs it.
// A failed open is remembered and returned by every later call.
type lazyStore struct {
	open func(ctx context.Context) (driven.DocumentStore, error)

	mu      sync.Mutex
	store   driven.DocumentStore
	openErr error
	opened  bool
}

var _ driven.DocumentStore = (*lazyStore)(nil)

func (s *lazyStore) get(ctx context.Context) (driven.DocumentStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.opened {
		s.store, s.openErr = s.open(ctx)
		s.opened = true
	}
	return s.store, s.openErr
}

func (s *lazyStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	store, err := s.get(ctx)
	if err != nil {
		return nil, err
	}
	return store.ListCollectionNames(ctx)
}

func (s *lazyStore) Drop(ctx context.Context, collection string) error {
	store, err := s.get(ctx)
	if err != nil {
		return err
	}
	return store.Drop(ctx, collection)
}

func (s *lazyStore) InsertMany(ctx context.Context, collection string, docs []domain.Document) error {
	store, err := s.get(ctx)
	if err != nil {
		return err
	}
	return store.InsertMany(ctx, collection, docs)
}

func (s *lazyStore) Upsert(ctx context.Context, collection string, doc domain.Document) error {
	store, err := s.get(ctx)
	if err != nil {
		return err
	}
	return store.Upsert(ctx, collection, doc)
}

// Close closes the store if it was opened.
func (s *lazyStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}
