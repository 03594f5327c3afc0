package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"librarian/internal/bookmarks"
	"librarian/internal/config"
	"librarian/internal/extract"
	"librarian/internal/handlers"
	"librarian/internal/index"
	"librarian/internal/indexer"
	"librarian/internal/llm"
	"librarian/internal/search"
	"librarian/internal/storage"
	"librarian/internal/trieve"
	"librarian/internal/vectorstore"
)

// app holds the long-lived handles shared by every command.
type app struct {
	cfg      *config.Config
	db       *sql.DB
	source   bookmarks.Source
	backend  index.Backend
	state    *storage.RunStateRepo
	ledger   *storage.ChunkRepo
	pipeline *indexer.Pipeline
	searcher *search.Searcher
	closers  []func() error
}

// newApp opens the database, builds the configured index backend and wires
// the sync pipeline and searcher. progress may be nil.
func newApp(ctx context.Context, cfg *config.Config, progress indexer.ProgressReporter) (*app, error) {
	a := &app{cfg: cfg}

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db
	a.closers = append(a.closers, db.Close)

	if err := storage.Migrate(db); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.InfoContext(ctx, "Database initialized", "path", cfg.DBPath)

	a.state = storage.NewRunStateRepo(db)
	a.ledger = storage.NewChunkRepo(db)
	a.source = bookmarks.OpenSource(cfg.BookmarksPath)

	backend, err := a.newBackend(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.backend = backend

	opts := []indexer.Option{
		indexer.WithConcurrency(cfg.SyncConcurrency),
		indexer.WithExcludePatterns(cfg.ExcludePatterns...),
	}
	if progress != nil {
		opts = append(opts, indexer.WithProgress(progress))
	}
	pipeline, err := indexer.NewPipeline(a.source, extract.New(), a.backend, a.state, a.ledger, opts...)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("failed to create sync pipeline: %w", err)
	}
	a.pipeline = pipeline

	a.searcher = search.NewSearcher(a.source, a.backend, a.ledger, cfg.ScoreThreshold, cfg.PageSize)
	return a, nil
}

func (a *app) newBackend(ctx context.Context) (index.Backend, error) {
	cfg := a.cfg
	switch cfg.IndexBackend {
	case config.BackendLocal:
		store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
		}
		a.closers = append(a.closers, store.Close)

		if err := store.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
			return nil, fmt.Errorf("failed to ensure Qdrant collection: %w", err)
		}
		slog.InfoContext(ctx, "Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

		var embedder index.Embedder
		if cfg.EmbeddingsProvider == config.EmbeddingsOpenAI {
			embedder = llm.NewOpenAIEmbedder(cfg.EmbeddingsAPIKey, cfg.EmbeddingsBaseURL, cfg.EmbeddingsModel, cfg.QdrantVectorSize)
		} else {
			embedder = llm.NewEmbeddingsClient(cfg.EmbeddingsBaseURL, cfg.EmbeddingsAPIKey, cfg.EmbeddingsModel, cfg.QdrantVectorSize)
		}

		// Validate embedding client vector size (fail-fast)
		vectors, err := embedder.EmbedTexts(ctx, []string{"test"})
		if err != nil {
			return nil, fmt.Errorf("failed to validate embedding client: %w", err)
		}
		if len(vectors) == 0 || len(vectors[0]) != cfg.QdrantVectorSize {
			return nil, fmt.Errorf("embedding vector size mismatch: expected %d", cfg.QdrantVectorSize)
		}
		slog.InfoContext(ctx, "Embedding client validated", "provider", cfg.EmbeddingsProvider, "vector_size", cfg.QdrantVectorSize)

		return index.NewLocalBackend(embedder, store, cfg.QdrantCollection), nil

	case config.BackendRemote:
		client := trieve.NewClient(
			cfg.TrieveBaseURL,
			trieve.StaticHeaders{APIKey: cfg.TrieveAPIKey, DatasetID: cfg.TrieveDatasetID},
			trieve.WithRateLimit(cfg.TrieveRPS, cfg.SyncConcurrency),
		)
		slog.InfoContext(ctx, "Trieve client ready", "base_url", client.BaseURL, "rps", cfg.TrieveRPS)
		return index.NewRemoteBackend(client), nil

	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.IndexBackend)
	}
}

// healthChecks lists the dependencies /api/health probes.
func (a *app) healthChecks() map[string]handlers.HealthCheck {
	return map[string]handlers.HealthCheck{
		"database":     a.db.PingContext,
		"search_index": a.backend.Ping,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
