package indexer

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"librarian/internal/bookmarks"
	"librarian/internal/contextutil"
	"librarian/internal/index"
	"librarian/internal/storage"
)

// DefaultConcurrency is how many bookmarks sync at once.
const DefaultConcurrency = 8

// progressEvery is how often the completed counter is persisted.
const progressEvery = 10

// Pipeline syncs bookmarks into an index backend.
type Pipeline struct {
	source      bookmarks.Source
	extractor   ContentExtractor
	backend     index.Backend
	state       storage.RunStateStore
	ledger      storage.ChunkLedger
	concurrency int
	exclude     []string
	progress    ProgressReporter
	running     atomic.Bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithConcurrency bounds how many bookmarks sync at once. n <= 0 selects
// DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithExcludePatterns skips URLs matching any of the doublestar patterns.
func WithExcludePatterns(patterns ...string) Option {
	return func(p *Pipeline) {
		p.exclude = append(p.exclude, patterns...)
	}
}

// WithProgress reports sync progress.
func WithProgress(r ProgressReporter) Option {
	return func(p *Pipeline) {
		if r != nil {
			p.progress = r
		}
	}
}

// NewPipeline creates a sync pipeline. ledger may be nil.
func NewPipeline(
	source bookmarks.Source,
	extractor ContentExtractor,
	backend index.Backend,
	state storage.RunStateStore,
	ledger storage.ChunkLedger,
	opts ...Option,
) (*Pipeline, error) {
	p := &Pipeline{
		source:      source,
		extractor:   extractor,
		backend:     backend,
		state:       state,
		ledger:      ledger,
		concurrency: DefaultConcurrency,
		progress:    noopProgress{},
	}
	for _, opt := range opts {
		opt(p)
	}

	for _, pattern := range p.exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return p, nil
}

// Running reports whether SyncAll is in progress.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// SyncBookmark makes sure one bookmark is in the index. A bookmark whose
// first chunk already exists is left alone; so is one whose existence check
// fails. Otherwise its chunks are extracted and uploaded in order, and a
// failed chunk does not stop the rest. Failures are logged, never returned.
func (p *Pipeline) SyncBookmark(ctx context.Context, entry bookmarks.Entry) BookmarkResult {
	logger := contextutil.LoggerFromContext(ctx).With("url", entry.URL)

	if p.excluded(entry.URL) {
		logger.DebugContext(ctx, "bookmark excluded")
		return BookmarkResult{Status: StatusExcluded}
	}

	exists, err := p.backend.Exists(ctx, TrackingID(entry.URL, 0))
	if err != nil {
		logger.DebugContext(ctx, "existence check failed, skipping bookmark", "error", err)
		return BookmarkResult{Status: StatusCheckFailed}
	}
	if exists {
		logger.DebugContext(ctx, "bookmark already indexed")
		return BookmarkResult{Status: StatusExists}
	}

	chunks := p.extractor.Extract(ctx, entry.URL, entry.Title)

	var result BookmarkResult
	for i, text := range chunks {
		chunk := index.Chunk{
			TrackingID: TrackingID(entry.URL, i),
			Link:       entry.URL,
			HTML:       text,
			Index:      i,
		}
		if err := p.backend.Upsert(ctx, chunk); err != nil {
			logger.WarnContext(ctx, "failed to upload chunk", "tracking_id", chunk.TrackingID, "error", err)
			result.ChunkFailures++
			continue
		}
		result.ChunksUploaded++
		p.record(ctx, chunk)
	}

	if result.ChunksUploaded == 0 && result.ChunkFailures > 0 {
		result.Status = StatusFailed
	} else {
		result.Status = StatusIndexed
	}

	logger.InfoContext(ctx, "bookmark synced", "status", result.Status.String(), "chunks", result.ChunksUploaded, "failures", result.ChunkFailures)
	return result
}

// SyncAll syncs every bookmark from the source with bounded concurrency and
// persists progress. Only one SyncAll runs at a time; a concurrent call
// returns ErrSyncInProgress. Cancelling ctx stops new bookmarks from
// starting and lets in-flight ones finish.
func (p *Pipeline) SyncAll(ctx context.Context) (SyncSummary, error) {
	if !p.running.CompareAndSwap(false, true) {
		return SyncSummary{}, ErrSyncInProgress
	}
	defer p.running.Store(false)
	return p.syncAll(ctx)
}

// StartSync runs SyncAll on a new goroutine. It returns false without
// starting anything when a sync is already running. done, if not nil, is
// called with the result after the run is released.
func (p *Pipeline) StartSync(ctx context.Context, done func(SyncSummary, error)) bool {
	if !p.running.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		summary, err := p.syncAll(ctx)
		p.running.Store(false)
		if done != nil {
			done(summary, err)
		}
	}()
	return true
}

func (p *Pipeline) syncAll(ctx context.Context) (SyncSummary, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	tree, err := p.source.Tree(ctx)
	if err != nil {
		return SyncSummary{}, fmt.Errorf("failed to read bookmarks: %w", err)
	}
	entries := bookmarks.Flatten(tree)
	total := len(entries)
	duplicates := countDuplicates(entries)
	if duplicates > 0 {
		logger.DebugContext(ctx, "bookmark file lists some URLs more than once", "duplicates", duplicates)
	}

	// Progress writes must land even if ctx is cancelled mid-run.
	stateCtx := context.WithoutCancel(ctx)
	if err := p.state.StartRun(stateCtx, total); err != nil {
		logger.WarnContext(ctx, "failed to persist run start", "error", err)
	}

	logger.InfoContext(ctx, "starting sync", "bookmarks", total, "backend", p.backend.Name(), "concurrency", p.concurrency)
	p.progress.Start(total)

	var (
		mu        sync.Mutex
		completed int
		summary   = SyncSummary{Total: total, Duplicates: duplicates}
	)

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			result := p.SyncBookmark(ctx, entry)

			mu.Lock()
			defer mu.Unlock()

			summary.add(result)
			completed++
			if completed%progressEvery == 0 || completed == total {
				if err := p.state.SetCompleted(stateCtx, completed); err != nil {
					logger.WarnContext(ctx, "failed to persist progress", "completed", completed, "error", err)
				}
			}
			p.progress.Increment()
			return nil
		})
	}
	_ = g.Wait()

	if err := p.state.FinishRun(stateCtx); err != nil {
		logger.WarnContext(ctx, "failed to persist run end", "error", err)
	}
	p.progress.Finish()

	summary.Duration = time.Since(start)
	logger.InfoContext(ctx, "sync completed",
		"total", summary.Total,
		"indexed", summary.Indexed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"chunks", summary.ChunksUploaded,
		"chunk_failures", summary.ChunkFailures,
		"duplicates", summary.Duplicates,
		"duration", summary.Duration,
	)

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// countDuplicates returns how many entries repeat a URL seen earlier.
func countDuplicates(entries []bookmarks.Entry) int {
	seen := make(map[string]struct{}, len(entries))
	n := 0
	for _, e := range entries {
		if _, ok := seen[e.URL]; ok {
			n++
			continue
		}
		seen[e.URL] = struct{}{}
	}
	return n
}

func (p *Pipeline) excluded(url string) bool {
	for _, pattern := range p.exclude {
		if ok, _ := doublestar.Match(pattern, url); ok {
			return true
		}
	}
	return false
}

func (p *Pipeline) record(ctx context.Context, chunk index.Chunk) {
	if p.ledger == nil {
		return
	}
	err := p.ledger.Record(ctx, &storage.ChunkRecord{
		TrackingID: chunk.TrackingID,
		Link:       chunk.Link,
		ChunkIndex: chunk.Index,
		Backend:    p.backend.Name(),
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to record chunk", "tracking_id", chunk.TrackingID, "error", err)
	}
}
