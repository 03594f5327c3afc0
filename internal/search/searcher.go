package search

import (
	"context"
	"strings"

	"librarian/internal/bookmarks"
	"librarian/internal/contextutil"
	"librarian/internal/index"
	"librarian/internal/service"
	"librarian/internal/storage"
)

// DefaultScoreThreshold drops weak matches.
const DefaultScoreThreshold = 0.05

// Response is the answer to a query.
type Response struct {
	Result  []Result `json:"result"`
	DBCount int      `json:"dbCount"`
}

// Searcher runs queries against an index backend.
type Searcher struct {
	source    bookmarks.Source
	backend   index.Backend
	ledger    storage.ChunkLedger
	threshold float64
	pageSize  int
}

// NewSearcher creates a Searcher. threshold <= 0 selects
// DefaultScoreThreshold and pageSize <= 0 selects index.DefaultPageSize.
// ledger may be nil, in which case DBCount is always 0.
func NewSearcher(source bookmarks.Source, backend index.Backend, ledger storage.ChunkLedger, threshold float64, pageSize int) *Searcher {
	if threshold <= 0 {
		threshold = DefaultScoreThreshold
	}
	if pageSize <= 0 {
		pageSize = index.DefaultPageSize
	}
	return &Searcher{
		source:    source,
		backend:   backend,
		ledger:    ledger,
		threshold: threshold,
		pageSize:  pageSize,
	}
}

// Search queries the backend and assembles results against the current
// bookmarks. Backend failures wrap service.ErrExternalService.
func (s *Searcher) Search(ctx context.Context, query string) (*Response, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &service.ValidationError{Field: "query", Message: "query cannot be empty"}
	}

	hits, err := s.backend.Search(ctx, index.SearchParams{
		Query:          query,
		ScoreThreshold: s.threshold,
		PageSize:       s.pageSize,
	})
	if err != nil {
		logger.ErrorContext(ctx, "index search failed", "backend", s.backend.Name(), "error", err)
		return nil, service.ExternalError(err, "search index")
	}

	var entries []bookmarks.Entry
	tree, err := s.source.Tree(ctx)
	if err != nil {
		// Results still carry their links as titles.
		logger.WarnContext(ctx, "failed to read bookmarks for titles", "error", err)
	} else {
		entries = bookmarks.Flatten(tree)
	}

	resp := &Response{Result: AssembleResults(hits, entries, s.threshold)}

	if s.ledger != nil {
		count, err := s.ledger.Count(ctx)
		if err != nil {
			logger.WarnContext(ctx, "failed to count indexed chunks", "error", err)
		} else {
			resp.DBCount = count
		}
	}

	logger.InfoContext(ctx, "search completed", "query", query, "hits", len(hits), "results", len(resp.Result))
	return resp, nil
}
