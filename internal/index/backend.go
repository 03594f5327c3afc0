// Package index defines the search index a bookmark corpus is synced into and
// the two backends that implement it.
package index

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_backend.go -package=mocks librarian/internal/index Backend

import "context"

// Chunk is one piece of bookmark text registered with the index.
type Chunk struct {
	TrackingID string
	Link       string
	HTML       string
	Index      int
}

// ChunkMetadata is a stored chunk as returned in a search hit.
type ChunkMetadata struct {
	Link      string `json:"link"`
	ChunkHTML string `json:"chunk_html"`
}

// Hit is one scored search result. A hit may carry several chunks.
type Hit struct {
	Score    float64         `json:"score"`
	Metadata []ChunkMetadata `json:"metadata"`
}

// SearchParams controls a backend search.
type SearchParams struct {
	Query          string
	ScoreThreshold float64
	PageSize       int
}

// DefaultPageSize is the number of hits requested when SearchParams.PageSize is unset.
const DefaultPageSize = 100

// Backend is a hybrid lexical and vector index keyed by tracking ID.
type Backend interface {
	// Name identifies the backend in logs and the chunk ledger.
	Name() string
	// Exists reports whether a chunk with trackingID is stored.
	// An error means the answer is unknown.
	Exists(ctx context.Context, trackingID string) (bool, error)
	// Upsert stores a chunk under its tracking ID.
	Upsert(ctx context.Context, chunk Chunk) error
	// Search returns hits for a query. Matched terms in ChunkHTML are wrapped in <b> tags.
	Search(ctx context.Context, params SearchParams) ([]Hit, error)
	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
