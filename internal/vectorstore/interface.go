package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks librarian/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k points nearest to query.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// Exists reports whether a point with the given ID is stored.
	Exists(ctx context.Context, collection string, id string) (bool, error)

	// Count returns the exact number of points in the collection.
	Count(ctx context.Context, collection string) (int, error)

	// EnsureCollection creates the collection or validates its vector size.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error
}
