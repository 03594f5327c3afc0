package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"librarian/internal/contextutil"
	"librarian/internal/vectorstore"
)

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LocalBackend is a Backend built from an embedding model and a vector
// store. Vector similarity is blended with a lexical score to make search hybrid.
type LocalBackend struct {
	embedder   Embedder
	store      vectorstore.VectorStore
	collection string
}

// NewLocalBackend creates a local backend storing points in collection.
func NewLocalBackend(embedder Embedder, store vectorstore.VectorStore, collection string) *LocalBackend {
	return &LocalBackend{
		embedder:   embedder,
		store:      store,
		collection: collection,
	}
}

// PointID maps a tracking ID to the deterministic UUID used as its point ID.
func PointID(trackingID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(trackingID)).String()
}

// Name returns "local".
func (b *LocalBackend) Name() string {
	return "local"
}

// Exists checks for the chunk's point.
func (b *LocalBackend) Exists(ctx context.Context, trackingID string) (bool, error) {
	return b.store.Exists(ctx, b.collection, PointID(trackingID))
}

// Upsert embeds the chunk and stores it. Re-upserting a tracking ID overwrites the point.
func (b *LocalBackend) Upsert(ctx context.Context, chunk Chunk) error {
	vectors, err := b.embedder.EmbedTexts(ctx, []string{chunk.HTML})
	if err != nil {
		return fmt.Errorf("failed to embed chunk: %w", err)
	}
	if len(vectors) != 1 {
		return fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}

	return b.store.Upsert(ctx, b.collection, []vectorstore.Point{{
		ID:  PointID(chunk.TrackingID),
		Vec: vectors[0],
		Meta: map[string]any{
			"link":        chunk.Link,
			"chunk_html":  chunk.HTML,
			"tracking_id": chunk.TrackingID,
			"chunk_index": chunk.Index,
		},
	}})
}

// Search embeds the query, takes the nearest PageSize points, and rescores
// each by vector score plus lexical score. Hits below the threshold are dropped.
func (b *LocalBackend) Search(ctx context.Context, params SearchParams) ([]Hit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	vectors, err := b.embedder.EmbedTexts(ctx, []string{params.Query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}

	results, err := b.store.Search(ctx, b.collection, vectors[0], pageSize)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		link, _ := r.Meta["link"].(string)
		text, _ := r.Meta["chunk_html"].(string)
		if link == "" {
			logger.WarnContext(ctx, "skipping point without link", "point_id", r.PointID)
			continue
		}

		score := float64(r.Score + lexicalScore(params.Query, text, link))
		if score < params.ScoreThreshold {
			continue
		}
		hits = append(hits, Hit{
			Score: score,
			Metadata: []ChunkMetadata{{
				Link:      link,
				ChunkHTML: highlight(text, params.Query),
			}},
		})
	}

	logger.DebugContext(ctx, "local search completed", "query", params.Query, "candidates", len(results), "hits", len(hits))
	return hits, nil
}

// Ping counts the collection's points.
func (b *LocalBackend) Ping(ctx context.Context) error {
	_, err := b.store.Count(ctx, b.collection)
	return err
}
