package index

import (
	"context"

	"librarian/internal/trieve"
)

const hybridSearch = "hybrid"

// pingTrackingID is looked up by Ping. Any answer proves the API is reachable.
const pingTrackingID = "librarian-healthcheck"

// RemoteBackend is a Backend hosted by Trieve.
type RemoteBackend struct {
	client *trieve.Client
}

// NewRemoteBackend wraps a Trieve client.
func NewRemoteBackend(client *trieve.Client) *RemoteBackend {
	return &RemoteBackend{client: client}
}

// Name returns "remote".
func (b *RemoteBackend) Name() string {
	return "remote"
}

// Exists looks the chunk up by tracking ID.
func (b *RemoteBackend) Exists(ctx context.Context, trackingID string) (bool, error) {
	return b.client.ChunkExists(ctx, trackingID)
}

// Upsert creates the chunk. Trieve rejects duplicate tracking IDs, which
// surfaces as an error.
func (b *RemoteBackend) Upsert(ctx context.Context, chunk Chunk) error {
	return b.client.CreateChunk(ctx, trieve.CreateChunkRequest{
		ChunkHTML:  chunk.HTML,
		Link:       chunk.Link,
		TrackingID: chunk.TrackingID,
	})
}

// Search runs a hybrid search on the first result page.
func (b *RemoteBackend) Search(ctx context.Context, params SearchParams) ([]Hit, error) {
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	resp, err := b.client.Search(ctx, trieve.SearchRequest{
		PageSize:       pageSize,
		Page:           0,
		Query:          params.Query,
		ScoreThreshold: params.ScoreThreshold,
		SearchType:     hybridSearch,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(resp.ScoreChunks))
	for _, sc := range resp.ScoreChunks {
		meta := make([]ChunkMetadata, 0, len(sc.Metadata))
		for _, m := range sc.Metadata {
			meta = append(meta, ChunkMetadata{Link: m.Link, ChunkHTML: m.ChunkHTML})
		}
		hits = append(hits, Hit{Score: sc.Score, Metadata: meta})
	}
	return hits, nil
}

// Ping succeeds when the API answers at all.
func (b *RemoteBackend) Ping(ctx context.Context) error {
	_, err := b.client.ChunkExists(ctx, pingTrackingID)
	return err
}
