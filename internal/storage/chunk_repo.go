package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chunk_ledger.go -package=mocks librarian/internal/storage ChunkLedger

import (
	"context"
	"database/sql"
	"fmt"
)

// ChunkLedger records the chunks an index backend has accepted.
type ChunkLedger interface {
	// Record stores a chunk. Recording the same tracking ID again replaces the row.
	Record(ctx context.Context, chunk *ChunkRecord) error
	// Count returns the number of recorded chunks.
	Count(ctx context.Context) (int, error)
}

// ChunkRepo provides methods for chunk ledger operations.
// It implements the ChunkLedger interface.
type ChunkRepo struct {
	db *sql.DB
}

// NewChunkRepo creates a new ChunkRepo.
func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// Record upserts a chunk by tracking ID.
func (r *ChunkRepo) Record(ctx context.Context, chunk *ChunkRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO chunks (tracking_id, link, chunk_index, backend, uploaded_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		chunk.TrackingID, chunk.Link, chunk.ChunkIndex, chunk.Backend,
	)
	if err != nil {
		return fmt.Errorf("failed to record chunk: %w", err)
	}
	return nil
}

// Count returns the number of recorded chunks.
func (r *ChunkRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return n, nil
}

// GetByTrackingID gets a chunk by its tracking ID. Returns ErrNotFound if not found.
func (r *ChunkRepo) GetByTrackingID(ctx context.Context, trackingID string) (*ChunkRecord, error) {
	var chunk ChunkRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT tracking_id, link, chunk_index, backend, uploaded_at FROM chunks WHERE tracking_id = ?",
		trackingID,
	).Scan(&chunk.TrackingID, &chunk.Link, &chunk.ChunkIndex, &chunk.Backend, &chunk.UploadedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk: %w", err)
	}

	return &chunk, nil
}
