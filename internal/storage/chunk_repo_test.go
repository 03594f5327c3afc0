package storage

import (
	"context"
	"errors"
	"testing"
)

func TestChunkRepo_RecordAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkRepo(newTestDB(t))

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() on empty ledger = %d, want 0", count)
	}

	records := []*ChunkRecord{
		{TrackingID: "https://a.example", Link: "https://a.example", ChunkIndex: 0, Backend: "remote"},
		{TrackingID: "https://a.example 1", Link: "https://a.example", ChunkIndex: 1, Backend: "remote"},
		{TrackingID: "https://b.example", Link: "https://b.example", ChunkIndex: 0, Backend: "remote"},
	}
	for _, rec := range records {
		if err := repo.Record(ctx, rec); err != nil {
			t.Fatalf("Record(%s) error = %v", rec.TrackingID, err)
		}
	}

	count, err = repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
}

func TestChunkRepo_RecordReplaces(t *testing.T) {
	ctx := context.Background()
	repo := NewChunkRepo(newTestDB(t))

	first := &ChunkRecord{TrackingID: "https://a.example", Link: "https://a.example", Backend: "remote"}
	second := &ChunkRecord{TrackingID: "https://a.example", Link: "https://a.example", Backend: "local"}

	if err := repo.Record(ctx, first); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := repo.Record(ctx, second); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	got, err := repo.GetByTrackingID(ctx, "https://a.example")
	if err != nil {
		t.Fatalf("GetByTrackingID() error = %v", err)
	}
	if got.Backend != "local" {
		t.Errorf("Backend = %q, want %q", got.Backend, "local")
	}
	if got.UploadedAt.IsZero() {
		t.Error("UploadedAt is zero")
	}
}

func TestChunkRepo_GetByTrackingID_NotFound(t *testing.T) {
	repo := NewChunkRepo(newTestDB(t))

	_, err := repo.GetByTrackingID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByTrackingID() error = %v, want ErrNotFound", err)
	}
}
