// Package indexer syncs a bookmark corpus into an index backend.
package indexer

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// ErrSyncInProgress is returned by SyncAll while another sync is running.
var ErrSyncInProgress = errors.New("sync already in progress")

// ContentExtractor turns a bookmark into text chunks. It never fails.
type ContentExtractor interface {
	Extract(ctx context.Context, url, title string) []string
}

// TrackingID is the index key of chunk i of a bookmarked URL. Chunk 0 is the
// URL itself; later chunks append a space and the index, which cannot occur
// inside a valid URL.
func TrackingID(url string, chunkIndex int) string {
	if chunkIndex == 0 {
		return url
	}
	return url + " " + strconv.Itoa(chunkIndex)
}

// Status is the outcome of syncing one bookmark.
type Status int

const (
	// StatusIndexed means at least one chunk was uploaded.
	StatusIndexed Status = iota
	// StatusExists means the bookmark was already in the index.
	StatusExists
	// StatusCheckFailed means the existence check errored and the bookmark was skipped.
	StatusCheckFailed
	// StatusExcluded means the URL matched an exclude pattern.
	StatusExcluded
	// StatusFailed means every chunk upload failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIndexed:
		return "indexed"
	case StatusExists:
		return "exists"
	case StatusCheckFailed:
		return "check_failed"
	case StatusExcluded:
		return "excluded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BookmarkResult reports what SyncBookmark did.
type BookmarkResult struct {
	Status         Status
	ChunksUploaded int
	ChunkFailures  int
}

// SyncSummary totals a SyncAll run.
type SyncSummary struct {
	Total          int           `json:"total"`
	Indexed        int           `json:"indexed"`
	Skipped        int           `json:"skipped"`
	Failed         int           `json:"failed"`
	ChunksUploaded int           `json:"chunks_uploaded"`
	ChunkFailures  int           `json:"chunk_failures"`
	// Duplicates counts entries whose URL appeared earlier in the same run.
	// They share tracking IDs with the first entry and are synced concurrently.
	Duplicates     int           `json:"duplicates"`
	Duration       time.Duration `json:"duration"`
}

func (s *SyncSummary) add(r BookmarkResult) {
	switch r.Status {
	case StatusIndexed:
		s.Indexed++
	case StatusFailed:
		s.Failed++
	default:
		s.Skipped++
	}
	s.ChunksUploaded += r.ChunksUploaded
	s.ChunkFailures += r.ChunkFailures
}
