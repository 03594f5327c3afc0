package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// RunState is the persisted progress of the current or most recent sync.
// JSON names are the ones status clients poll for.
type RunState struct {
	InProgress bool      `json:"indexingInProgress"`
	Total      int       `json:"bookmarksLength"`
	Completed  int       `json:"bookmarksCounter"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

// ChunkRecord is a ledger row for a chunk the index backend accepted.
type ChunkRecord struct {
	TrackingID string
	Link       string
	ChunkIndex int
	Backend    string
	UploadedAt time.Time
}
