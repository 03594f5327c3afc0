// Package trieve is a client for the subset of the Trieve chunk API used to
// register and search bookmark chunks.
package trieve

import "fmt"

// DefaultBaseURL is the hosted Trieve API.
const DefaultBaseURL = "https://api.trieve.ai/api"

// CreateChunkRequest is the body of POST /chunk.
type CreateChunkRequest struct {
	ChunkHTML  string `json:"chunk_html"`
	Link       string `json:"link"`
	TrackingID string `json:"tracking_id"`
}

// SearchRequest is the body of POST /chunk/search.
type SearchRequest struct {
	PageSize       int     `json:"page_size"`
	Page           int     `json:"page"`
	Query          string  `json:"query"`
	ScoreThreshold float64 `json:"score_threshold"`
	SearchType     string  `json:"search_type"`
}

// ChunkMetadata is a chunk as returned inside a search hit.
type ChunkMetadata struct {
	Link      string `json:"link"`
	ChunkHTML string `json:"chunk_html"`
}

// ScoreChunk is one scored search hit.
type ScoreChunk struct {
	Score    float64         `json:"score"`
	Metadata []ChunkMetadata `json:"metadata"`
}

// SearchResponse is the body returned by POST /chunk/search.
type SearchResponse struct {
	ScoreChunks []ScoreChunk `json:"score_chunks"`
}

// StatusError is returned when Trieve answers with a non-success status.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("trieve %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("trieve %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}
