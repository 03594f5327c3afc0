package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"librarian/internal/contextutil"
	"librarian/internal/search"
)

// maxSearchBody caps the request body of a search call.
const maxSearchBody = 64 << 10

// Searcher answers bookmark queries.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
}

// SearchHandler handles HTTP requests for bookmark search.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// SearchRequest represents a search request.
//
// swagger:model SearchRequest
type SearchRequest struct {
	// Action name, only "search" is accepted. Empty is treated as "search".
	Action string `json:"action"`

	// Free-text query
	// required: true
	// example: golang concurrency
	Query string `json:"query"`
}

// ServeHTTP handles HTTP requests for bookmark search.
//
// swagger:route POST /api/search search searchBookmarks
//
// # Search indexed bookmarks
//
// Runs a hybrid query against the search index and returns matching
// bookmarks with highlighted excerpts. GET with ?q= is also accepted.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Search results
//	  schema:
//	    "$ref": "#/definitions/Response"
//	'400':
//	  description: Invalid request
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Search index unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SearchRequest
	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("q")
	case http.MethodPost:
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody)).Decode(&req); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if req.Action != "" && req.Action != "search" {
		logger.WarnContext(ctx, "unknown action", "action", req.Action)
		writeError(w, http.StatusBadRequest, "Unknown action: "+req.Action)
		return
	}

	resp, err := h.searcher.Search(ctx, req.Query)
	if err != nil {
		writeServiceError(w, ctx, err, "Failed to search bookmarks")
		return
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
