package handlers

import (
	"context"
	"net/http"

	"librarian/internal/contextutil"
	"librarian/internal/indexer"
)

// Syncer starts background corpus syncs.
type Syncer interface {
	// StartSync reports false without starting anything when a sync is
	// already running.
	StartSync(ctx context.Context, done func(indexer.SyncSummary, error)) bool
}

// IndexHandler handles HTTP requests for triggering a sync.
type IndexHandler struct {
	syncer Syncer
	// done is called with the result of each background sync. Tests use it to wait.
	done func(indexer.SyncSummary, error)
}

// NewIndexHandler creates a new IndexHandler.
func NewIndexHandler(syncer Syncer) *IndexHandler {
	return &IndexHandler{syncer: syncer}
}

// IndexResponse represents the response from the index endpoint.
//
// swagger:model IndexResponse
type IndexResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles HTTP requests for triggering a sync.
//
// swagger:route POST /api/index indexing startSync
//
// # Start a corpus sync
//
// Returns 202 immediately and syncs in the background. Returns 409 when a
// sync is already running.
//
// ---
// produces:
// - application/json
// responses:
//
//	'202':
//	  description: Sync started
//	  schema:
//	    "$ref": "#/definitions/IndexResponse"
//	'409':
//	  description: Sync already running
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *IndexHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// The sync outlives the request but keeps its logger.
	syncCtx := context.WithoutCancel(ctx)
	started := h.syncer.StartSync(syncCtx, func(summary indexer.SyncSummary, err error) {
		if err != nil {
			logger.ErrorContext(syncCtx, "sync failed", "error", err)
		}
		if h.done != nil {
			h.done(summary, err)
		}
	})
	if !started {
		logger.InfoContext(ctx, "sync already running")
		writeError(w, http.StatusConflict, "Sync already in progress")
		return
	}

	logger.InfoContext(ctx, "sync triggered via API")

	writeJSON(ctx, w, http.StatusAccepted, IndexResponse{
		Message: "Sync started. Check /api/status for progress.",
		Status:  "accepted",
	})
}
