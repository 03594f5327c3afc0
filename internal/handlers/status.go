package handlers

import (
	"net/http"

	"librarian/internal/contextutil"
	"librarian/internal/storage"
)

// StatusHandler reports the current indexing run.
type StatusHandler struct {
	state storage.RunStateStore
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(state storage.RunStateStore) *StatusHandler {
	return &StatusHandler{state: state}
}

// ServeHTTP handles HTTP requests for sync status.
//
// swagger:route GET /api/status indexing syncStatus
//
// # Current sync progress
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Current run state
//	  schema:
//	    "$ref": "#/definitions/RunState"
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	state, err := h.state.GetRunState(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read run state", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to read status")
		return
	}

	writeJSON(ctx, w, http.StatusOK, state)
}
