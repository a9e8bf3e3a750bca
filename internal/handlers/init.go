package handlers

import (
	"context"
	"net/http"

	"tourli-ai/internal/contextutil"
)

// Reloader rebuilds the engine's snapshot from the corpus source.
type Reloader interface {
	Reload(ctx context.Context) error
}

// InitHandler reports engine readiness and, on request, reloads the corpus.
type InitHandler struct {
	engine   SnapshotSource
	reloader Reloader
}

// NewInitHandler creates a new InitHandler. reloader may be nil, in which
// case reload requests are rejected.
func NewInitHandler(engine SnapshotSource, reloader Reloader) *InitHandler {
	return &InitHandler{
		engine:   engine,
		reloader: reloader,
	}
}

// InitResponse represents the response from the init endpoint.
type InitResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Entries int    `json:"entries,omitempty"`
}

// ServeHTTP handles POST /api/init. The engine is built before the server
// accepts traffic, so a plain call only confirms readiness; ?reload=true
// rebuilds the snapshot from the corpus source first.
//
// swagger:route POST /api/init initialize
func (h *InitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeJSON(ctx, w, http.StatusMethodNotAllowed, InitResponse{Status: "error", Message: "Method not allowed"})
		return
	}

	if r.URL.Query().Get("reload") == "true" {
		if h.reloader == nil {
			writeJSON(ctx, w, http.StatusConflict, InitResponse{Status: "error", Message: "Corpus reload is not enabled"})
			return
		}
		logger.InfoContext(ctx, "corpus reload triggered via API")
		if err := h.reloader.Reload(ctx); err != nil {
			logger.ErrorContext(ctx, "corpus reload failed", "error", err)
			writeJSON(ctx, w, http.StatusInternalServerError, InitResponse{Status: "error", Message: "Failed to reload corpus"})
			return
		}
	}

	if h.engine == nil || h.engine.Snapshot() == nil {
		writeJSON(ctx, w, http.StatusInternalServerError, InitResponse{Status: "error", Message: "Failed to initialize chatbot"})
		return
	}

	writeJSON(ctx, w, http.StatusOK, InitResponse{
		Status:  "initialized",
		Message: "Chatbot initialized successfully",
		Entries: len(h.engine.Snapshot().Entries),
	})
}
