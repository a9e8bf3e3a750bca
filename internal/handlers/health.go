package handlers

import (
	"context"
	"net/http"
	"time"

	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/indexer"
	"tourli-ai/internal/rag"
)

// SnapshotSource exposes the snapshot currently answering questions.
type SnapshotSource interface {
	Snapshot() *rag.Snapshot
}

// Pinger checks an optional dependency such as the weather cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	engine             SnapshotSource
	cache              Pinger
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. cache may be nil.
func NewHealthHandler(engine SnapshotSource, cache Pinger) *HealthHandler {
	return &HealthHandler{
		engine:             engine,
		cache:              cache,
		healthCheckTimeout: 2 * time.Second,
	}
}

// CorpusStatus summarizes the active snapshot.
type CorpusStatus struct {
	Entries        int            `json:"entries"`
	RegionalCities int            `json:"regional_cities"`
	GlobalCities   int            `json:"global_cities"`
	Index          *indexer.Stats `json:"index,omitempty"`
	BuiltAt        string         `json:"built_at"`
	LexiconSize    int            `json:"lexicon_size"`
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "online", "degraded", or "unhealthy"
	Status string `json:"status"`

	Message string `json:"message"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	Corpus *CorpusStatus `json:"corpus,omitempty"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// Returns 200 OK while the engine can answer, 503 Service Unavailable
// otherwise. A failing weather cache only degrades the status.
//
// swagger:route GET /api/health healthCheck
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]string)
	var issues []string
	response := HealthResponse{
		Status:    "online",
		Message:   "Tourli Chat API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	httpStatus := http.StatusOK

	var snap *rag.Snapshot
	if h.engine != nil {
		snap = h.engine.Snapshot()
	}
	if snap == nil {
		checks["engine"] = "error"
		issues = append(issues, "engine_not_initialized")
		response.Status = "unhealthy"
		response.Message = "Chatbot not initialized"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["engine"] = "ok"
		stats := snap.Index.Stats()
		response.Corpus = &CorpusStatus{
			Entries:        len(snap.Entries),
			RegionalCities: snap.Gazetteer.Len(gazetteer.Regional),
			GlobalCities:   snap.Gazetteer.Len(gazetteer.Global),
			Index:          &stats,
			BuiltAt:        snap.BuiltAt.UTC().Format(time.RFC3339),
			LexiconSize:    snap.Lemmatizer.Size(),
		}
	}

	if h.cache != nil {
		checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
		defer cancel()
		if err := h.cache.Ping(checkCtx); err != nil {
			logger.WarnContext(ctx, "cache health check failed", "error", err)
			checks["cache"] = "error"
			issues = append(issues, "cache_unavailable")
			if response.Status == "online" {
				response.Status = "degraded"
			}
		} else {
			checks["cache"] = "ok"
		}
	}

	if len(issues) > 0 {
		response.Issues = issues
	}

	writeJSON(ctx, w, httpStatus, response)
}
