package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tourli-ai/internal/corpus"
	"tourli-ai/internal/gazetteer"
	"tourli-ai/internal/rag"
)

type staticEngine struct {
	snap *rag.Snapshot
}

func (e staticEngine) Snapshot() *rag.Snapshot {
	return e.snap
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

type stubReloader struct {
	calls int
	err   error
}

func (r *stubReloader) Reload(context.Context) error {
	r.calls++
	return r.err
}

func testSnapshot(t *testing.T) *rag.Snapshot {
	t.Helper()
	reg, err := gazetteer.ReadCSV(strings.NewReader("city,country,lat,lng,population\nMarrakech,Morocco,31.63,-7.98,928850\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	gaz := gazetteer.New(reg, nil, gazetteer.Options{Region: "Morocco"})
	entries := corpus.Renumber([]corpus.QAEntry{
		{Question: "What are the best beaches in Morocco?", Answer: "Taghazout.", Intent: "ask_beaches"},
		{Question: "Hello", Answer: "Hi!", Intent: "greeting"},
	})
	snap, err := rag.BuildSnapshot(entries, gaz, rag.SnapshotOptions{})
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	return snap
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	snap := testSnapshot(t)

	tests := []struct {
		name       string
		method     string
		engine     SnapshotSource
		cache      Pinger
		wantStatus int
		wantState  string
		wantIssues []string
	}{
		{name: "online", method: http.MethodGet, engine: staticEngine{snap: snap}, wantStatus: http.StatusOK, wantState: "online"},
		{name: "cache ok", method: http.MethodGet, engine: staticEngine{snap: snap}, cache: stubPinger{}, wantStatus: http.StatusOK, wantState: "online"},
		{
			name:       "cache down degrades",
			method:     http.MethodGet,
			engine:     staticEngine{snap: snap},
			cache:      stubPinger{err: errors.New("connection refused")},
			wantStatus: http.StatusOK,
			wantState:  "degraded",
			wantIssues: []string{"cache_unavailable"},
		},
		{
			name:       "no snapshot",
			method:     http.MethodGet,
			engine:     staticEngine{},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "unhealthy",
			wantIssues: []string{"engine_not_initialized"},
		},
		{name: "method not allowed", method: http.MethodPost, engine: staticEngine{snap: snap}, wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.engine, tt.cache)
			req := httptest.NewRequest(tt.method, "/api/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if tt.wantState == "" {
				return
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("Status = %v, want %v", resp.Status, tt.wantState)
			}
			if strings.Join(resp.Issues, ",") != strings.Join(tt.wantIssues, ",") {
				t.Errorf("Issues = %v, want %v", resp.Issues, tt.wantIssues)
			}
			if tt.wantState != "unhealthy" {
				if resp.Corpus == nil || resp.Corpus.Entries != 2 || resp.Corpus.RegionalCities != 1 {
					t.Fatalf("Corpus = %+v", resp.Corpus)
				}
				if resp.Corpus.Index == nil || resp.Corpus.Index.IndexVersion == "" {
					t.Errorf("Corpus.Index = %+v, want stats with a version", resp.Corpus.Index)
				}
			}
		})
	}
}

func TestInitHandler_ServeHTTP(t *testing.T) {
	snap := testSnapshot(t)

	tests := []struct {
		name       string
		method     string
		url        string
		engine     SnapshotSource
		reloader   *stubReloader
		wantStatus int
		wantState  string
		wantCalls  int
	}{
		{name: "ready", method: http.MethodPost, url: "/api/init", engine: staticEngine{snap: snap}, wantStatus: http.StatusOK, wantState: "initialized"},
		{name: "reload", method: http.MethodPost, url: "/api/init?reload=true", engine: staticEngine{snap: snap}, reloader: &stubReloader{}, wantStatus: http.StatusOK, wantState: "initialized", wantCalls: 1},
		{name: "reload failure", method: http.MethodPost, url: "/api/init?reload=true", engine: staticEngine{snap: snap}, reloader: &stubReloader{err: errors.New("bad corpus")}, wantStatus: http.StatusInternalServerError, wantState: "error", wantCalls: 1},
		{name: "reload disabled", method: http.MethodPost, url: "/api/init?reload=true", engine: staticEngine{snap: snap}, wantStatus: http.StatusConflict, wantState: "error"},
		{name: "not ready", method: http.MethodPost, url: "/api/init", engine: staticEngine{}, wantStatus: http.StatusInternalServerError, wantState: "error"},
		{name: "method not allowed", method: http.MethodGet, url: "/api/init", engine: staticEngine{snap: snap}, wantStatus: http.StatusMethodNotAllowed, wantState: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var handler *InitHandler
			if tt.reloader != nil {
				handler = NewInitHandler(tt.engine, tt.reloader)
			} else {
				handler = NewInitHandler(tt.engine, nil)
			}

			req := httptest.NewRequest(tt.method, tt.url, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			var resp InitResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tt.wantState {
				t.Errorf("Status = %v, want %v", resp.Status, tt.wantState)
			}
			if tt.reloader != nil && tt.reloader.calls != tt.wantCalls {
				t.Errorf("Reload() calls = %d, want %d", tt.reloader.calls, tt.wantCalls)
			}
		})
	}
}
