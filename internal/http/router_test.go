package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"tourli-ai/internal/rag"
	"tourli-ai/internal/service/mocks"
)

type nilEngine struct{}

func (nilEngine) Snapshot() *rag.Snapshot { return nil }

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router := NewRouter(&Deps{ChatService: mocks.NewMockChatService(ctrl), Engine: nilEngine{}})
	if router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := &Deps{
		ChatService: mocks.NewMockChatService(ctrl),
		Engine:      nilEngine{},
		IndexHTML:   "<html><body>Test</body></html>",
	}
	router := NewRouter(deps)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{
			name:       "GET root serves HTML",
			method:     http.MethodGet,
			path:       "/",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/chat exists",
			method:     http.MethodPost,
			path:       "/api/chat",
			body:       "not json",
			wantStatus: http.StatusBadRequest, // Bad request due to invalid body, but route exists
		},
		{
			name:       "GET /api/chat not allowed",
			method:     http.MethodGet,
			path:       "/api/chat",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "GET /api/health without snapshot",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "POST /api/init without snapshot",
			method:     http.MethodPost,
			path:       "/api/init",
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "GET /metrics",
			method:     http.MethodGet,
			path:       "/metrics",
			wantStatus: http.StatusOK,
		},
		{
			name:       "OPTIONS preflight",
			method:     http.MethodOptions,
			path:       "/api/chat",
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "unknown route",
			method:     http.MethodGet,
			path:       "/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("%s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
			if w.Header().Get(RequestIDHeader) == "" {
				t.Errorf("%s %s missing %s header", tt.method, tt.path, RequestIDHeader)
			}
		})
	}
}
