package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"tourli-ai/internal/service"
	"tourli-ai/internal/service/mocks"
	"tourli-ai/internal/weather"
)

func TestNewChatHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChatService := mocks.NewMockChatService(ctrl)
	handler := NewChatHandler(mockChatService)

	if handler == nil {
		t.Fatal("NewChatHandler() returned nil")
	}
	if handler.chatService != mockChatService {
		t.Error("NewChatHandler() chatService not set correctly")
	}
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name          string
		method        string
		url           string
		body          interface{}
		mockSetup     func(*mocks.MockChatService)
		wantStatus    int
		checkResponse func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:   "successful POST request",
			method: http.MethodPost,
			body:   ChatRequest{Message: "What are the best beaches in Morocco?"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "What are the best beaches in Morocco?"}).
					Return(service.ChatResponse{Reply: "Taghazout.", Confidence: 0.92, Intent: "ask_beaches"}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ChatResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if !resp.Success || resp.Response != "Taghazout." || resp.Intent != "ask_beaches" || resp.Confidence != 0.92 {
					t.Errorf("response = %+v", resp)
				}
				if resp.City != nil {
					t.Errorf("response City = %+v, want nil", resp.City)
				}
			},
		},
		{
			name:   "city and weather",
			method: http.MethodPost,
			url:    "/api/chat?format=html",
			body:   ChatRequest{Message: "weather in marrakch"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "weather in marrakch", HTML: true}).
					Return(service.ChatResponse{
						Reply:     "Sunny.",
						ReplyHTML: "<p>Sunny.</p>\n",
						Intent:    "ask_weather",
						City:      &service.CityInfo{Name: "Marrakech", Country: "Morocco", Source: "regional", Match: "fuzzy"},
						Weather:   &weather.Conditions{Temperature: 30, Condition: "clear sky"},
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ChatResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.City == nil || resp.City.Name != "Marrakech" || resp.City.Match != "fuzzy" {
					t.Errorf("response City = %+v", resp.City)
				}
				if resp.Weather == nil || resp.Weather.Temperature != 30 {
					t.Errorf("response Weather = %+v", resp.Weather)
				}
				if resp.ResponseHTML != "<p>Sunny.</p>\n" {
					t.Errorf("response ResponseHTML = %q", resp.ResponseHTML)
				}
			},
		},
		{
			name:   "city outside the region",
			method: http.MethodPost,
			body:   ChatRequest{Message: "I visited paris last year"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "I visited paris last year"}).
					Return(service.ChatResponse{
						Reply:      "Paris is in France (Île-de-France).",
						Confidence: 1,
						Intent:     "general_query",
						City:       &service.CityInfo{Name: "Paris", Country: "France", Source: "global", Match: "exact"},
						CityFacts:  "Paris is in France (Île-de-France).",
					}, nil)
			},
			wantStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ChatResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.CityInfo != "Paris is in France (Île-de-France)." || resp.Response != resp.CityInfo {
					t.Errorf("response = %+v", resp)
				}
				if resp.City == nil || resp.City.Source != "global" {
					t.Errorf("response City = %+v", resp.City)
				}
			},
		},
		{
			name:       "method not allowed",
			method:     http.MethodGet,
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "invalid JSON body",
			method:     http.MethodPost,
			body:       "invalid json",
			mockSetup:  func(m *mocks.MockChatService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "empty message",
			method: http.MethodPost,
			body:   ChatRequest{Message: "   "},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "   "}).
					Return(service.ChatResponse{}, &service.ValidationError{Field: "message", Err: service.ErrEmptyMessage})
			},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Success {
					t.Error("response Success = true, want false")
				}
				if resp.Error != "Message cannot be empty" || resp.Response != emptyMessageReply {
					t.Errorf("response = %+v", resp)
				}
			},
		},
		{
			name:   "message too long",
			method: http.MethodPost,
			body:   ChatRequest{Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello"}).
					Return(service.ChatResponse{}, &service.ValidationError{Field: "message", Err: service.ErrMessageTooLong})
			},
			wantStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.Error != "Validation error: validation error on field message: is too long" {
					t.Errorf("response Error = %q", resp.Error)
				}
			},
		},
		{
			name:   "engine not ready",
			method: http.MethodPost,
			body:   ChatRequest{Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello"}).
					Return(service.ChatResponse{}, service.ErrNotReady)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:   "service error",
			method: http.MethodPost,
			body:   ChatRequest{Message: "Hello"},
			mockSetup: func(m *mocks.MockChatService) {
				m.EXPECT().
					ProcessChat(gomock.Any(), service.ChatRequest{Message: "Hello"}).
					Return(service.ChatResponse{}, errors.New("service error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockChatService := mocks.NewMockChatService(ctrl)
			tt.mockSetup(mockChatService)
			handler := NewChatHandler(mockChatService)

			var body []byte
			if tt.body != nil {
				if str, ok := tt.body.(string); ok {
					body = []byte(str)
				} else {
					body, _ = json.Marshal(tt.body)
				}
			}
			url := tt.url
			if url == "" {
				url = "/api/chat"
			}

			req := httptest.NewRequest(tt.method, url, bytes.NewReader(body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("ServeHTTP() status = %v, want %v", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Content-Type"); tt.wantStatus != http.StatusMethodNotAllowed && got != "application/json" {
				t.Errorf("ServeHTTP() Content-Type = %v, want application/json", got)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}
