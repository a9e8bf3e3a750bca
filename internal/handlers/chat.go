package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/service"
	"tourli-ai/internal/weather"
)

const (
	emptyMessageReply = "Please ask me something about Morocco travel!"
	notReadyReply     = "Sorry, the chatbot is having trouble starting up. Please try again."
	badRequestReply   = "An error occurred processing your request."
)

// maxBodyBytes bounds a chat request body.
const maxBodyBytes = 64 << 10

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// CityResponse describes the detected city.
type CityResponse struct {
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    string  `json:"source"`
	Match     string  `json:"match,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	Response     string              `json:"response"`
	ResponseHTML string              `json:"response_html,omitempty"`
	Confidence   float64             `json:"confidence"`
	Intent       string              `json:"intent,omitempty"`
	City         *CityResponse       `json:"city,omitempty"`
	CityInfo     string              `json:"city_info,omitempty"`
	Weather      *weather.Conditions `json:"weather,omitempty"`
	Success      bool                `json:"success"`
}

// ErrorResponse represents an error response. Response carries a message
// the web client can show in the conversation as-is.
type ErrorResponse struct {
	Error    string `json:"error"`
	Response string `json:"response,omitempty"`
	Success  bool   `json:"success"`
}

// ServeHTTP handles HTTP requests for chat.
//
// swagger:route POST /api/chat chat
//
// Answers a single travel question. Add ?format=html to also receive an HTML
// rendering of the reply.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body", badRequestReply)
		return
	}

	// Convert HTTP request to service request
	svcReq := service.ChatRequest{
		Message: req.Message,
		HTML:    r.URL.Query().Get("format") == "html",
	}

	svcResp, err := h.chatService.ProcessChat(ctx, svcReq)
	if err != nil {
		h.handleServiceError(ctx, w, err)
		return
	}

	// Convert service response to HTTP response
	resp := ChatResponse{
		Response:     svcResp.Reply,
		ResponseHTML: svcResp.ReplyHTML,
		Confidence:   svcResp.Confidence,
		Intent:       svcResp.Intent,
		CityInfo:     svcResp.CityFacts,
		Weather:      svcResp.Weather,
		Success:      true,
	}
	if c := svcResp.City; c != nil {
		resp.City = &CityResponse{
			Name:      c.Name,
			Country:   c.Country,
			Latitude:  c.Latitude,
			Longitude: c.Longitude,
			Source:    c.Source,
			Match:     c.Match,
		}
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func (h *ChatHandler) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	if errors.Is(err, service.ErrEmptyMessage) {
		logger.WarnContext(ctx, "chat request rejected", "error", err)
		writeError(w, http.StatusBadRequest, "Message cannot be empty", emptyMessageReply)
		return
	}
	if errors.Is(err, service.ErrInvalidInput) {
		logger.WarnContext(ctx, "chat request rejected", "error", err)
		writeError(w, http.StatusBadRequest, "Validation error: "+err.Error(), emptyMessageReply)
		return
	}

	if errors.Is(err, service.ErrNotReady) {
		logger.ErrorContext(ctx, "chatbot not initialized", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Chatbot not initialized", notReadyReply)
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)
	writeError(w, http.StatusInternalServerError, "Failed to process chat request", badRequestReply)
}

// writeJSON writes v with the given status.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message, reply string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:    message,
		Response: reply,
	})
}
