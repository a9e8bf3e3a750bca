package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService tourli-ai/internal/service ChatService

import (
	"context"
	"strings"
	"unicode/utf8"

	"tourli-ai/internal/contextutil"
	"tourli-ai/internal/rag"
	"tourli-ai/internal/weather"
)

// MaxMessageLength is the longest message accepted, in characters.
const MaxMessageLength = 2000

// Answerer answers a single question.
// This interface is defined from the service layer's perspective (consumer-first).
type Answerer interface {
	Answer(ctx context.Context, text string) rag.QueryResult
}

// HTMLRenderer renders answer text to HTML.
type HTMLRenderer interface {
	HTML(answer string) (string, error)
}

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message string
	// HTML asks for an HTML rendering of the reply alongside the text.
	HTML bool
}

// CityInfo describes the city detected in a message.
type CityInfo struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	Source    string
	Match     string
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	Reply      string
	ReplyHTML  string
	Confidence float64
	Intent     string
	Outcome    string
	City       *CityInfo
	CityFacts  string
	Weather    *weather.Conditions
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat validates a chat request and answers it.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	engine   Answerer
	renderer HTMLRenderer
}

// NewChatService creates a new ChatService. renderer may be nil, in which
// case HTML is never produced.
func NewChatService(engine Answerer, renderer HTMLRenderer) ChatService {
	return &chatService{
		engine:   engine,
		renderer: renderer,
	}
}

// ProcessChat processes a chat request.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	message := strings.TrimSpace(req.Message)
	if message == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field: "message",
			Err:   ErrEmptyMessage,
		}
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		logger.WarnContext(ctx, "message too long", "length", utf8.RuneCountInString(message))
		return ChatResponse{}, &ValidationError{
			Field: "message",
			Err:   ErrMessageTooLong,
		}
	}
	if s.engine == nil {
		logger.ErrorContext(ctx, "chat request received before engine was ready")
		return ChatResponse{}, ErrNotReady
	}

	res := s.engine.Answer(ctx, message)

	resp := ChatResponse{
		Reply:      res.Answer,
		Confidence: res.Confidence,
		Intent:     string(res.Intent),
		Outcome:    string(res.Outcome),
		CityFacts:  res.CityFacts,
		Weather:    res.Weather,
	}
	if res.City != nil {
		resp.City = &CityInfo{
			Name:      res.City.Name,
			Country:   res.City.Country,
			Latitude:  res.City.Lat,
			Longitude: res.City.Lon,
			Source:    string(res.City.Source),
		}
		if res.CityMatch != nil {
			resp.City.Match = string(res.CityMatch.Kind)
		}
	}

	if req.HTML && s.renderer != nil {
		html, err := s.renderer.HTML(resp.Reply)
		if err != nil {
			// The plain reply is still usable.
			logger.WarnContext(ctx, "failed to render reply", "error", err)
		} else {
			resp.ReplyHTML = html
		}
	}

	logger.InfoContext(ctx, "chat request processed successfully",
		"message_length", len(message),
		"reply_length", len(resp.Reply),
		"outcome", resp.Outcome,
	)
	return resp, nil
}
