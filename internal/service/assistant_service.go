// FILE: internal/service/assistant_service.go
package service

import (
	"context"
	"strings"

	"mondichat-be/internal/dto"
	"mondichat-be/internal/pkg/logger"
	"mondichat-be/pkg/query"
	"mondichat-be/pkg/session"
	"mondichat-be/pkg/transcription"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const assistantModule = "ASSISTANT"

type IAssistantService interface {
	Query(ctx context.Context, userId string, req *dto.QueryRequest) (*dto.QueryResponse, error)
	// HandleWebhook transcribes audio messages before answering them.
	HandleWebhook(ctx context.Context, req *dto.WebhookMessageRequest) (*dto.QueryResponse, error)
	ResetSession(ctx context.Context, userId string) error
}

type assistantService struct {
	engine      *query.Engine
	sessions    *session.Manager
	transcriber transcription.Transcriber
	logger      logger.ILogger
}

func NewAssistantService(
	engine *query.Engine,
	sessions *session.Manager,
	transcriber transcription.Transcriber,
	logger logger.ILogger,
) IAssistantService {
	return &assistantService{
		engine:      engine,
		sessions:    sessions,
		transcriber: transcriber,
		logger:      logger,
	}
}

func (s *assistantService) Query(ctx context.Context, userId string, req *dto.QueryRequest) (*dto.QueryResponse, error) {
	ctx, span := otel.Tracer("assistant").Start(ctx, "assistant.query")
	defer span.End()
	span.SetAttributes(attribute.Bool("query.audio", req.IsAudio))

	reply := s.engine.Answer(ctx, query.Request{
		UserId:  userId,
		Text:    req.Text,
		IsAudio: req.IsAudio,
	})
	return &dto.QueryResponse{Reply: reply}, nil
}

func (s *assistantService) HandleWebhook(ctx context.Context, req *dto.WebhookMessageRequest) (*dto.QueryResponse, error) {
	audioUrl := strings.TrimSpace(req.AudioUrl)
	if audioUrl == "" {
		return s.Query(ctx, req.UserId, &dto.QueryRequest{Text: req.Text})
	}

	text := s.transcriber.Transcribe(ctx, audioUrl)
	s.logger.Debug(assistantModule, "Audio transcribed", map[string]interface{}{
		"user_id": req.UserId,
		"chars":   len(text),
	})
	return s.Query(ctx, req.UserId, &dto.QueryRequest{Text: text, IsAudio: true})
}

func (s *assistantService) ResetSession(ctx context.Context, userId string) error {
	return s.sessions.Reset(ctx, userId)
}
