// Package transcription turns voice notes into text. Every failure degrades
// to an empty transcript.
package transcription

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// maxAudioBytes caps voice-note downloads.
const maxAudioBytes = 20 << 20

const instruction = "Transcribe este audio en español, palabra por palabra. Responde solo con la transcripción, sin comentarios."

// Transcriber returns the text of an audio reference, or "" on failure.
type Transcriber interface {
	Transcribe(ctx context.Context, audioRef string) string
}

// Engine produces a transcript from raw audio.
type Engine interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Service downloads the audio behind a URL and hands it to an Engine.
type Service struct {
	engine  Engine
	client  *http.Client
	onError func(audioRef string, err error)
}

func NewService(engine Engine, onError func(audioRef string, err error)) *Service {
	if onError == nil {
		onError = func(string, error) {}
	}
	return &Service{
		engine:  engine,
		client:  &http.Client{Timeout: 30 * time.Second},
		onError: onError,
	}
}

func (s *Service) Transcribe(ctx context.Context, audioRef string) string {
	text, err := s.transcribe(ctx, audioRef)
	if err != nil {
		s.onError(audioRef, err)
		return ""
	}
	return text
}

func (s *Service) transcribe(ctx context.Context, audioRef string) (string, error) {
	if s.engine == nil {
		return "", fmt.Errorf("no transcription engine configured")
	}
	if strings.TrimSpace(audioRef) == "" {
		return "", fmt.Errorf("empty audio reference")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, audioRef, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download audio: status %d", resp.StatusCode)
	}
	audio, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "audio/ogg"
	}

	text, err := s.engine.TranscribeAudio(ctx, audio, mimeType)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// GeminiEngine transcribes with a multimodal Gemini model.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

func NewGeminiEngine(ctx context.Context, apiKey, model string) (*GeminiEngine, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiEngine{client: client, model: model}, nil
}

func (g *GeminiEngine) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini transcription failed: %w", err)
	}
	return resp.Text(), nil
}
