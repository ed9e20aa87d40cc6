package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrNotConfigured is returned by every call on a provider built without
// credentials.
var ErrNotConfigured = errors.New("llm provider not configured")

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Completer is the generative fallback used by the query resolver.
type Completer interface {
	Complete(ctx context.Context, systemPrompt string, history []Message, userTurn string) (string, error)
}

// ChatCompleter adapts any LLMProvider to Completer.
type ChatCompleter struct {
	Provider LLMProvider
	Options  []Option
}

func NewChatCompleter(provider LLMProvider, options ...Option) *ChatCompleter {
	return &ChatCompleter{Provider: provider, Options: options}
}

func (c *ChatCompleter) Complete(ctx context.Context, systemPrompt string, history []Message, userTurn string) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: userTurn})
	return c.Provider.Chat(ctx, messages, c.Options...)
}

// Unconfigured stands in for a provider whose credentials are missing.
type Unconfigured struct {
	Name string
}

func (u Unconfigured) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrNotConfigured, u.Name)
}

func (u Unconfigured) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return u.Chat(ctx, nil, options...)
}
