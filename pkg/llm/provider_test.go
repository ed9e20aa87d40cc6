package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProvider struct {
	got  []Message
	opts Options
}

func (r *recordingProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	r.got = history
	for _, o := range options {
		o(&r.opts)
	}
	return "ok", nil
}

func (r *recordingProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return r.Chat(ctx, []Message{{Role: RoleUser, Content: prompt}}, options...)
}

func TestChatCompleterOrdersMessages(t *testing.T) {
	p := &recordingProvider{}
	c := NewChatCompleter(p, WithTemperature(0.2), WithMaxTokens(300))

	history := []Message{
		{Role: RoleUser, Content: "hola"},
		{Role: RoleAssistant, Content: "buenas"},
	}
	out, err := c.Complete(context.Background(), "sistema", history, "y ahora?")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)

	assert.Equal(t, []Message{
		{Role: RoleSystem, Content: "sistema"},
		{Role: RoleUser, Content: "hola"},
		{Role: RoleAssistant, Content: "buenas"},
		{Role: RoleUser, Content: "y ahora?"},
	}, p.got)
	assert.Equal(t, 0.2, p.opts.Temperature)
	assert.Equal(t, 300, p.opts.MaxTokens)
}

func TestChatCompleterWithoutSystemPrompt(t *testing.T) {
	p := &recordingProvider{}
	_, err := NewChatCompleter(p).Complete(context.Background(), "", nil, "hola")
	require.NoError(t, err)
	assert.Equal(t, []Message{{Role: RoleUser, Content: "hola"}}, p.got)
}

func TestUnconfiguredAlwaysFails(t *testing.T) {
	_, err := NewChatCompleter(Unconfigured{Name: "gemini"}).Complete(context.Background(), "s", nil, "hola")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotConfigured))
	assert.Contains(t, err.Error(), "gemini")
}
