package memory

import (
	"context"
	"testing"
	"time"

	"mondichat-be/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepositoryCopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(0)

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	s := &session.UserSession{History: []session.Turn{{Role: session.RoleUser, Content: "hola"}}}
	require.NoError(t, repo.Set(ctx, "u1", s))
	s.History[0].Content = "changed"

	got, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.History, 1)
	assert.Equal(t, "hola", got.History[0].Content)

	got.History = append(got.History, session.Turn{Role: session.RoleAssistant, Content: "x"})
	again, _ := repo.Get(ctx, "u1")
	assert.Len(t, again.History, 1)

	other, _ := repo.Get(ctx, "u2")
	assert.Nil(t, other)

	require.NoError(t, repo.Delete(ctx, "u1"))
	got, _ = repo.Get(ctx, "u1")
	assert.Nil(t, got)
}

func TestSessionRepositoryExpires(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(30 * time.Millisecond)

	require.NoError(t, repo.Set(ctx, "u1", &session.UserSession{}))
	assert.Eventually(t, func() bool {
		got, _ := repo.Get(ctx, "u1")
		return got == nil
	}, time.Second, 10*time.Millisecond)
}
