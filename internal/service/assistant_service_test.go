package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"mondichat-be/internal/dto"
	"mondichat-be/internal/pkg/logger"
	"mondichat-be/internal/repository/memory"
	"mondichat-be/pkg/classifier"
	"mondichat-be/pkg/llm"
	"mondichat-be/pkg/query"
	"mondichat-be/pkg/reconciler"
	"mondichat-be/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTranscriber struct {
	text string
	refs []string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioRef string) string {
	s.refs = append(s.refs, audioRef)
	return s.text
}

type stubCompleter struct {
	reply string
	turns []string
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt string, history []llm.Message, userTurn string) (string, error) {
	s.turns = append(s.turns, userTurn)
	return s.reply, nil
}

func newTestAssistant(t *testing.T, tr *stubTranscriber, completer *stubCompleter) (IAssistantService, *fakeDB) {
	t.Helper()
	db := newFakeDB()
	snapshots := newTestSnapshotService(db, nil)
	ctx := context.Background()

	_, err := snapshots.Upload(ctx, "rutas.csv", []byte(sampleCSV), reconciler.LayoutSingle)
	require.NoError(t, err)
	_, err = snapshots.AssignRoute(ctx, &dto.AssignRouteRequest{UserId: "u-1", RouteCode: "R01", QuotaPercentage: 80})
	require.NoError(t, err)

	sessions := session.NewManager(memory.NewSessionRepository(0), session.DefaultHistoryCap)
	sink := NewReportSink(NewPublisherService("CREATE_REPORT", &discardPublisher{}))
	engine := query.NewEngine(
		NewRouteStore(db),
		sessions,
		classifier.New(nil),
		completer,
		sink,
		logger.NewNopLogger(),
		query.Config{},
	).WithClock(func() time.Time { return uploadClock })

	return NewAssistantService(engine, sessions, tr, logger.NewNopLogger()), db
}

func TestAssistantQueryListsRouteClients(t *testing.T) {
	svc, _ := newTestAssistant(t, &stubTranscriber{}, &stubCompleter{})

	res, err := svc.Query(context.Background(), "u-1", &dto.QueryRequest{Text: "lista de clientes"})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Bodega Uno")
	assert.Contains(t, res.Reply, "Bodega Dos")
	assert.NotContains(t, res.Reply, "Bodega Tres")
	// Most urgent first: K2 with zero units before K3 with four.
	assert.Less(t, strings.Index(res.Reply, "Bodega Dos"), strings.Index(res.Reply, "Bodega Uno"))
}

func TestAssistantUnknownUser(t *testing.T) {
	svc, _ := newTestAssistant(t, &stubTranscriber{}, &stubCompleter{})

	res, err := svc.Query(context.Background(), "nobody", &dto.QueryRequest{Text: "lista"})
	require.NoError(t, err)
	assert.Equal(t, query.MsgNoRoute, res.Reply)
}

func TestAssistantWebhookAudio(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       string
	}{
		{"failed transcription", "", query.MsgEmptyAudio},
		{"list words go to the generative path", "lista de rojos", "respuesta generada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &stubTranscriber{text: tt.transcript}
			completer := &stubCompleter{reply: "respuesta generada"}
			svc, _ := newTestAssistant(t, tr, completer)

			res, err := svc.HandleWebhook(context.Background(), &dto.WebhookMessageRequest{
				UserId:   "u-1",
				AudioUrl: "https://example.com/voice.ogg",
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Reply)
			assert.Equal(t, []string{"https://example.com/voice.ogg"}, tr.refs)
		})
	}
}

func TestAssistantWebhookTextAndReset(t *testing.T) {
	tr := &stubTranscriber{}
	svc, _ := newTestAssistant(t, tr, &stubCompleter{reply: "hola"})
	ctx := context.Background()

	res, err := svc.HandleWebhook(ctx, &dto.WebhookMessageRequest{UserId: "u-1", Text: "lista"})
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "Bodega")
	assert.Empty(t, tr.refs)

	require.NoError(t, svc.ResetSession(ctx, "u-1"))
	res, err = svc.Query(ctx, "u-1", &dto.QueryRequest{Text: "ver más"})
	require.NoError(t, err)
	assert.Equal(t, query.MsgNoMoreItems, res.Reply)
}
