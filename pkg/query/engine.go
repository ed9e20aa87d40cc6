package query

import (
	"context"
	"errors"
	"strings"
	"time"

	"mondichat-be/pkg/classifier"
	"mondichat-be/pkg/intent"
	"mondichat-be/pkg/llm"
	"mondichat-be/pkg/normalize"
	"mondichat-be/pkg/reconciler"
	"mondichat-be/pkg/session"
)

const module = "QUERY"

type Config struct {
	PageSize int
	// RecordLimit caps the records read for one route.
	RecordLimit int
	Location    *time.Location
}

// Engine resolves one query at a time; all per-user state lives in the
// session manager.
type Engine struct {
	store      Store
	sessions   *session.Manager
	classifier *classifier.Classifier
	completer  llm.Completer
	reports    ReportSink
	logger     Logger
	cfg        Config
	now        func() time.Time
}

func NewEngine(
	store Store,
	sessions *session.Manager,
	cls *classifier.Classifier,
	completer llm.Completer,
	reports ReportSink,
	logger Logger,
	cfg Config,
) *Engine {
	if cfg.PageSize <= 0 {
		cfg.PageSize = session.DefaultPageSize
	}
	if cfg.RecordLimit <= 0 {
		cfg.RecordLimit = 1000
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Engine{
		store:      store,
		sessions:   sessions,
		classifier: cls,
		completer:  completer,
		reports:    reports,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

// WithClock overrides the clock used for "hoy" and the prompt date.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Answer never fails: adapter errors are logged and turned into fixed
// replies.
func (e *Engine) Answer(ctx context.Context, req Request) string {
	text := strings.TrimSpace(req.Text)
	if normalize.Text(text) == "" {
		if req.IsAudio {
			return MsgEmptyAudio
		}
		return MsgEmptyText
	}

	now := e.now().In(e.cfg.Location)
	in := intent.Parse(text, now)

	if in.Continuation {
		return e.continuePage(ctx, req.UserId)
	}

	route, err := e.store.FindUserRoute(ctx, req.UserId)
	if errors.Is(err, ErrRouteNotFound) {
		return MsgNoRoute
	}
	if err != nil {
		e.logger.Error(module, "Failed to load user route", map[string]interface{}{"user_id": req.UserId, "error": err.Error()})
		return MsgApology
	}

	clients, err := e.Classify(ctx, route.RouteCode)
	if err != nil {
		e.logger.Error(module, "Failed to load route records", map[string]interface{}{"route": route.RouteCode, "error": err.Error()})
		return MsgApology
	}

	if !req.IsAudio && in.Deterministic() {
		return e.list(ctx, req.UserId, clients, in)
	}
	return e.generate(ctx, req.UserId, text, *route, now, clients)
}

// Classify loads and classifies the route's clients, most urgent first.
func (e *Engine) Classify(ctx context.Context, routeCode string) ([]Client, error) {
	records, err := e.store.FindByRoute(ctx, routeCode, e.cfg.RecordLimit)
	if err != nil {
		return nil, err
	}
	return ClassifyRecords(e.classifier, records), nil
}

// ClassifyRecords classifies records, most urgent first.
func ClassifyRecords(cls *classifier.Classifier, records []reconciler.Record) []Client {
	clients := make([]Client, 0, len(records))
	for _, r := range records {
		clients = append(clients, Client{
			Code:    r.ClientCode,
			Name:    r.ClientName,
			Day:     r.VisitDay,
			Summary: cls.Classify(r.Attributes),
		})
	}
	sortByUrgency(clients)
	return clients
}

func (e *Engine) continuePage(ctx context.Context, userId string) string {
	page, ok, err := e.sessions.Continue(ctx, userId)
	if err != nil {
		e.logger.Error(module, "Failed to continue pagination", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return MsgApology
	}
	if !ok {
		return MsgNoMoreItems
	}
	return renderPage(page.Items, page.Remaining())
}

func (e *Engine) list(ctx context.Context, userId string, clients []Client, in intent.Intent) string {
	matches := filterClients(clients, in.Day, in.Color, in.HasColor)
	if len(matches) == 0 {
		return MsgNoMatches
	}

	blocks := make([]string, len(matches))
	for i, c := range matches {
		blocks[i] = FormatBlock(c)
	}

	pageSize := e.cfg.PageSize
	if in.Quantity > 0 {
		pageSize = in.Quantity
	}
	page, err := e.sessions.StartPagination(ctx, userId, blocks, pageSize)
	if err != nil {
		e.logger.Error(module, "Failed to store pagination", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return MsgApology
	}
	return renderPage(page.Items, page.Remaining())
}

func (e *Engine) generate(ctx context.Context, userId, text string, route Route, now time.Time, clients []Client) string {
	s, err := e.sessions.Load(ctx, userId)
	if err != nil {
		e.logger.Warn(module, "Session unavailable, answering without history", map[string]interface{}{"user_id": userId, "error": err.Error()})
		s = &session.UserSession{}
	}

	history := make([]llm.Message, len(s.History))
	for i, t := range s.History {
		history[i] = llm.Message{Role: t.Role, Content: t.Content}
	}

	systemPrompt := NewPromptBuilder(route, now, clients).Build()
	completion, err := e.completer.Complete(ctx, systemPrompt, history, text)
	if err != nil {
		e.logger.Error(module, "Generative fallback failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return MsgApology
	}

	reply := strings.TrimSpace(completion)
	if content, ok := extractReport(reply); ok {
		if err := e.reports.CreateReport(ctx, userId, content); err != nil {
			e.logger.Error(module, "Failed to store report", map[string]interface{}{"user_id": userId, "error": err.Error()})
			return MsgApology
		}
		reply = MsgReportSaved
	}

	if err := e.sessions.AppendHistory(ctx, userId,
		session.Turn{Role: session.RoleUser, Content: text},
		session.Turn{Role: session.RoleAssistant, Content: reply},
	); err != nil {
		e.logger.Warn(module, "Failed to append history", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}
	return reply
}
