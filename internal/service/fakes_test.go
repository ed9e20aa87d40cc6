package service

import (
	"context"
	"errors"
	"sync"

	"mondichat-be/internal/entity"
	"mondichat-be/internal/repository/contract"
	"mondichat-be/internal/repository/specification"
	"mondichat-be/internal/repository/unitofwork"
	"mondichat-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// fakeDB is an in-memory stand-in for the gorm unit of work. Writes made
// inside a transaction only become visible on Commit.
type fakeDB struct {
	mu         sync.Mutex
	clients    []*entity.ClientRoute
	routes     map[string]*entity.UserRoute
	reports    []*entity.Report
	replaceErr error
	reportErr  error
	countErr   error
	commits    int
}

func newFakeDB() *fakeDB {
	return &fakeDB{routes: make(map[string]*entity.UserRoute)}
}

func (db *fakeDB) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{db: db}
}

type fakeUow struct {
	db      *fakeDB
	inTx    bool
	clients []*entity.ClientRoute
	staged  bool
	reports []*entity.Report
}

func (u *fakeUow) Begin(ctx context.Context) error {
	if u.inTx {
		return errors.New("transaction already started")
	}
	u.inTx = true
	return nil
}

func (u *fakeUow) Commit() error {
	if !u.inTx {
		return errors.New("no transaction to commit")
	}
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	if u.staged {
		u.db.clients = u.clients
	}
	u.db.reports = append(u.db.reports, u.reports...)
	u.db.commits++
	u.inTx = false
	return nil
}

func (u *fakeUow) Rollback() error {
	if !u.inTx {
		return errors.New("no transaction to rollback")
	}
	u.inTx, u.staged, u.clients, u.reports = false, false, nil, nil
	return nil
}

func (u *fakeUow) ClientRouteRepository() contract.ClientRouteRepository {
	return &fakeClientRepo{uow: u}
}

func (u *fakeUow) UserRouteRepository() contract.UserRouteRepository {
	return &fakeUserRouteRepo{db: u.db}
}

func (u *fakeUow) ReportRepository() contract.ReportRepository {
	return &fakeReportRepo{uow: u}
}

type fakeClientRepo struct{ uow *fakeUow }

func (r *fakeClientRepo) ReplaceAll(ctx context.Context, rows []*entity.ClientRoute) error {
	if r.uow.db.replaceErr != nil {
		return r.uow.db.replaceErr
	}
	r.uow.clients, r.uow.staged = rows, true
	return nil
}

func (r *fakeClientRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ClientRoute, error) {
	r.uow.db.mu.Lock()
	defer r.uow.db.mu.Unlock()

	var route string
	limit := 0
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByRouteCode:
			route = v.RouteCode
		case specification.Pagination:
			limit = v.Limit
		}
	}
	var out []*entity.ClientRoute
	for _, c := range r.uow.db.clients {
		if route != "" && c.RouteCode != route {
			continue
		}
		out = append(out, c)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeClientRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.uow.db.mu.Lock()
	defer r.uow.db.mu.Unlock()
	if r.uow.db.countErr != nil {
		return 0, r.uow.db.countErr
	}
	return int64(len(r.uow.db.clients)), nil
}

type fakeUserRouteRepo struct{ db *fakeDB }

func (r *fakeUserRouteRepo) FindByUserId(ctx context.Context, userId string) (*entity.UserRoute, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.routes[userId], nil
}

func (r *fakeUserRouteRepo) Upsert(ctx context.Context, route *entity.UserRoute) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.routes[route.UserId] = route
	return nil
}

type fakeReportRepo struct{ uow *fakeUow }

func (r *fakeReportRepo) Create(ctx context.Context, report *entity.Report) error {
	if r.uow.db.reportErr != nil {
		return r.uow.db.reportErr
	}
	r.uow.reports = append(r.uow.reports, report)
	return nil
}

func (r *fakeReportRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Report, error) {
	return r.uow.db.reports, nil
}

type fakeEventPublisher struct {
	events []events.Event
	err    error
}

func (p *fakeEventPublisher) Publish(ctx context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}

// discardPublisher accepts and drops watermill messages.
type discardPublisher struct{}

func (discardPublisher) Publish(topic string, messages ...*message.Message) error { return nil }

func (discardPublisher) Close() error { return nil }

type logEntry struct {
	level   string
	message string
	details map[string]interface{}
}

// recordingLogger keeps every entry for assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, message: message, details: details})
}

func (l *recordingLogger) Debug(module, message string, details map[string]interface{}) {
	l.add("DEBUG", message, details)
}

func (l *recordingLogger) Info(module, message string, details map[string]interface{}) {
	l.add("INFO", message, details)
}

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.add("WARN", message, details)
}

func (l *recordingLogger) Error(module, message string, details map[string]interface{}) {
	l.add("ERROR", message, details)
}

func (l *recordingLogger) Sync() error { return nil }
