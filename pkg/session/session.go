// Package session keeps per-user pagination cursors and a bounded
// conversation history behind a pluggable Store.
package session

import (
	"context"
	"fmt"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	DefaultPageSize   = 10
	DefaultHistoryCap = 20
)

// Turn is one entry of the conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Pagination is the remaining result set of a deterministic query.
type Pagination struct {
	Items    []string `json:"items"`
	Cursor   int      `json:"cursor"`
	PageSize int      `json:"page_size"`
}

// UserSession is the state kept per user id.
type UserSession struct {
	History    []Turn      `json:"history"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Clone returns a deep copy so callers never share slices.
func (s *UserSession) Clone() *UserSession {
	if s == nil {
		return &UserSession{}
	}
	out := &UserSession{History: append([]Turn(nil), s.History...)}
	if s.Pagination != nil {
		out.Pagination = &Pagination{
			Items:    append([]string(nil), s.Pagination.Items...),
			Cursor:   s.Pagination.Cursor,
			PageSize: s.Pagination.PageSize,
		}
	}
	return out
}

// Store persists sessions keyed by user id. Get returns (nil, nil) for an
// unknown user.
type Store interface {
	Get(ctx context.Context, userId string) (*UserSession, error)
	Set(ctx context.Context, userId string, s *UserSession) error
	Delete(ctx context.Context, userId string) error
}

// Page is one slice of a paginated result.
type Page struct {
	Items      []string
	NextCursor int
	HasMore    bool
	Total      int
}

// Remaining is the number of items after this page.
func (p Page) Remaining() int {
	return p.Total - p.NextCursor
}

// NextPage returns items[cursor:cursor+pageSize]. A non-positive pageSize
// selects DefaultPageSize.
func NextPage(items []string, cursor, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	cursor = min(max(cursor, 0), len(items))
	end := min(cursor+pageSize, len(items))
	return Page{
		Items:      items[cursor:end],
		NextCursor: end,
		HasMore:    end < len(items),
		Total:      len(items),
	}
}

// Manager applies the pagination and history rules on top of a Store.
type Manager struct {
	store      Store
	historyCap int
}

func NewManager(store Store, historyCap int) *Manager {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Manager{store: store, historyCap: historyCap}
}

// Load returns a copy of the user's session, empty when none is stored.
func (m *Manager) Load(ctx context.Context, userId string) (*UserSession, error) {
	s, err := m.store.Get(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", userId, err)
	}
	return s.Clone(), nil
}

// StartPagination replaces any prior pagination with items and returns the
// first page.
func (m *Manager) StartPagination(ctx context.Context, userId string, items []string, pageSize int) (Page, error) {
	s, err := m.Load(ctx, userId)
	if err != nil {
		return Page{}, err
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s.Pagination = &Pagination{Items: append([]string(nil), items...), PageSize: pageSize}
	return m.advance(ctx, userId, s)
}

// Continue returns the next page. ok is false when no pagination is pending.
func (m *Manager) Continue(ctx context.Context, userId string) (Page, bool, error) {
	s, err := m.Load(ctx, userId)
	if err != nil {
		return Page{}, false, err
	}
	if s.Pagination == nil || s.Pagination.Cursor >= len(s.Pagination.Items) {
		return Page{}, false, nil
	}
	page, err := m.advance(ctx, userId, s)
	return page, err == nil, err
}

// advance cuts the next page and stores the cursor. An exhausted pagination
// is removed from the session.
func (m *Manager) advance(ctx context.Context, userId string, s *UserSession) (Page, error) {
	p := s.Pagination
	page := NextPage(p.Items, p.Cursor, p.PageSize)
	if page.HasMore {
		p.Cursor = page.NextCursor
	} else {
		s.Pagination = nil
	}
	if err := m.save(ctx, userId, s); err != nil {
		return Page{}, err
	}
	return page, nil
}

// AppendHistory adds turns and drops the oldest ones beyond the cap.
func (m *Manager) AppendHistory(ctx context.Context, userId string, turns ...Turn) error {
	s, err := m.Load(ctx, userId)
	if err != nil {
		return err
	}
	s.History = append(s.History, turns...)
	if excess := len(s.History) - m.historyCap; excess > 0 {
		s.History = append([]Turn(nil), s.History[excess:]...)
	}
	return m.save(ctx, userId, s)
}

// Reset forgets everything about the user.
func (m *Manager) Reset(ctx context.Context, userId string) error {
	if err := m.store.Delete(ctx, userId); err != nil {
		return fmt.Errorf("delete session %s: %w", userId, err)
	}
	return nil
}

func (m *Manager) save(ctx context.Context, userId string, s *UserSession) error {
	if err := m.store.Set(ctx, userId, s.Clone()); err != nil {
		return fmt.Errorf("save session %s: %w", userId, err)
	}
	return nil
}
