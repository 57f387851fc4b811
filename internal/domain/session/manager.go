// Package session manages editor sessions. Each session owns exactly one
// component tree; all mutation of a tree happens on the goroutine serving
// its session.
package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mosaicui/mosaic/backend/internal/domain/component"
	"github.com/mosaicui/mosaic/backend/internal/domain/meta"
	"github.com/mosaicui/mosaic/backend/internal/infrastructure/logging"
	"github.com/mosaicui/mosaic/backend/internal/shared/id"
)

// Session is one editing session and the tree it owns
type Session struct {
	ID        id.SessionID `json:"id"`
	Name      string       `json:"name"`
	CreatedAt time.Time    `json:"created_at"`

	Tree *component.Tree `json:"-"`
}

// Manager tracks live sessions. Sessions are independent; concurrent
// operations against different sessions share only the read-only catalog.
type Manager struct {
	sessions sync.Map
	catalog  *meta.Catalog
	logger   *logging.Logger

	defaultOnce sync.Once
	defaultID   id.SessionID
}

// NewManager creates a session manager
func NewManager(cat *meta.Catalog, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Manager{catalog: cat, logger: logger.Named("session")}
}

// Create opens a new session with a fresh tree
func (m *Manager) Create(name string) *Session {
	s := &Session{
		ID:        id.NewSessionID(),
		Name:      name,
		CreatedAt: time.Now(),
		Tree:      component.NewTree(m.catalog, m.logger),
	}
	m.sessions.Store(s.ID.String(), s)
	m.logger.Info("session created", zap.String("session_id", s.ID.String()), zap.String("name", name))
	return s
}

// Get retrieves a session by ID
func (m *Manager) Get(sessionID string) (*Session, bool) {
	val, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// Default returns the lazily created default session. Callers that pass no
// session ID operate on this one.
func (m *Manager) Default() *Session {
	m.defaultOnce.Do(func() {
		s := m.Create("default")
		m.defaultID = s.ID
	})
	s, _ := m.Get(m.defaultID.String())
	return s
}

// Resolve maps an optional session ID onto a session: empty means default
func (m *Manager) Resolve(sessionID string) (*Session, bool) {
	if sessionID == "" {
		return m.Default(), true
	}
	return m.Get(sessionID)
}

// Close destroys a session and its tree
func (m *Manager) Close(sessionID string) bool {
	_, ok := m.sessions.LoadAndDelete(sessionID)
	if ok {
		m.logger.Info("session closed", zap.String("session_id", sessionID))
	}
	return ok
}

// List returns all live sessions
func (m *Manager) List() []*Session {
	var out []*Session
	m.sessions.Range(func(_, value interface{}) bool {
		out = append(out, value.(*Session))
		return true
	})
	return out
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	n := 0
	m.sessions.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
