// Package session maps browser sessions onto their own transaction store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tracker/internal/cache"
	"tracker/internal/services"
)

// StoreFactory creates the store of a new session.
type StoreFactory interface {
	CreateStore(ctx context.Context, sessionID string) (*services.TransactionService, error)
}

// Session is one visitor's isolated workspace.
type Session struct {
	ID        string
	Store     *services.TransactionService
	CreatedAt time.Time
}

// Manager owns all live sessions. Idle sessions expire after the TTL and the
// least recently used ones are evicted beyond the size limit; either way the
// session store is closed.
type Manager struct {
	factory  StoreFactory
	sessions *cache.LRUCache[*Session]
	logger   *slog.Logger
	now      func() time.Time
}

// Config holds session limits.
type Config struct {
	TTL         time.Duration
	MaxSessions int
}

func NewManager(factory StoreFactory, cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		factory: factory,
		logger:  logger,
		now:     time.Now,
	}
	m.sessions = cache.NewLRUCache[*Session](cfg.MaxSessions, cfg.TTL,
		cache.WithSlidingTTL[*Session](),
		cache.WithOnEvict(m.closeSession),
	)
	return m
}

// Cache exposes the session cache for registration with a cache.Manager.
func (m *Manager) Cache() cache.Cleaner {
	return m.sessions
}

// Get returns the live session with id.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return m.sessions.Get(id)
}

// Resolve returns the session with id, or a freshly created one when id is
// empty, unknown or expired. created reports whether a new session was made.
func (m *Manager) Resolve(ctx context.Context, id string) (s *Session, created bool, err error) {
	if s, ok := m.Get(id); ok {
		return s, false, nil
	}
	s, err = m.Create(ctx)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// Create starts a new session with a seeded store.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewString()
	store, err := m.factory.CreateStore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("create session store: %w", err)
	}
	s := &Session{ID: id, Store: store, CreatedAt: m.now()}
	m.sessions.Set(id, s)
	m.logger.DebugContext(ctx, "Session created", "session_id", id, "active", m.sessions.Size())
	return s, nil
}

// End discards a session and closes its store.
func (m *Manager) End(id string) {
	m.sessions.Delete(id)
}

// Active returns the number of live sessions.
func (m *Manager) Active() int {
	return m.sessions.Size()
}

// Close ends every session.
func (m *Manager) Close() error {
	m.sessions.Purge()
	return nil
}

func (m *Manager) closeSession(id string, s *Session) {
	if err := s.Store.Close(); err != nil && !errors.Is(err, context.Canceled) {
		m.logger.Warn("Failed to close session store", "session_id", id, "error", err)
		return
	}
	m.logger.Debug("Session closed", "session_id", id)
}
