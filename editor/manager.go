package editor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gutenbridge/post"
)

// Manager owns the open editor sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *zap.Logger
	opts     []Option
}

// NewManager returns a Manager whose coordinators are built with opts.
func NewManager(logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logger,
		opts:     opts,
	}
}

// Create opens a session for p and starts its coordinator.
func (m *Manager) Create(p *post.Post) *Session {
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		nav:       &RecordingNavBar{},
	}
	s.logger = m.logger.With(zap.String("session", s.ID))
	s.onDismiss = func(id string) { _ = m.Close(id) }

	opts := make([]Option, 0, len(m.opts)+3)
	opts = append(opts, m.opts...)
	opts = append(opts,
		WithNavigationBar(s.nav),
		WithMediaPicker(s),
		WithLogger(s.logger),
	)
	s.coord = NewCoordinator(p, s, s, opts...)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	go func() {
		_ = s.coord.Run(context.Background())
		m.remove(s.ID)
	}()
	s.logger.Info("editor session opened", zap.String("title", p.Title()))
	return s
}

// List returns sessions oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	list := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		list = append(list, s)
	}
	m.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close stops the session's coordinator, which invalidates its surface.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	s.coord.Stop()
	return nil
}

// Shutdown closes every session and waits for their coordinators to stop.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		sessions = append(sessions, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.coord.Stop()
	}
	for _, s := range sessions {
		select {
		case <-s.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
