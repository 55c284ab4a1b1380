package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitcoach-backend/internal/agent"
	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
	"fitcoach-backend/internal/orchestrator"
)

// Options are the server-wide defaults applied to every session.
type Options struct {
	// DefaultModel and DefaultTemperature seed new and reopened sessions;
	// empty or nil falls back to models.DefaultSettings.
	DefaultModel       string
	DefaultTemperature *float64
	DefaultAPIKey      string
	MaxToolIterations  int
	Limiter            *agent.Limiter
}

// Manager owns all live sessions. It is safe for concurrent use.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[uuid.UUID]*Session
	sinks      SinkFactory
	buildAgent AgentFactory
	publisher  Publisher
	opts       Options
}

func NewManager(sinks SinkFactory, agents AgentFactory, publisher Publisher, opts Options) *Manager {
	if sinks == nil {
		sinks = func(uuid.UUID) conversation.Sink { return nil }
	}
	return &Manager{
		sessions:   make(map[uuid.UUID]*Session),
		sinks:      sinks,
		buildAgent: agents,
		publisher:  publisher,
		opts:       opts,
	}
}

// Create starts a new session with normalized settings.
func (m *Manager) Create(ctx context.Context, settings models.Settings) (*Session, error) {
	settings, err := Normalize(settings)
	if err != nil {
		return nil, err
	}
	return m.open(ctx, uuid.New(), settings, false)
}

// Get returns a live session or reopens one from its persisted history,
// e.g. after a restart. Reopened sessions start from Defaults. A session
// with no persisted history (never saved, deleted, or memory-only) is
// ErrNotFound.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}
	return m.open(ctx, id, m.Defaults(), true)
}

// Defaults returns the settings a session starts from.
func (m *Manager) Defaults() models.Settings {
	d := models.DefaultSettings()
	if m.opts.DefaultModel != "" {
		d.Model = m.opts.DefaultModel
	}
	if m.opts.DefaultTemperature != nil {
		d.Temperature = *m.opts.DefaultTemperature
	}
	return d
}

// Delete closes the session and removes its persisted history.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	err := s.drop(ctx)
	s.close()
	return err
}

// Close releases every session's agent.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.close()
		delete(m.sessions, id)
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) open(ctx context.Context, id uuid.UUID, settings models.Settings, requireHistory bool) (*Session, error) {
	store, err := conversation.Open(ctx, m.sinks(id))
	if err != nil {
		return nil, fmt.Errorf("failed to open session %s: %w", id, err)
	}
	if requireHistory && store.Len() == 0 {
		return nil, ErrNotFound
	}

	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		settings:  settings,
		orch:      orchestrator.New(store, nil),
		mgr:       m,
	}
	s.rebuildAgent(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[id]; ok {
		// Lost a reopen race; keep the first.
		s.close()
		return existing, nil
	}
	m.sessions[id] = s
	return s, nil
}
