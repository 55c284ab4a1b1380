// Package session keeps one conversation, orchestrator and settings set
// per chat session and rebuilds the agent when settings change.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitcoach-backend/internal/agent"
	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
	"fitcoach-backend/internal/orchestrator"
	"fitcoach-backend/internal/tools"
)

var ErrNotFound = errors.New("session not found")

const WarningNoAPIKey = "Masukkan Google Gemini API key di pengaturan untuk mengaktifkan agent."

// Agent is an invoker that owns a client connection.
type Agent interface {
	orchestrator.Invoker
	Close() error
}

// AgentFactory builds an agent for one immutable configuration.
type AgentFactory func(ctx context.Context, cfg agent.Config) (Agent, error)

// SinkFactory returns the history sink for a session; nil keeps history in
// memory only.
type SinkFactory func(id uuid.UUID) conversation.Sink

// Publisher receives the messages appended by every event.
type Publisher interface {
	Publish(ctx context.Context, sessionID uuid.UUID, msg models.WSMessage)
}

// GeminiAgents is the production AgentFactory.
func GeminiAgents(registry *tools.Registry) AgentFactory {
	return func(ctx context.Context, cfg agent.Config) (Agent, error) {
		a, err := agent.Build(ctx, cfg, registry)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

// Session serializes its events: each one runs to completion before the
// next starts.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	settings models.Settings
	orch     *orchestrator.Orchestrator
	agent    Agent
	warning  string
	mgr      *Manager
}

func (s *Session) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Store().Messages()
}

// Warning is non-empty while no agent is available.
func (s *Session) Warning() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warning
}

func (s *Session) AgentAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.AgentAvailable()
}

func (s *Session) Submit(ctx context.Context, input string) (orchestrator.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.orch.Submit(ctx, input)
	s.publish(ctx, out.Appended)
	return out, err
}

// QuickWorkout submits the workout shortcut built from the current settings.
func (s *Session) QuickWorkout(ctx context.Context) (orchestrator.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.orch.QuickWorkout(ctx, orchestrator.WorkoutParams{
		Goal:        s.settings.Goal,
		DaysPerWeek: s.settings.DaysPerWeek,
		Equipment:   s.settings.Equipment,
	})
	s.publish(ctx, out.Appended)
	return out, err
}

// QuickMeal submits the meal-plan shortcut built from the current settings.
func (s *Session) QuickMeal(ctx context.Context) (orchestrator.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.orch.QuickMeal(ctx, orchestrator.MealParams{
		Goal:         s.settings.Goal,
		BodyWeightKg: s.settings.BodyWeightKg,
		DietPref:     s.settings.DietPref,
	})
	s.publish(ctx, out.Appended)
	return out, err
}

// UpdateSettings replaces the settings, rebuilds the agent and answers a
// user message that was left pending.
func (s *Session) UpdateSettings(ctx context.Context, settings models.Settings) (orchestrator.Outcome, error) {
	settings, err := Normalize(settings)
	if err != nil {
		return orchestrator.Outcome{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if settings.APIKey == "" {
		settings.APIKey = s.settings.APIKey
	}
	s.settings = settings
	s.rebuildAgent(ctx)

	out, err := s.orch.Resume(ctx)
	s.publish(ctx, out.Appended)
	return out, err
}

// Clear drops the conversation history.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Store().Clear(ctx)
}

func (s *Session) drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orch.Store().Drop(ctx)
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeAgent()
}

// rebuildAgent must be called with s.mu held.
func (s *Session) rebuildAgent(ctx context.Context) {
	s.closeAgent()

	key := s.settings.APIKey
	if key == "" {
		key = s.mgr.opts.DefaultAPIKey
	}
	if key == "" {
		s.warning = WarningNoAPIKey
		s.orch.SetAgent(nil)
		return
	}

	a, err := s.mgr.buildAgent(context.WithoutCancel(ctx), agent.Config{
		APIKey:            key,
		Model:             s.settings.Model,
		Temperature:       s.settings.Temperature,
		MaxToolIterations: s.mgr.opts.MaxToolIterations,
		Limiter:           s.mgr.opts.Limiter,
	})
	if err != nil || a == nil {
		log.Printf("session %s: agent unavailable: %v", s.ID, err)
		s.warning = fmt.Sprintf("Agent tidak tersedia: %v", err)
		s.orch.SetAgent(nil)
		return
	}

	s.agent = a
	s.warning = ""
	s.orch.SetAgent(a)
}

func (s *Session) closeAgent() {
	if s.agent == nil {
		return
	}
	if err := s.agent.Close(); err != nil {
		log.Printf("session %s: failed to close agent: %v", s.ID, err)
	}
	s.agent = nil
}

func (s *Session) publish(ctx context.Context, appended []models.ChatMessage) {
	if s.mgr.publisher == nil || len(appended) == 0 {
		return
	}
	s.mgr.publisher.Publish(ctx, s.ID, models.WSMessage{
		Type:    "messages_appended",
		Payload: models.MessagesAppended{SessionID: s.ID, Messages: appended},
	})
}
