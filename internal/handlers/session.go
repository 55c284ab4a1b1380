package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/middleware"
	"fitcoach-backend/internal/models"
	"fitcoach-backend/internal/session"
)

type sessionManager interface {
	Defaults() models.Settings
	Create(ctx context.Context, settings models.Settings) (*session.Session, error)
	Get(ctx context.Context, id uuid.UUID) (*session.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tokenIssuer interface {
	GenerateToken(sessionID uuid.UUID) (string, error)
}

type SessionHandler struct {
	sessions sessionManager
	tokens   tokenIssuer
}

func NewSessionHandler(sessions sessionManager, tokens tokenIssuer) *SessionHandler {
	return &SessionHandler{sessions: sessions, tokens: tokens}
}

// Create starts an anonymous session. The body is optional; omitted
// settings keep their defaults.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	settings := h.sessions.Defaults()
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	s, err := h.sessions.Create(r.Context(), settings)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	token, err := h.tokens.GenerateToken(s.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, models.SessionInfo{
		ID:        s.ID,
		Token:     token,
		Settings:  s.Settings().Redacted(),
		CreatedAt: s.CreatedAt,
	})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())
	// Make sure the session is live so its persisted history gets cleared.
	if _, err := h.sessions.Get(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session deleted"})
}

func (h *SessionHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, ok := h.current(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings":        s.Settings().Redacted(),
		"agent_available": s.AgentAvailable(),
		"warning":         s.Warning(),
	})
}

// UpdateSettings applies a partial update on top of the current settings.
// Changing settings may answer a pending user message.
func (h *SessionHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	s, ok := h.current(w, r)
	if !ok {
		return
	}

	settings := s.Settings()
	settings.APIKey = ""
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	out, err := s.UpdateSettings(r.Context(), settings)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"settings": s.Settings().Redacted(),
		"chat":     chatResponse(s, out.Reply),
	})
}

// Export writes the conversation in the history file format (json) or as
// YAML.
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.current(w, r)
	if !ok {
		return
	}

	msgs := s.Messages()
	format := r.URL.Query().Get("format")
	switch format {
	case "", "json":
		data, err := conversation.Encode(msgs)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="chat_history.json"`)
		w.Write(data)
	case "yaml":
		if msgs == nil {
			msgs = []models.ChatMessage{}
		}
		data, err := yaml.Marshal(msgs)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Content-Disposition", `attachment; filename="chat_history.yaml"`)
		w.Write(data)
	default:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Unsupported export format",
			map[string]string{"format": "must be json or yaml"}, r))
	}
}

func (h *SessionHandler) current(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	return currentSession(h.sessions, w, r)
}

func currentSession(sessions sessionManager, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := sessions.Get(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}
	return s, true
}
