package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"fitcoach-backend/internal/models"
	"fitcoach-backend/internal/session"
)

type ChatHandler struct {
	sessions sessionManager
}

func NewChatHandler(sessions sessionManager) *ChatHandler {
	return &ChatHandler{sessions: sessions}
}

func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chatResponse(s, ""))
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	s, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	out, err := s.Submit(r.Context(), req.Message)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse(s, out.Reply))
}

func (h *ChatHandler) QuickWorkout(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	out, err := s.QuickWorkout(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse(s, out.Reply))
}

func (h *ChatHandler) QuickMeal(w http.ResponseWriter, r *http.Request) {
	s, ok := currentSession(h.sessions, w, r)
	if !ok {
		return
	}

	out, err := s.QuickMeal(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse(s, out.Reply))
}

func chatResponse(s *session.Session, reply string) models.ChatResponse {
	msgs := s.Messages()
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return models.ChatResponse{
		Reply:          reply,
		Messages:       msgs,
		AgentAvailable: s.AgentAvailable(),
		Warning:        s.Warning(),
	}
}
