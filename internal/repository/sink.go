package repository

import (
	"context"

	"github.com/google/uuid"

	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
)

// conversationBackend stores whole conversations keyed by session.
type conversationBackend interface {
	LoadConversation(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error)
	SaveConversation(ctx context.Context, sessionID uuid.UUID, msgs []models.ChatMessage) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

type sessionSink struct {
	backend   conversationBackend
	sessionID uuid.UUID
}

func (s sessionSink) Load(ctx context.Context) ([]models.ChatMessage, error) {
	return s.backend.LoadConversation(ctx, s.sessionID)
}

func (s sessionSink) Save(ctx context.Context, msgs []models.ChatMessage) error {
	return s.backend.SaveConversation(ctx, s.sessionID, msgs)
}

func (s sessionSink) Delete(ctx context.Context) error {
	return s.backend.Delete(ctx, s.sessionID)
}

var (
	_ conversation.Sink    = sessionSink{}
	_ conversation.Deleter = sessionSink{}
)
