package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
)

// ConversationRepo keeps each session's history as one JSONB document.
type ConversationRepo struct {
	pool *pgxpool.Pool
}

func NewConversationRepo(pool *pgxpool.Pool) *ConversationRepo {
	return &ConversationRepo{pool: pool}
}

// Sink binds the repo to one session.
func (r *ConversationRepo) Sink(sessionID uuid.UUID) conversation.Sink {
	return sessionSink{backend: r, sessionID: sessionID}
}

func (r *ConversationRepo) LoadConversation(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var data []byte
	err := r.pool.QueryRow(ctx, `
		SELECT messages FROM conversations WHERE session_id = $1
	`, sessionID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", sessionID, err)
	}
	return conversation.Decode(data)
}

func (r *ConversationRepo) SaveConversation(ctx context.Context, sessionID uuid.UUID, msgs []models.ChatMessage) error {
	data, err := conversation.Encode(msgs)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO conversations (session_id, messages, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET messages = EXCLUDED.messages,
			updated_at = NOW()
	`, sessionID, data)
	if err != nil {
		return fmt.Errorf("failed to save conversation %s: %w", sessionID, err)
	}
	return nil
}

func (r *ConversationRepo) Delete(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM conversations WHERE session_id = $1`, sessionID)
	return err
}
