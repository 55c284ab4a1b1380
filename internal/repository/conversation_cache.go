package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
)

// ConversationCache keeps each session's history under one Redis key.
type ConversationCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewConversationCache creates the cache; ttl 0 keeps keys forever.
func NewConversationCache(client *redis.Client, ttl time.Duration) *ConversationCache {
	return &ConversationCache{redis: client, ttl: ttl}
}

func conversationKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("conversation:%s", sessionID.String())
}

func (c *ConversationCache) Sink(sessionID uuid.UUID) conversation.Sink {
	return sessionSink{backend: c, sessionID: sessionID}
}

func (c *ConversationCache) LoadConversation(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	data, err := c.redis.Get(ctx, conversationKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", sessionID, err)
	}
	return conversation.Decode(data)
}

func (c *ConversationCache) SaveConversation(ctx context.Context, sessionID uuid.UUID, msgs []models.ChatMessage) error {
	data, err := conversation.Encode(msgs)
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, conversationKey(sessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation %s: %w", sessionID, err)
	}
	return nil
}

func (c *ConversationCache) Delete(ctx context.Context, sessionID uuid.UUID) error {
	return c.redis.Del(ctx, conversationKey(sessionID)).Err()
}
