// Package conversation holds the ordered message history of one session
// and persists it write-through to a Sink.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fitcoach-backend/internal/models"
)

// ErrMalformed marks persisted history that could not be decoded.
var ErrMalformed = errors.New("malformed conversation history")

// Sink serializes the whole conversation at once.
type Sink interface {
	Load(ctx context.Context) ([]models.ChatMessage, error)
	Save(ctx context.Context, msgs []models.ChatMessage) error
}

// Deleter is implemented by sinks that can remove the persisted record
// entirely.
type Deleter interface {
	Delete(ctx context.Context) error
}

// Store is an append-only message list. It is not safe for concurrent
// writers; callers serialize access per session.
type Store struct {
	sink     Sink
	messages []models.ChatMessage
	now      func() time.Time
}

// Open loads existing history from sink. Unreadable history is logged and
// treated as empty; a nil sink keeps history in memory only.
func Open(ctx context.Context, sink Sink) (*Store, error) {
	s := &Store{sink: sink, now: time.Now}
	if sink == nil {
		return s, nil
	}

	msgs, err := sink.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrMalformed) {
			return nil, fmt.Errorf("failed to load conversation: %w", err)
		}
		log.Printf("conversation: %v, starting with empty history", err)
		msgs = nil
	}
	s.messages = msgs
	return s, nil
}

// Append adds msg and persists the whole history before returning. If the
// save fails the message is dropped again.
func (s *Store) Append(ctx context.Context, msg models.ChatMessage) error {
	if msg.Time.IsZero() {
		msg.Time = s.now()
	}
	s.messages = append(s.messages, msg)

	if err := s.save(ctx); err != nil {
		s.messages = s.messages[:len(s.messages)-1]
		return err
	}
	return nil
}

// Clear drops all messages, persisting the empty history.
func (s *Store) Clear(ctx context.Context) error {
	prev := s.messages
	s.messages = nil
	if err := s.save(ctx); err != nil {
		s.messages = prev
		return err
	}
	return nil
}

// Drop forgets the history and removes its persisted record, or persists
// an empty history when the sink cannot delete.
func (s *Store) Drop(ctx context.Context) error {
	d, ok := s.sink.(Deleter)
	if !ok {
		return s.Clear(ctx)
	}
	if err := d.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	s.messages = nil
	return nil
}

// Messages returns a copy of the history in chronological order.
func (s *Store) Messages() []models.ChatMessage {
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Since returns a copy of the messages from index i on.
func (s *Store) Since(i int) []models.ChatMessage {
	if i >= len(s.messages) {
		return nil
	}
	out := make([]models.ChatMessage, len(s.messages)-i)
	copy(out, s.messages[i:])
	return out
}

func (s *Store) Last() (models.ChatMessage, bool) {
	if len(s.messages) == 0 {
		return models.ChatMessage{}, false
	}
	return s.messages[len(s.messages)-1], true
}

func (s *Store) Len() int { return len(s.messages) }

func (s *Store) save(ctx context.Context) error {
	if s.sink == nil {
		return nil
	}
	if err := s.sink.Save(ctx, s.messages); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}
