package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fitcoach-backend/internal/models"
)

// FileSink stores the conversation as one JSON array of
// {role, content, time}, rewritten on every save.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (f *FileSink) Path() string { return f.path }

// Load returns an empty history when the file does not exist.
func (f *FileSink) Load(ctx context.Context) ([]models.ChatMessage, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return Decode(data)
}

func (f *FileSink) Save(ctx context.Context, msgs []models.ChatMessage) error {
	data, err := Encode(msgs)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace history: %w", err)
	}
	return nil
}

// Delete removes the history file; a missing file is not an error.
func (f *FileSink) Delete(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}

// Encode renders messages in the persisted JSON format.
func Encode(msgs []models.ChatMessage) ([]byte, error) {
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history: %w", err)
	}
	return data, nil
}

// Decode parses the persisted JSON format. Empty input is an empty history.
func Decode(data []byte) ([]models.ChatMessage, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var msgs []models.ChatMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return msgs, nil
}
