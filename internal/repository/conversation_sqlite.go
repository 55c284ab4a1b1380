package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
)

// SQLiteConversationRepo is the single-file alternative to Postgres.
type SQLiteConversationRepo struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(path string) (*SQLiteConversationRepo, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	r := &SQLiteConversationRepo{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteConversationRepo) Close() error {
	return r.db.Close()
}

func (r *SQLiteConversationRepo) migrate() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS conversations (
		session_id TEXT PRIMARY KEY,
		messages   TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`)
	return err
}

func (r *SQLiteConversationRepo) Sink(sessionID uuid.UUID) conversation.Sink {
	return sessionSink{backend: r, sessionID: sessionID}
}

func (r *SQLiteConversationRepo) LoadConversation(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT messages FROM conversations WHERE session_id = ?`, sessionID.String(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation %s: %w", sessionID, err)
	}
	return conversation.Decode([]byte(data))
}

func (r *SQLiteConversationRepo) SaveConversation(ctx context.Context, sessionID uuid.UUID, msgs []models.ChatMessage) error {
	data, err := conversation.Encode(msgs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO conversations (session_id, messages, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			messages = excluded.messages,
			updated_at = excluded.updated_at
	`, sessionID.String(), string(data), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save conversation %s: %w", sessionID, err)
	}
	return nil
}

func (r *SQLiteConversationRepo) Delete(ctx context.Context, sessionID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE session_id = ?`, sessionID.String())
	return err
}
