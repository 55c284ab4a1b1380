package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
)

func openTestSQLite(t *testing.T) *SQLiteConversationRepo {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteConversationRepo_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := openTestSQLite(t)
	id := uuid.New()

	store, err := conversation.Open(ctx, repo.Sink(id))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("Expected empty history for unknown session, got %d", store.Len())
	}

	store.Append(ctx, models.ChatMessage{Role: models.RoleUser, Content: "hai"})
	store.Append(ctx, models.ChatMessage{Role: models.RoleAssistant, Content: "halo"})

	reloaded, err := conversation.Open(ctx, repo.Sink(id))
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	msgs := reloaded.Messages()
	if len(msgs) != 2 || msgs[0].Content != "hai" || msgs[1].Role != models.RoleAssistant {
		t.Errorf("Unexpected reloaded history %+v", msgs)
	}
}

func TestSQLiteConversationRepo_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo := openTestSQLite(t)
	a, b := uuid.New(), uuid.New()

	if err := repo.SaveConversation(ctx, a, []models.ChatMessage{{Role: models.RoleUser, Content: "a"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.LoadConversation(ctx, b)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected no history for other session, got %+v", got)
	}

	if err := repo.Delete(ctx, a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = repo.LoadConversation(ctx, a)
	if len(got) != 0 {
		t.Errorf("Expected history deleted, got %+v", got)
	}
}

func TestConversationKey(t *testing.T) {
	id := uuid.MustParse("6f1c2a9e-0b6d-4d7e-9a51-2f4d6c8b1e3a")
	if got := conversationKey(id); got != "conversation:6f1c2a9e-0b6d-4d7e-9a51-2f4d6c8b1e3a" {
		t.Errorf("Unexpected key %q", got)
	}
}

func TestSQLiteConversationRepo_DropDeletesRow(t *testing.T) {
	ctx := context.Background()
	repo := openTestSQLite(t)
	id := uuid.New()

	store, _ := conversation.Open(ctx, repo.Sink(id))
	store.Append(ctx, models.ChatMessage{Role: models.RoleUser, Content: "hai"})

	if err := store.Drop(ctx); err != nil {
		t.Fatalf("drop: %v", err)
	}

	var n int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected row to be deleted, found %d", n)
	}
}
