package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"fitcoach-backend/internal/models"
)

type fixedTokens map[string]uuid.UUID

func (f fixedTokens) ParseToken(tokenStr string) (uuid.UUID, error) {
	id, ok := f[tokenStr]
	if !ok {
		return uuid.Nil, errors.New("bad token")
	}
	return id, nil
}

func TestHandleWebSocket_RejectsMissingOrBadToken(t *testing.T) {
	hub := NewHub(nil, fixedTokens{})

	for _, target := range []string{"/ws", "/ws?token=nope"} {
		rr := httptest.NewRecorder()
		hub.HandleWebSocket(rr, httptest.NewRequest(http.MethodGet, target, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", target, rr.Code)
		}
	}
}

func TestPublish_DeliversLocallyWithoutRedis(t *testing.T) {
	id := uuid.New()
	hub := NewHub(nil, fixedTokens{"good": id})

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=good"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Connections(id) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connection was never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish(context.Background(), id, models.WSMessage{
		Type: "messages_appended",
		Payload: models.MessagesAppended{
			SessionID: id,
			Messages:  []models.ChatMessage{{Role: models.RoleAssistant, Content: "Halo"}},
		},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage failed: %v", err)
	}

	var got struct {
		Type    string                  `json:"type"`
		Payload models.MessagesAppended `json:"payload"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.Type != "messages_appended" {
		t.Errorf("Expected type messages_appended, got %s", got.Type)
	}
	if len(got.Payload.Messages) != 1 || got.Payload.Messages[0].Content != "Halo" {
		t.Errorf("Unexpected payload: %+v", got.Payload)
	}
}

func TestPublish_OtherSessionIsNotDelivered(t *testing.T) {
	hub := NewHub(nil, fixedTokens{})
	// No connections: must not panic.
	hub.Publish(context.Background(), uuid.New(), models.WSMessage{Type: "messages_appended"})
	if hub.Connections(uuid.New()) != 0 {
		t.Error("Expected no connections")
	}
}
