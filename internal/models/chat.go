package models

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string    `json:"role"` // "user", "assistant" or "system"
	Content string    `json:"content"`
	Time    time.Time `json:"time"`
}

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned after every chat event.
type ChatResponse struct {
	Reply          string        `json:"reply,omitempty"`
	Messages       []ChatMessage `json:"messages"`
	AgentAvailable bool          `json:"agent_available"`
	Warning        string        `json:"warning,omitempty"`
}
