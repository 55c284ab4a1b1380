package models

import (
	"time"

	"github.com/google/uuid"
)

// Settings are the per-session knobs: model configuration plus the
// quick-recommendation form.
type Settings struct {
	APIKey       string  `json:"api_key,omitempty"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	Goal         string  `json:"goal"`
	DaysPerWeek  int     `json:"days_per_week"`
	Equipment    string  `json:"equipment"`
	BodyWeightKg float64 `json:"body_weight_kg"`
	DietPref     string  `json:"diet_pref"`
}

var (
	Models    = []string{"gemini-pro", "gemini-1.5-flash", "gemini-1.5-pro"}
	Goals     = []string{"bulking", "cutting", "kebugaran", "strength"}
	DietPrefs = []string{"flexible", "halal", "vegetarian", "vegan"}
)

// DefaultSettings mirrors the initial state of the settings form.
func DefaultSettings() Settings {
	return Settings{
		Model:        "gemini-1.5-flash",
		Temperature:  0.7,
		Goal:         "kebugaran",
		DaysPerWeek:  3,
		Equipment:    "bodyweight",
		BodyWeightKg: 70,
		DietPref:     "flexible",
	}
}

// Redacted returns a copy safe to send back to clients.
func (s Settings) Redacted() Settings {
	if s.APIKey != "" {
		s.APIKey = "********"
	}
	return s
}

type SessionInfo struct {
	ID        uuid.UUID `json:"session_id"`
	Token     string    `json:"token"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"created_at"`
}

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type MessagesAppended struct {
	SessionID uuid.UUID     `json:"session_id"`
	Messages  []ChatMessage `json:"messages"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
