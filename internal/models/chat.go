package models

import "time"

// Conversation groups chatbot messages. Public conversations are scoped by a
// client-generated session ID since API callers are not authenticated.
type Conversation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Title     string    `gorm:"size:200;not null;default:'New Conversation'" json:"title"`
	SessionID string    `gorm:"size:100;index" json:"session_id,omitempty"`

	Messages []ChatMessage `json:"-"`
}

// Chat message roles, OpenAI-compatible.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

type ChatMessage struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	ConversationID uint      `gorm:"not null;index" json:"-"`
	Role           string    `gorm:"size:20;not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
