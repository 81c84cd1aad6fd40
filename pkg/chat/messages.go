package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pryce-dev/vantage/pkg/report"
)

type Message struct {
	ID          string         `json:"id"`
	Role        string         `json:"role"`
	Content     string         `json:"content"`
	IsStreaming bool           `json:"is_streaming"`
	Report      *report.Report `json:"report,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FlagPrefix marks assistant entries that carry a classified backend
// failure. The rendering layer styles flagged entries differently; nothing
// else in the engine treats them specially.
const FlagPrefix = "⚠ "

func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleUser,
		Content:   strings.TrimSpace(content),
		CreatedAt: time.Now(),
	}
}

func NewAssistantMessage(content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Role:      RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewStreamingMessage creates the assistant message that accumulates an
// in-flight turn. Content is seeded from the first received fragment.
func NewStreamingMessage(content string) Message {
	msg := NewAssistantMessage(content)
	msg.IsStreaming = true
	return msg
}

// NewFlaggedMessage creates a flagged assistant entry for a classified
// backend failure.
func NewFlaggedMessage(content string) Message {
	return NewAssistantMessage(FlagPrefix + content)
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

func (m Message) IsFlagged() bool {
	return strings.HasPrefix(m.Content, FlagPrefix)
}

func (m Message) IsEmpty() bool {
	return strings.TrimSpace(m.Content) == ""
}
