// Package transcript records the chat conversation.
package transcript

import (
	"fmt"
	"time"
)

// Role tags a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleError     Role = "error"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem, RoleError:
		return true
	}
	return false
}

// Message is one transcript entry. SuggestedSection is only set on
// assistant messages; PromptID only on user messages sent with a prompt.
type Message struct {
	ID               string    `json:"id"`
	Role             Role      `json:"role"`
	Content          string    `json:"content"`
	SuggestedSection string    `json:"suggestedSection,omitempty"`
	PromptID         string    `json:"promptId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// User creates a user message.
func User(content, promptID string) Message {
	return Message{Role: RoleUser, Content: content, PromptID: promptID}
}

// Assistant creates an assistant message.
func Assistant(content, suggestedSection string) Message {
	return Message{Role: RoleAssistant, Content: content, SuggestedSection: suggestedSection}
}

// System creates a system message.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// Error creates an error message from err.
func Error(err error) Message {
	return Message{Role: RoleError, Content: fmt.Sprintf("Error: %v", err)}
}
