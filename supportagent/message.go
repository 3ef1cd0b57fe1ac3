// Copyright (c) Supportstack. All rights reserved.

package supportagent

import "time"

// Role identifies the author of a [Message].
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleSystem never appears in a Conversation history; it exists for
	// generators that assemble LLM prompts.
	RoleSystem Role = "system"
)

// Well-known metadata keys used on messages and conversations. Keeping them
// as constants avoids stringly-typed drift between the agent, the middleware
// layers, and callers reading exported conversations.
const (
	MetaCustomerID          = "customer_id"
	MetaTurnNumber          = "turn_number"
	MetaRequestID           = "request_id"
	MetaTimestamp           = "timestamp"
	MetaValidated           = "validated"
	MetaValidationTimestamp = "validation_timestamp"
	MetaAnalytics           = "analytics"
)

// Message represents a single conversational turn. Messages are immutable
// once appended to a [Conversation]: the history stores them by value and
// hands out copies.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewUserMessage creates a user-role [Message] from a text string.
func NewUserMessage(text string, metadata map[string]any) Message {
	return Message{
		Role:      RoleUser,
		Content:   text,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}

// NewAssistantMessage creates an assistant-role [Message] from a text string.
func NewAssistantMessage(text string, metadata map[string]any) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   text,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
}

// asMap returns the serializable view of a message used by summaries and
// the JSON export format.
func (m Message) asMap() map[string]any {
	out := map[string]any{
		"role":      string(m.Role),
		"content":   m.Content,
		"timestamp": m.Timestamp.Format(time.RFC3339Nano),
	}
	for k, v := range m.Metadata {
		out[k] = v
	}
	return out
}
