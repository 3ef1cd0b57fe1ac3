// Copyright (c) Supportstack. All rights reserved.

package supportagent

import "github.com/lithammer/shortuuid/v4"

// Conversation holds the mutable state of one support session: the
// append-only message history, a key-value state map, and per-request
// metadata consumed by the middleware chain.
//
// A Conversation is owned by the caller: the agent keeps no session map, so
// the caller must thread the conversation returned in each [Response] into
// the next ProcessMessage call to preserve history. Conversations are NOT
// safe for concurrent writers; serialize calls per session.
type Conversation struct {
	SessionID string

	// State carries conversation-scoped values (customer_id, customer_info,
	// turn_number). Last write wins.
	State map[string]any

	// Metadata carries per-request values set by the agent and the
	// middleware layers (request_id, timestamp, validated, analytics).
	Metadata map[string]any

	messages []Message
}

// NewConversation creates an empty conversation. An empty sessionID gets a
// generated one.
func NewConversation(sessionID string) *Conversation {
	if sessionID == "" {
		sessionID = "session_" + shortuuid.New()
	}
	return &Conversation{
		SessionID: sessionID,
		State:     make(map[string]any),
		Metadata:  make(map[string]any),
	}
}

// AddMessage appends a message to the history. The history only grows;
// there is no removal.
func (c *Conversation) AddMessage(m Message) {
	c.messages = append(c.messages, m)
}

// History returns a copy of the message history in append order.
func (c *Conversation) History() []Message {
	cp := make([]Message, len(c.messages))
	copy(cp, c.messages)
	return cp
}

// Last returns the most recent message, or false when the history is empty.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// MessageCount returns the number of messages in the history.
func (c *Conversation) MessageCount() int { return len(c.messages) }

// SetState stores a conversation-scoped value.
func (c *Conversation) SetState(key string, value any) {
	if c.State == nil {
		c.State = make(map[string]any)
	}
	c.State[key] = value
}

// StateValue returns the state value for key, or def when absent.
func (c *Conversation) StateValue(key string, def any) any {
	if v, ok := c.State[key]; ok {
		return v
	}
	return def
}

// StateString returns the state value for key as a string, or def when the
// key is absent or not a string.
func (c *Conversation) StateString(key, def string) string {
	if v, ok := c.State[key].(string); ok {
		return v
	}
	return def
}

// TurnNumber returns the number of completed or in-flight turns.
func (c *Conversation) TurnNumber() int {
	if v, ok := c.State[MetaTurnNumber].(int); ok {
		return v
	}
	return 0
}

// SetMetadata stores a per-request metadata value.
func (c *Conversation) SetMetadata(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
}

// truncateLast caps the content of the latest message at max runes.
// It reports whether truncation happened. This is the one sanctioned
// in-place edit of an appended message, used by the validation layer.
func (c *Conversation) truncateLast(max int) bool {
	if len(c.messages) == 0 {
		return false
	}
	last := &c.messages[len(c.messages)-1]
	runes := []rune(last.Content)
	if len(runes) <= max {
		return false
	}
	last.Content = string(runes[:max])
	return true
}

// historyMaps returns the serializable view of the history.
func (c *Conversation) historyMaps() []map[string]any {
	out := make([]map[string]any, 0, len(c.messages))
	for _, m := range c.messages {
		out = append(out, m.asMap())
	}
	return out
}
