// Copyright (c) Supportstack. All rights reserved.

package supportagent

// Response is the result of one completed ProcessMessage call. It carries
// the assistant message, the mutated conversation (which the caller must
// thread into the next call), and per-response metadata.
//
// Documented metadata keys: conversation_turns, total_messages, session_id,
// processing_timestamp, analytics.
type Response struct {
	Message      Message
	Conversation *Conversation
	Metadata     map[string]any
}

// Text returns the assistant reply text.
func (r *Response) Text() string { return r.Message.Content }
