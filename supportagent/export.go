// Copyright (c) Supportstack. All rights reserved.

package supportagent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Export formats accepted by [Agent.ExportConversation].
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Summary is a read-side view over a conversation plus the agent's
// aggregate metrics.
type Summary struct {
	SessionID     string           `json:"session_id"`
	TotalTurns    int              `json:"total_turns"`
	TotalMessages int              `json:"total_messages"`
	CustomerID    string           `json:"customer_id,omitempty"`
	History       []map[string]any `json:"conversation_history"`
	State         map[string]any   `json:"state"`
	Metadata      map[string]any   `json:"metadata"`
	Metrics       Metrics          `json:"metrics"`
}

// ConversationSummary builds a [Summary] for the given conversation. It is
// a pure read: neither the conversation nor the collector is mutated.
func (a *Agent) ConversationSummary(conv *Conversation) Summary {
	return Summary{
		SessionID:     conv.SessionID,
		TotalTurns:    conv.TurnNumber(),
		TotalMessages: conv.MessageCount(),
		CustomerID:    conv.StateString(MetaCustomerID, ""),
		History:       conv.historyMaps(),
		State:         conv.State,
		Metadata:      conv.Metadata,
		Metrics:       a.collector.Snapshot(),
	}
}

// ExportConversation renders the conversation summary in the requested
// format: "json" (indented structured dump) or "text" (human-readable
// transcript). Any other format returns [ErrUnsupportedFormat].
func (a *Agent) ExportConversation(conv *Conversation, format string) (string, error) {
	summary := a.ConversationSummary(conv)

	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal summary: %w", err)
		}
		return string(b), nil

	case FormatText:
		var b strings.Builder
		b.WriteString("=== Conversation Summary ===\n")
		fmt.Fprintf(&b, "Session ID: %s\n", summary.SessionID)
		fmt.Fprintf(&b, "Total Turns: %d\n", summary.TotalTurns)
		fmt.Fprintf(&b, "Customer ID: %s\n", summary.CustomerID)
		b.WriteString("\n=== Messages ===\n")
		for _, m := range conv.History() {
			fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(m.Role)), m.Content)
		}
		return b.String(), nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
