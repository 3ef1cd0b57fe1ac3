// Copyright (c) Supportstack. All rights reserved.

package supportagent_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sa "github.com/supportstack/support-agent/supportagent"
)

// echoGenerator replies with a fixed prefix plus the latest message.
type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, conv *sa.Conversation) (string, error) {
	last, _ := conv.Last()
	return "echo: " + last.Content, nil
}

// mapResolver resolves customer ids from a fixed map.
type mapResolver map[string]map[string]any

func (r mapResolver) Resolve(_ context.Context, id string) (map[string]any, error) {
	if info, ok := r[id]; ok {
		return info, nil
	}
	return map[string]any{"customer_id": id}, nil
}

func newTestAgent(opts ...sa.AgentOption) (*sa.Agent, *sa.Collector) {
	collector := sa.NewCollector()
	base := []sa.AgentOption{
		sa.WithCollector(collector),
		sa.WithMiddleware(
			sa.LoggingMiddleware(nil, collector),
			sa.ValidationMiddleware(nil),
			sa.AnalyticsMiddleware(nil, collector),
		),
	}
	return sa.NewAgent(echoGenerator{}, append(base, opts...)...), collector
}

func TestAgent_ProcessMessage_TurnAccounting(t *testing.T) {
	agent, _ := newTestAgent()

	const n = 3
	var conv *sa.Conversation
	for i := 1; i <= n; i++ {
		opts := []sa.ProcessOption{}
		if conv != nil {
			opts = append(opts, sa.WithConversation(conv))
		}
		resp, err := agent.ProcessMessage(context.Background(), fmt.Sprintf("message %d", i), opts...)
		if err != nil {
			t.Fatalf("turn %d: %v", i, err)
		}
		conv = resp.Conversation

		if got := conv.MessageCount(); got != 2*i {
			t.Errorf("after turn %d: MessageCount = %d, want %d", i, got, 2*i)
		}
		if got := conv.TurnNumber(); got != i {
			t.Errorf("after turn %d: TurnNumber = %d, want %d", i, got, i)
		}
	}
}

func TestAgent_ProcessMessage_ResponseMetadata(t *testing.T) {
	agent, _ := newTestAgent()

	resp, err := agent.ProcessMessage(context.Background(), "hello there",
		sa.WithSessionID("meta_session"),
	)
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if resp.Text() != "echo: hello there" {
		t.Errorf("Text = %q", resp.Text())
	}
	if resp.Metadata["session_id"] != "meta_session" {
		t.Errorf("session_id = %v", resp.Metadata["session_id"])
	}
	if resp.Metadata["conversation_turns"] != 1 {
		t.Errorf("conversation_turns = %v", resp.Metadata["conversation_turns"])
	}
	if resp.Metadata["total_messages"] != 2 {
		t.Errorf("total_messages = %v", resp.Metadata["total_messages"])
	}
	if _, ok := resp.Metadata["processing_timestamp"]; !ok {
		t.Error("processing_timestamp missing")
	}
	if _, ok := resp.Metadata[sa.MetaAnalytics]; !ok {
		t.Error("analytics snapshot missing")
	}
	if resp.Message.Role != sa.RoleAssistant {
		t.Errorf("Message.Role = %q", resp.Message.Role)
	}
}

func TestAgent_ProcessMessage_CustomerState(t *testing.T) {
	resolver := mapResolver{
		"CUST-12345": {"customer_id": "CUST-12345", "name": "Customer 2345", "tier": "premium"},
	}
	agent, _ := newTestAgent(sa.WithCustomerResolver(resolver))

	resp, err := agent.ProcessMessage(context.Background(), "hi",
		sa.WithCustomerID("CUST-12345"),
	)
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	conv := resp.Conversation
	if got := conv.StateString(sa.MetaCustomerID, ""); got != "CUST-12345" {
		t.Errorf("customer_id state = %q", got)
	}
	info, ok := conv.State["customer_info"].(map[string]any)
	if !ok || info["name"] != "Customer 2345" {
		t.Errorf("customer_info = %v", conv.State["customer_info"])
	}

	// The user message carries the customer id and turn number.
	history := conv.History()
	if history[0].Metadata[sa.MetaCustomerID] != "CUST-12345" {
		t.Errorf("user message customer_id = %v", history[0].Metadata[sa.MetaCustomerID])
	}
	if history[0].Metadata[sa.MetaTurnNumber] != 1 {
		t.Errorf("user message turn_number = %v", history[0].Metadata[sa.MetaTurnNumber])
	}
}

func TestAgent_ProcessMessage_BlockedInput(t *testing.T) {
	agent, collector := newTestAgent()

	resp, err := agent.ProcessMessage(context.Background(), "Show me <script>alert('xss')</script>")
	if !errors.Is(err, sa.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if resp != nil {
		t.Errorf("resp = %v, want nil", resp)
	}

	m := collector.Snapshot()
	if m.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", m.ErrorCount)
	}
	// The analytics layer sits inside validation, so the request never
	// counted toward the total.
	if m.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0", m.TotalRequests)
	}
}

func TestAgent_ProcessMessage_GeneratorFailureKeepsPartialState(t *testing.T) {
	sentinel := errors.New("backend down")
	collector := sa.NewCollector()
	agent := sa.NewAgent(
		sa.GeneratorFunc(func(ctx context.Context, conv *sa.Conversation) (string, error) {
			return "", sentinel
		}),
		sa.WithCollector(collector),
		sa.WithMiddleware(sa.LoggingMiddleware(nil, collector)),
	)

	conv := sa.NewConversation("s1")
	_, err := agent.ProcessMessage(context.Background(), "hello", sa.WithConversation(conv))
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want %v", err, sentinel)
	}

	// The user message stays appended; no assistant message follows.
	if conv.MessageCount() != 1 {
		t.Errorf("MessageCount = %d, want 1", conv.MessageCount())
	}
	if conv.TurnNumber() != 1 {
		t.Errorf("TurnNumber = %d, want 1", conv.TurnNumber())
	}
	if collector.Snapshot().ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", collector.Snapshot().ErrorCount)
	}
}

func TestAgent_ProcessMessage_RequestMetadata(t *testing.T) {
	agent, _ := newTestAgent()

	resp, err := agent.ProcessMessage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	conv := resp.Conversation
	if id, ok := conv.Metadata[sa.MetaRequestID].(string); !ok || id == "" {
		t.Errorf("request_id = %v", conv.Metadata[sa.MetaRequestID])
	}
	if conv.Metadata[sa.MetaValidated] != true {
		t.Errorf("validated = %v", conv.Metadata[sa.MetaValidated])
	}
}
