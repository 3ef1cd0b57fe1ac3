// Copyright (c) Supportstack. All rights reserved.

package support_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/supportstack/support-agent/support"
	"github.com/supportstack/support-agent/supportagent"
)

func testRegistry() (*supportagent.Registry, *support.TicketStore) {
	tickets := support.NewTicketStore()
	return support.Tools(support.NewKnowledgeBase(), tickets, support.NewCustomerStore()), tickets
}

func invoke(t *testing.T, reg *supportagent.Registry, name, args string) any {
	t.Helper()
	tool, ok := reg.Get(name)
	if !ok {
		t.Fatalf("tool %q not registered", name)
	}
	result, err := tool.Invoke(context.Background(), json.RawMessage(args))
	if err != nil {
		t.Fatalf("invoke %s: %v", name, err)
	}
	return result
}

func TestTools_Registration(t *testing.T) {
	reg, _ := testRegistry()
	want := []string{
		"search_knowledge_base",
		"create_support_ticket",
		"check_ticket_status",
		"get_customer_info",
		"escalate_to_human",
	}
	if reg.Len() != len(want) {
		t.Fatalf("Len = %d, want %d", reg.Len(), len(want))
	}
	for i, tool := range reg.List() {
		if tool.Name() != want[i] {
			t.Errorf("tool[%d] = %q, want %q", i, tool.Name(), want[i])
		}
		if len(tool.Parameters()) == 0 {
			t.Errorf("tool %q has no parameter schema", tool.Name())
		}
	}
}

func TestTools_CreateThenCheck(t *testing.T) {
	reg, _ := testRegistry()

	created := invoke(t, reg, "create_support_ticket",
		`{"customer_id":"CUST-1","issue":"charged twice","priority":"high"}`).(support.CreateTicketResult)
	if created.Status != "created" {
		t.Errorf("Status = %q", created.Status)
	}
	if created.TicketID == "" {
		t.Fatal("empty ticket id")
	}

	status := invoke(t, reg, "check_ticket_status",
		`{"ticket_id":"`+created.TicketID+`"}`).(support.TicketStatusResult)
	if !status.Found {
		t.Fatalf("just-created ticket not found: %+v", status)
	}
	if status.Priority != support.PriorityHigh || status.Status != support.StatusOpen {
		t.Errorf("status = %+v", status)
	}
	if status.CreatedAt == "" {
		t.Error("CreatedAt missing")
	}
}

func TestTools_CheckUnknownTicket(t *testing.T) {
	reg, _ := testRegistry()

	status := invoke(t, reg, "check_ticket_status", `{"ticket_id":"TICKET-4242"}`).(support.TicketStatusResult)
	if status.Found {
		t.Error("unknown ticket reported found")
	}
	if status.Message == "" {
		t.Error("not-found result should carry a human message")
	}
}

// Escalation reports success even for an unknown ticket id, unlike every
// other ticket tool. That asymmetry is intentional and locked in here.
func TestTools_EscalateUnknownStillSucceeds(t *testing.T) {
	reg, tickets := testRegistry()

	result := invoke(t, reg, "escalate_to_human",
		`{"ticket_id":"TICKET-4242","reason":"angry customer"}`).(support.EscalateResult)
	if result.Status != support.StatusEscalated {
		t.Errorf("Status = %q, want escalated", result.Status)
	}
	if result.TicketID != "TICKET-4242" {
		t.Errorf("TicketID = %q", result.TicketID)
	}
	if tickets.Len() != 0 {
		t.Errorf("escalating an unknown id must not create a ticket")
	}
}

func TestTools_EscalateKnownMutates(t *testing.T) {
	reg, tickets := testRegistry()

	created := invoke(t, reg, "create_support_ticket",
		`{"customer_id":"CUST-1","issue":"broken"}`).(support.CreateTicketResult)

	invoke(t, reg, "escalate_to_human",
		`{"ticket_id":"`+created.TicketID+`","reason":"no response"}`)

	ticket, _ := tickets.Get(created.TicketID)
	if ticket.Status != support.StatusEscalated || ticket.EscalationReason != "no response" {
		t.Errorf("ticket = %+v", ticket)
	}
}

func TestTools_SearchAndCustomerInfo(t *testing.T) {
	reg, _ := testRegistry()

	answer := invoke(t, reg, "search_knowledge_base", `{"query":"shipping"}`).(string)
	if answer == support.NotFoundAnswer {
		t.Errorf("shipping query should match: %q", answer)
	}

	info := invoke(t, reg, "get_customer_info", `{"customer_id":"CUST-12345"}`).(support.Customer)
	if info.Name != "Customer 2345" {
		t.Errorf("Name = %q", info.Name)
	}
	again := invoke(t, reg, "get_customer_info", `{"customer_id":"CUST-12345"}`).(support.Customer)
	if info != again {
		t.Error("customer record not memoized")
	}
}
