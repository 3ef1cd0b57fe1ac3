// Copyright (c) Supportstack. All rights reserved.

package support

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/supportstack/support-agent/supportagent"
)

var ticketIDPattern = regexp.MustCompile(`TICKET-\d+`)

// Router is a deterministic keyword-matching reply generator: the first
// matching intent category wins. It implements [supportagent.Generator] and
// is the piece an LLM-backed generator replaces wholesale.
type Router struct {
	kb        *KnowledgeBase
	tickets   *TicketStore
	customers *CustomerStore
}

var _ supportagent.Generator = (*Router)(nil)

// NewRouter creates a [Router] over the given stores.
func NewRouter(kb *KnowledgeBase, tickets *TicketStore, customers *CustomerStore) *Router {
	return &Router{kb: kb, tickets: tickets, customers: customers}
}

// Generate routes the latest user message to an intent category and builds
// the reply. It has no side effects beyond ticket creation in the
// ticket-request branch.
func (r *Router) Generate(_ context.Context, conv *supportagent.Conversation) (string, error) {
	last, ok := conv.Last()
	if !ok {
		return "", supportagent.ErrEmptyConversation
	}

	message := last.Content
	lowered := strings.ToLower(message)
	greeting := r.greeting(conv)

	switch {
	case containsAny(lowered, "password", "reset", "login", "access"):
		return fmt.Sprintf("%sI can help you with password issues.\n\n%s", greeting, r.kb.Search("reset password")), nil

	case containsAny(lowered, "shipping", "delivery", "ship"):
		return fmt.Sprintf("%sHere's information about our shipping:\n\n%s", greeting, r.kb.Search("shipping policy")), nil

	case containsAny(lowered, "return", "refund", "exchange"):
		return fmt.Sprintf("%sHere's our return policy:\n\n%s", greeting, r.kb.Search("return policy")), nil

	case containsAny(lowered, "billing", "charge", "payment", "card"):
		return fmt.Sprintf("%sLet me help with your billing concern:\n\n%s", greeting, r.kb.Search("billing issue")), nil

	case containsAny(lowered, "ticket", "status", "check"):
		return r.ticketStatusReply(greeting, message), nil

	case containsAny(lowered, "create ticket", "new ticket", "open ticket", "help", "issue", "problem"):
		return r.createTicketReply(greeting, message, conv), nil

	default:
		return fmt.Sprintf("%sI'm here to help! %s\n\nIf you need further assistance, I can create a support ticket for you.",
			greeting, r.kb.Search(message)), nil
	}
}

func (r *Router) greeting(conv *supportagent.Conversation) string {
	info, ok := conv.State["customer_info"].(map[string]any)
	if !ok {
		return ""
	}
	name, _ := info["name"].(string)
	if name == "" {
		name = "valued customer"
	}
	return fmt.Sprintf("Hello %s, ", name)
}

func (r *Router) ticketStatusReply(greeting, message string) string {
	ticketID := ticketIDPattern.FindString(strings.ToUpper(message))
	if ticketID == "" {
		return greeting + "Please provide your ticket ID (format: TICKET-XXXX) so I can check its status."
	}

	t, found := r.tickets.Get(ticketID)
	if !found {
		return fmt.Sprintf("%sI couldn't find ticket %s. Please verify the ticket number.", greeting, ticketID)
	}
	return fmt.Sprintf("%sHere's the status of your ticket:\n\nTicket ID: %s\nStatus: %s\nPriority: %s\nCreated: %s",
		greeting, t.ID, t.Status, t.Priority, t.CreatedAt.Format(time.RFC3339))
}

func (r *Router) createTicketReply(greeting, message string, conv *supportagent.Conversation) string {
	customerID := conv.StateString(supportagent.MetaCustomerID, "CUST-UNKNOWN")
	t := r.tickets.Create(customerID, message, PriorityMedium)
	return fmt.Sprintf("%sI've created a support ticket for you:\n\nSupport ticket %s has been created. A team member will respond within 24 hours.\n\nYour ticket ID is: %s",
		greeting, t.ID, t.ID)
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
