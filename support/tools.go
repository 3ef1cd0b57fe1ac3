// Copyright (c) Supportstack. All rights reserved.

package support

import (
	"context"
	"fmt"
	"time"

	"github.com/supportstack/support-agent/supportagent"
)

// SearchArgs are the arguments to the search_knowledge_base tool.
type SearchArgs struct {
	Query string `json:"query" jsonschema:"description=The search query from the customer,required"`
}

// CreateTicketArgs are the arguments to the create_support_ticket tool.
type CreateTicketArgs struct {
	CustomerID string `json:"customer_id" jsonschema:"description=Unique customer identifier,required"`
	Issue      string `json:"issue"       jsonschema:"description=Description of the customer's issue,required"`
	Priority   string `json:"priority"    jsonschema:"description=Priority level,enum=low|medium|high|urgent"`
}

// CreateTicketResult is the result of create_support_ticket.
type CreateTicketResult struct {
	TicketID string `json:"ticket_id"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// TicketStatusArgs are the arguments to the check_ticket_status tool.
type TicketStatusArgs struct {
	TicketID string `json:"ticket_id" jsonschema:"description=The ticket ID to check,required"`
}

// TicketStatusResult is the result of check_ticket_status. A missing ticket
// is reported through Found, never as an error.
type TicketStatusResult struct {
	Found     bool   `json:"found"`
	TicketID  string `json:"ticket_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Priority  string `json:"priority,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Message   string `json:"message,omitempty"`
}

// CustomerInfoArgs are the arguments to the get_customer_info tool.
type CustomerInfoArgs struct {
	CustomerID string `json:"customer_id" jsonschema:"description=Unique customer identifier,required"`
}

// EscalateArgs are the arguments to the escalate_to_human tool.
type EscalateArgs struct {
	TicketID string `json:"ticket_id" jsonschema:"description=The ticket ID to escalate,required"`
	Reason   string `json:"reason"    jsonschema:"description=Reason for escalation,required"`
}

// EscalateResult is the result of escalate_to_human. Unlike the other
// ticket tools it carries no found flag: escalation reports success even for
// an unknown ticket id.
type EscalateResult struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	TicketID string `json:"ticket_id"`
}

// Tools builds the support tool registry over the given stores.
func Tools(kb *KnowledgeBase, tickets *TicketStore, customers *CustomerStore) *supportagent.Registry {
	return supportagent.NewRegistry(
		supportagent.NewTypedTool("search_knowledge_base",
			"Search the knowledge base for relevant information",
			func(_ context.Context, args SearchArgs) (any, error) {
				return kb.Search(args.Query), nil
			},
		),
		supportagent.NewTypedTool("create_support_ticket",
			"Create a new support ticket for the customer",
			func(_ context.Context, args CreateTicketArgs) (any, error) {
				t := tickets.Create(args.CustomerID, args.Issue, args.Priority)
				return CreateTicketResult{
					TicketID: t.ID,
					Status:   "created",
					Message:  fmt.Sprintf("Support ticket %s has been created. A team member will respond within 24 hours.", t.ID),
				}, nil
			},
		),
		supportagent.NewTypedTool("check_ticket_status",
			"Check the status of an existing support ticket",
			func(_ context.Context, args TicketStatusArgs) (any, error) {
				t, ok := tickets.Get(args.TicketID)
				if !ok {
					return TicketStatusResult{
						Found:   false,
						Message: fmt.Sprintf("Ticket %s not found. Please verify the ticket ID.", args.TicketID),
					}, nil
				}
				return TicketStatusResult{
					Found:     true,
					TicketID:  t.ID,
					Status:    t.Status,
					Priority:  t.Priority,
					CreatedAt: t.CreatedAt.Format(time.RFC3339),
				}, nil
			},
		),
		supportagent.NewTypedTool("get_customer_info",
			"Retrieve customer information and history",
			func(_ context.Context, args CustomerInfoArgs) (any, error) {
				return customers.Lookup(args.CustomerID), nil
			},
		),
		supportagent.NewTypedTool("escalate_to_human",
			"Escalate the conversation to a human agent",
			func(_ context.Context, args EscalateArgs) (any, error) {
				tickets.Escalate(args.TicketID, args.Reason)
				return EscalateResult{
					Status:   StatusEscalated,
					Message:  "Your request has been escalated to a human agent. You will be contacted within 2 hours.",
					TicketID: args.TicketID,
				}, nil
			},
		),
	)
}
