// Copyright (c) Supportstack. All rights reserved.

package support

import (
	"fmt"
	"sync"
	"time"
)

// Ticket priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Ticket statuses. Tickets are created open, may be escalated, and are
// never deleted.
const (
	StatusOpen      = "open"
	StatusEscalated = "escalated"
)

// Ticket is one support ticket. Tickets are mutated only by escalation.
type Ticket struct {
	ID               string    `json:"ticket_id"`
	CustomerID       string    `json:"customer_id"`
	Issue            string    `json:"issue"`
	Priority         string    `json:"priority"`
	Status           string    `json:"status"`
	AssignedTo       string    `json:"assigned_to"`
	CreatedAt        time.Time `json:"created_at"`
	EscalationReason string    `json:"escalation_reason,omitempty"`
}

// TicketStore is a process-wide in-memory ticket map shared across all
// sessions. There is no per-session isolation: a real deployment would
// replace this with a persistent datastore. Safe for concurrent use.
type TicketStore struct {
	mu      sync.Mutex
	tickets map[string]*Ticket
	now     func() time.Time
}

// TicketStoreOption configures a [TicketStore].
type TicketStoreOption func(*TicketStore)

// WithTicketClock overrides the store's time source, for tests.
func WithTicketClock(now func() time.Time) TicketStoreOption {
	return func(s *TicketStore) { s.now = now }
}

// NewTicketStore creates an empty ticket store.
func NewTicketStore(opts ...TicketStoreOption) *TicketStore {
	s := &TicketStore{
		tickets: make(map[string]*Ticket),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new ticket. Ids take the form TICKET-<n> with a strictly
// increasing numeric suffix per store lifetime. An empty priority defaults
// to medium. Creation always succeeds; there is no duplicate detection.
func (s *TicketStore) Create(customerID, issue, priority string) Ticket {
	if priority == "" {
		priority = PriorityMedium
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &Ticket{
		ID:         fmt.Sprintf("TICKET-%d", len(s.tickets)+1001),
		CustomerID: customerID,
		Issue:      issue,
		Priority:   priority,
		Status:     StatusOpen,
		AssignedTo: "Support Team",
		CreatedAt:  s.now().UTC(),
	}
	s.tickets[t.ID] = t
	return *t
}

// Get returns a copy of the ticket by exact id.
func (s *TicketStore) Get(id string) (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return Ticket{}, false
	}
	return *t, true
}

// Escalate marks the ticket escalated and records the reason. An unknown id
// is a no-op: the escalate tool deliberately reports success either way.
func (s *TicketStore) Escalate(id, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tickets[id]; ok {
		t.Status = StatusEscalated
		t.EscalationReason = reason
	}
}

// Len returns the number of tickets ever created.
func (s *TicketStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tickets)
}
