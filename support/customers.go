// Copyright (c) Supportstack. All rights reserved.

package support

import (
	"context"
	"sync"
)

// Customer is a synthesized customer record. Records are created on first
// lookup and never updated afterwards.
type Customer struct {
	ID             string  `json:"customer_id"`
	Name           string  `json:"name"`
	Tier           string  `json:"tier"`
	JoinDate       string  `json:"join_date"`
	TotalPurchases int     `json:"total_purchases"`
	LifetimeValue  float64 `json:"lifetime_value"`
}

// CustomerStore memoizes synthesized customer records by id. It is shared
// across sessions and safe for concurrent use. It implements
// [supportagent.CustomerResolver].
type CustomerStore struct {
	mu        sync.Mutex
	customers map[string]Customer
}

// NewCustomerStore creates an empty customer store.
func NewCustomerStore() *CustomerStore {
	return &CustomerStore{customers: make(map[string]Customer)}
}

// Lookup returns the customer record for id, synthesizing defaults on first
// access. Repeated lookups return the identical record.
func (s *CustomerStore) Lookup(id string) Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.customers[id]; ok {
		return c
	}

	c := Customer{
		ID:             id,
		Name:           "Customer " + lastN(id, 4),
		Tier:           "premium",
		JoinDate:       "2023-01-15",
		TotalPurchases: 12,
		LifetimeValue:  1250.50,
	}
	s.customers[id] = c
	return c
}

// Resolve implements supportagent.CustomerResolver, returning the record as
// the map stored into conversation state.
func (s *CustomerStore) Resolve(_ context.Context, customerID string) (map[string]any, error) {
	c := s.Lookup(customerID)
	return map[string]any{
		"customer_id":     c.ID,
		"name":            c.Name,
		"tier":            c.Tier,
		"join_date":       c.JoinDate,
		"total_purchases": c.TotalPurchases,
		"lifetime_value":  c.LifetimeValue,
	}, nil
}

func lastN(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
