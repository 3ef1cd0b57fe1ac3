// Copyright (c) Supportstack. All rights reserved.

// Package support implements the customer-support domain on top of the
// supportagent core: the knowledge base, ticket and customer stores, the
// tool set exposed to LLM-backed generators, and the rule-based router used
// as the default reply generator.
package support

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// NotFoundAnswer is returned by [KnowledgeBase.Search] when no topic
// matches the query.
const NotFoundAnswer = "No specific information found. Please provide more details so I can assist you better."

// KnowledgeBase is an ordered topic->article map searched by the
// search_knowledge_base tool and the router.
type KnowledgeBase struct {
	order    []string
	articles map[string]string
}

// NewKnowledgeBase creates a knowledge base seeded with the stock topics.
func NewKnowledgeBase() *KnowledgeBase {
	kb := &KnowledgeBase{articles: make(map[string]string)}
	kb.Add("reset_password", "To reset your password: 1) Go to login page 2) Click 'Forgot Password' 3) Enter your email 4) Follow the link in your email")
	kb.Add("shipping_policy", "We offer free shipping on orders over $50. Standard shipping takes 3-5 business days. Express shipping is available for $15.")
	kb.Add("return_policy", "Items can be returned within 30 days of purchase. Item must be unused and in original packaging. Refunds processed within 5-7 business days.")
	kb.Add("billing_issue", "For billing issues: 1) Check your email for receipt 2) Verify card details 3) Contact your bank 4) If unresolved, contact our billing department at billing@company.com")
	kb.Add("technical_support", "For technical support: 1) Clear browser cache 2) Try different browser 3) Check internet connection 4) Contact support at support@company.com")
	return kb
}

// LoadKnowledgeBase creates the stock knowledge base and merges extra topics
// from a YAML file of topic->article pairs.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	kb := NewKnowledgeBase()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var extra map[string]string
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}

	// YAML map iteration order is unstable; sort keys so merged topics
	// keep a deterministic order.
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kb.Add(k, extra[k])
	}
	return kb, nil
}

// Add inserts or replaces a topic.
func (kb *KnowledgeBase) Add(topic, article string) {
	if _, exists := kb.articles[topic]; !exists {
		kb.order = append(kb.order, topic)
	}
	kb.articles[topic] = article
}

// Len returns the number of topics.
func (kb *KnowledgeBase) Len() int { return len(kb.order) }

// Search matches the query's words against topic keys by containment and
// concatenates all matching articles, formatted with a title derived from
// the topic key. A query matching nothing returns [NotFoundAnswer].
func (kb *KnowledgeBase) Search(query string) string {
	words := strings.Fields(strings.ToLower(query))

	var results []string
	for _, topic := range kb.order {
		if topicMatches(topic, words) {
			results = append(results, fmt.Sprintf("**%s**: %s", topicTitle(topic), kb.articles[topic]))
		}
	}

	if len(results) == 0 {
		return NotFoundAnswer
	}
	return strings.Join(results, "\n\n")
}

func topicMatches(topic string, queryWords []string) bool {
	for _, w := range queryWords {
		if strings.Contains(topic, w) {
			return true
		}
	}
	return false
}

// topicTitle turns "reset_password" into "Reset Password".
func topicTitle(topic string) string {
	parts := strings.Split(topic, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
