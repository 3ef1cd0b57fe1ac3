// Copyright (c) Supportstack. All rights reserved.

// Package supportagent provides the core types for building a
// customer-support chat agent: a conversation model, a composable
// middleware pipeline, a tool registry, and an Agent that wires them
// around a pluggable reply generator.
//
// # Quick Start
//
// Build a generator (the support package ships a rule-based router) and an
// agent around it:
//
//	collector := supportagent.NewCollector()
//
//	agent := supportagent.NewAgent(router,
//	    supportagent.WithName("SupportBot"),
//	    supportagent.WithCollector(collector),
//	    supportagent.WithMiddleware(
//	        supportagent.LoggingMiddleware(logger, collector),
//	        supportagent.ValidationMiddleware(logger),
//	        supportagent.AnalyticsMiddleware(logger, collector),
//	    ),
//	)
//
//	resp, err := agent.ProcessMessage(ctx, "I forgot my password",
//	    supportagent.WithCustomerID("CUST-12345"),
//	)
//
// The conversation returned in resp.Conversation must be threaded into the
// next call to preserve history:
//
//	resp2, err := agent.ProcessMessage(ctx, "And your return policy?",
//	    supportagent.WithConversation(resp.Conversation),
//	)
//
// # Architecture
//
//   - [Conversation]: per-session message history, key-value state, and
//     per-request metadata. Owned by the caller; not safe for concurrent
//     writers.
//   - [Middleware]: ordered interceptors wrapping reply generation. The
//     builtin layers are [LoggingMiddleware], [ValidationMiddleware], and
//     [AnalyticsMiddleware], registered first-is-outermost.
//   - [Tool] / [Registry]: named callables with JSON Schema parameters,
//     exposed to LLM-backed generators via function calling.
//   - [Generator]: produces the reply text; the piece most likely to be
//     replaced by a real LLM call.
//   - [Agent]: composes the above into ProcessMessage plus the
//     ConversationSummary and ExportConversation read-side views.
package supportagent
