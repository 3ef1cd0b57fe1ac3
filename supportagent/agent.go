// Copyright (c) Supportstack. All rights reserved.

package supportagent

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Generator produces a reply from the current conversation state. The rule
// router in the support package is the default implementation; an LLM-backed
// client can replace it wholesale. Implementations must be total functions
// of (conversation, latest message) with no hidden side effects beyond tool
// invocation.
type Generator interface {
	Generate(ctx context.Context, conv *Conversation) (string, error)
}

// GeneratorFunc adapts a plain function to the [Generator] interface.
type GeneratorFunc func(ctx context.Context, conv *Conversation) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, conv *Conversation) (string, error) {
	return f(ctx, conv)
}

// CustomerResolver looks up (or synthesizes) the customer record stored into
// conversation state when a customer id accompanies a message.
type CustomerResolver interface {
	Resolve(ctx context.Context, customerID string) (map[string]any, error)
}

// Agent composes the conversation lifecycle, the middleware chain, and a
// [Generator] into a single ProcessMessage entry point, plus read-side
// summary and export views.
//
// The agent holds no per-session map: callers own conversations and must
// serialize calls sharing one.
type Agent struct {
	name         string
	instructions string
	gen          Generator
	middleware   []Middleware
	tools        *Registry
	resolver     CustomerResolver
	collector    *Collector
	logger       *slog.Logger
	now          func() time.Time
}

// AgentOption configures an [Agent] via [NewAgent].
type AgentOption func(*Agent)

// WithName sets the agent's display name.
func WithName(name string) AgentOption {
	return func(a *Agent) { a.name = name }
}

// WithInstructions sets system instructions, used by LLM-backed generators
// when assembling prompts.
func WithInstructions(instructions string) AgentOption {
	return func(a *Agent) { a.instructions = instructions }
}

// WithMiddleware sets the ordered middleware chain. The chain is fixed at
// construction; requests flow through it in list order.
func WithMiddleware(mws ...Middleware) AgentOption {
	return func(a *Agent) { a.middleware = append(a.middleware, mws...) }
}

// WithTools attaches the agent's tool registry.
func WithTools(reg *Registry) AgentOption {
	return func(a *Agent) { a.tools = reg }
}

// WithCustomerResolver attaches the resolver used to populate customer_info
// state when a customer id is supplied.
func WithCustomerResolver(r CustomerResolver) AgentOption {
	return func(a *Agent) { a.resolver = r }
}

// WithCollector attaches the metrics collector surfaced by summaries.
func WithCollector(c *Collector) AgentOption {
	return func(a *Agent) { a.collector = c }
}

// WithLogger sets the agent's logger.
func WithLogger(logger *slog.Logger) AgentOption {
	return func(a *Agent) { a.logger = logger }
}

// WithClock overrides the agent's time source, for tests.
func WithClock(now func() time.Time) AgentOption {
	return func(a *Agent) { a.now = now }
}

// NewAgent creates an Agent wrapping the given [Generator].
func NewAgent(gen Generator, opts ...AgentOption) *Agent {
	a := &Agent{
		name:      "SupportBot",
		gen:       gen,
		collector: NewCollector(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the agent's display name.
func (a *Agent) Name() string { return a.name }

// Instructions returns the agent's system instructions.
func (a *Agent) Instructions() string { return a.instructions }

// Tools returns the agent's tool registry, or nil.
func (a *Agent) Tools() *Registry { return a.tools }

// Collector returns the agent's metrics collector.
func (a *Agent) Collector() *Collector { return a.collector }

// ProcessOption configures a single ProcessMessage call.
type ProcessOption func(*processConfig)

type processConfig struct {
	conv       *Conversation
	customerID string
	sessionID  string
}

// WithConversation threads an existing conversation into the call.
func WithConversation(conv *Conversation) ProcessOption {
	return func(c *processConfig) { c.conv = conv }
}

// WithCustomerID identifies the customer; their record is resolved and
// stored into conversation state.
func WithCustomerID(id string) ProcessOption {
	return func(c *processConfig) { c.customerID = id }
}

// WithSessionID sets the session id used when a new conversation is created.
// Ignored when an existing conversation is supplied.
func WithSessionID(id string) ProcessOption {
	return func(c *processConfig) { c.sessionID = id }
}

// ProcessMessage runs one user message through the full pipeline: the
// conversation is updated with the user message, the middleware chain wraps
// the generator, and the assistant reply is appended before the [Response]
// is assembled.
//
// Any middleware or generator error propagates unchanged; the conversation
// keeps whatever mutations happened before the failure.
func (a *Agent) ProcessMessage(ctx context.Context, userMessage string, opts ...ProcessOption) (*Response, error) {
	cfg := &processConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	conv := cfg.conv
	if conv == nil {
		conv = NewConversation(cfg.sessionID)
		a.logger.InfoContext(ctx, "created conversation", "session_id", conv.SessionID)
	}

	if cfg.customerID != "" {
		conv.SetState(MetaCustomerID, cfg.customerID)
		if a.resolver != nil {
			info, err := a.resolver.Resolve(ctx, cfg.customerID)
			if err != nil {
				return nil, err
			}
			conv.SetState("customer_info", info)
		}
		a.logger.InfoContext(ctx, "customer attached",
			"session_id", conv.SessionID,
			"customer_id", cfg.customerID,
		)
	}

	turn := conv.TurnNumber() + 1
	conv.SetState(MetaTurnNumber, turn)

	userMeta := map[string]any{MetaTurnNumber: turn}
	if cfg.customerID != "" {
		userMeta[MetaCustomerID] = cfg.customerID
	}
	conv.AddMessage(NewUserMessage(userMessage, userMeta))

	now := a.now().UTC()
	conv.SetMetadata(MetaRequestID, "req_"+uuid.NewString())
	conv.SetMetadata(MetaTimestamp, now.Format(time.RFC3339Nano))

	handler := ChainMiddleware(a.gen.Generate, a.middleware...)
	reply, err := handler(ctx, conv)
	if err != nil {
		return nil, err
	}

	assistant := NewAssistantMessage(reply, map[string]any{MetaTurnNumber: turn})
	conv.AddMessage(assistant)

	meta := map[string]any{
		"conversation_turns":   turn,
		"total_messages":       conv.MessageCount(),
		"session_id":           conv.SessionID,
		"processing_timestamp": a.now().UTC().Format(time.RFC3339Nano),
	}
	if analytics, ok := conv.Metadata[MetaAnalytics]; ok {
		meta[MetaAnalytics] = analytics
	}

	return &Response{
		Message:      assistant,
		Conversation: conv,
		Metadata:     meta,
	}, nil
}
