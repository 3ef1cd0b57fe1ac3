// Copyright (c) Supportstack. All rights reserved.

package supportagent

import "context"

// Handler is the function signature for producing a reply from the current
// conversation state. The innermost handler is the agent's [Generator]; each
// middleware layer wraps it.
type Handler func(ctx context.Context, conv *Conversation) (string, error)

// Middleware wraps a [Handler] to add cross-cutting behavior. Middleware
// should call next exactly once to continue the chain, or return an error to
// short-circuit. A layer may mutate the conversation before delegating and
// may inspect or transform the reply afterwards.
type Middleware func(next Handler) Handler

// ChainMiddleware applies middleware in order (first in list = outermost
// wrapper), so the first-registered layer sees raw input first and the final
// reply last.
func ChainMiddleware(handler Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}
