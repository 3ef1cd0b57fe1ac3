// Copyright (c) Supportstack. All rights reserved.

package supportagent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// MaxMessageLength is the maximum accepted content length in runes. Longer
// messages are truncated silently rather than rejected.
const MaxMessageLength = 5000

// blockedPatterns is an illustrative blocklist, not a real security
// boundary: script tags, SQL-injection-looking tokens, path traversal.
var blockedPatterns = []string{"<script>", "DROP TABLE", "DELETE FROM", "../../"}

// ValidationMiddleware returns a [Middleware] that rejects requests with an
// empty conversation or blocked content in the latest message, truncates
// over-length content, and tags the conversation metadata with a validation
// flag and timestamp before delegating.
func ValidationMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, conv *Conversation) (string, error) {
			last, ok := conv.Last()
			if !ok {
				return "", ErrEmptyConversation
			}

			lowered := strings.ToLower(last.Content)
			for _, pattern := range blockedPatterns {
				if strings.Contains(lowered, strings.ToLower(pattern)) {
					logger.WarnContext(ctx, "blocked harmful pattern",
						"pattern", pattern,
						"session_id", conv.SessionID,
					)
					return "", fmt.Errorf("%w: input contains blocked pattern %q", ErrBlockedContent, pattern)
				}
			}

			if conv.truncateLast(MaxMessageLength) {
				logger.WarnContext(ctx, "message too long, truncated",
					"session_id", conv.SessionID,
					"max_length", MaxMessageLength,
				)
			}

			conv.SetMetadata(MetaValidated, true)
			conv.SetMetadata(MetaValidationTimestamp, time.Now().UTC().Format(time.RFC3339Nano))

			return next(ctx, conv)
		}
	}
}
