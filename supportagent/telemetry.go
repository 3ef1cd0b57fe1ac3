// Copyright (c) Supportstack. All rights reserved.

package supportagent

import (
	"context"
	"log/slog"
	"time"
)

// LoggingMiddleware returns a [Middleware] that logs each request using slog
// and records its outcome in the collector's request log. Failures increment
// the collector's error counter and are returned unchanged; the layer never
// swallows errors.
func LoggingMiddleware(logger *slog.Logger, collector *Collector) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, conv *Conversation) (string, error) {
			requestID, _ := conv.Metadata[MetaRequestID].(string)
			logger.InfoContext(ctx, "processing message",
				"request_id", requestID,
				"session_id", conv.SessionID,
			)
			if last, ok := conv.Last(); ok {
				logger.InfoContext(ctx, "user message",
					"request_id", requestID,
					"preview", preview(last.Content, 100),
				)
			}

			start := time.Now()

			reply, err := next(ctx, conv)
			if err != nil {
				logger.ErrorContext(ctx, "request failed",
					"request_id", requestID,
					"error", err,
				)
				collector.RecordError()
				return "", err
			}

			elapsed := time.Since(start)
			logger.InfoContext(ctx, "request completed",
				"request_id", requestID,
				"elapsed", elapsed,
			)
			collector.LogRequest(RequestLogEntry{
				RequestID: requestID,
				Timestamp: start.UTC(),
				Elapsed:   elapsed,
				Status:    "success",
			})
			return reply, nil
		}
	}
}

func preview(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
