// Copyright (c) Supportstack. All rights reserved.

package supportagent

import (
	"context"
	"log/slog"
	"strings"
)

// tokensPerWord is the crude completion-cost estimate applied to the latest
// user message.
const tokensPerWord = 1.3

// Sentiment lexicons. Matching is by substring containment on the
// case-folded text, so "thanks" matches "thank".
var (
	positiveWords = []string{"happy", "great", "excellent", "good", "love", "thank"}
	negativeWords = []string{"bad", "terrible", "hate", "poor", "awful", "disappointed"}
)

// SentimentScore computes a deterministic lexical polarity estimate of text
// in [-1, 1]. Each lexicon word present in the case-folded text counts once;
// when neither lexicon matches, the score is exactly 0.
func SentimentScore(text string) float64 {
	lowered := strings.ToLower(text)

	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lowered, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lowered, w) {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0.0
	}
	return float64(pos-neg) / float64(total)
}

// AnalyticsMiddleware returns a [Middleware] that accumulates usage metrics:
// the total-request counter, an estimated token cost, and a sentiment score
// per request. A snapshot of the aggregates is stored in the conversation
// metadata under the analytics key before delegating; after the reply comes
// back, the running average response time is recomputed from the request log
// maintained by [LoggingMiddleware].
func AnalyticsMiddleware(logger *slog.Logger, collector *Collector) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, conv *Conversation) (string, error) {
			collector.RecordRequest()

			var sentiment float64
			if last, ok := conv.Last(); ok {
				words := len(strings.Fields(last.Content))
				collector.AddTokens(int64(float64(words) * tokensPerWord))

				sentiment = SentimentScore(last.Content)
				collector.RecordSentiment(sentiment)
			}

			snapshot := collector.Snapshot()
			conv.SetMetadata(MetaAnalytics, map[string]any{
				"total_requests":   snapshot.TotalRequests,
				"estimated_tokens": snapshot.EstimatedTokens,
				"sentiment_score":  sentiment,
			})

			logger.InfoContext(ctx, "analytics collected",
				"session_id", conv.SessionID,
				"sentiment_score", sentiment,
				"total_requests", snapshot.TotalRequests,
			)

			reply, err := next(ctx, conv)
			if err != nil {
				return "", err
			}

			collector.RecomputeAverageResponseTime()
			return reply, nil
		}
	}
}
