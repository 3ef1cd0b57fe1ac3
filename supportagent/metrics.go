// Copyright (c) Supportstack. All rights reserved.

package supportagent

import (
	"sync"
	"time"
)

// RequestLogEntry records the outcome of one pipeline request, appended by
// the logging middleware.
type RequestLogEntry struct {
	RequestID string        `json:"request_id"`
	Timestamp time.Time     `json:"timestamp"`
	Elapsed   time.Duration `json:"elapsed"`
	Status    string        `json:"status"`
}

// Metrics is an immutable snapshot of a [Collector].
type Metrics struct {
	TotalRequests       int64     `json:"total_requests"`
	EstimatedTokens     int64     `json:"estimated_tokens"`
	ErrorCount          int64     `json:"error_count"`
	AverageResponseTime float64   `json:"average_response_time"`
	AverageSentiment    float64   `json:"average_sentiment"`
	SentimentScores     []float64 `json:"sentiment_scores,omitempty"`
}

// Collector accumulates process-wide pipeline metrics. It is shared across
// sessions and safe for concurrent use; construct one per agent (or per
// test) rather than relying on anything ambient. Counters reset only when
// the collector is discarded.
type Collector struct {
	mu              sync.Mutex
	totalRequests   int64
	estimatedTokens int64
	errorCount      int64
	sentiments      []float64
	requestLog      []RequestLogEntry
	avgResponse     float64
}

// NewCollector creates an empty metrics collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordRequest increments the total-request counter.
func (c *Collector) RecordRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalRequests++
}

// AddTokens accumulates an estimated token count.
func (c *Collector) AddTokens(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.estimatedTokens += n
}

// RecordError increments the error counter.
func (c *Collector) RecordError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCount++
}

// RecordSentiment appends a sentiment score to the running list.
func (c *Collector) RecordSentiment(score float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sentiments = append(c.sentiments, score)
}

// LogRequest appends an entry to the request log.
func (c *Collector) LogRequest(entry RequestLogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestLog = append(c.requestLog, entry)
}

// RecomputeAverageResponseTime rederives the average elapsed seconds over
// the request log and returns it.
func (c *Collector) RecomputeAverageResponseTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requestLog) == 0 {
		c.avgResponse = 0
		return 0
	}
	var total float64
	for _, e := range c.requestLog {
		total += e.Elapsed.Seconds()
	}
	c.avgResponse = total / float64(len(c.requestLog))
	return c.avgResponse
}

// RequestLog returns a copy of the request log in append order.
func (c *Collector) RequestLog() []RequestLogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]RequestLogEntry, len(c.requestLog))
	copy(cp, c.requestLog)
	return cp
}

// Snapshot returns the current aggregate metrics.
func (c *Collector) Snapshot() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	var avgSentiment float64
	if len(c.sentiments) > 0 {
		var sum float64
		for _, s := range c.sentiments {
			sum += s
		}
		avgSentiment = sum / float64(len(c.sentiments))
	}

	scores := make([]float64, len(c.sentiments))
	copy(scores, c.sentiments)

	return Metrics{
		TotalRequests:       c.totalRequests,
		EstimatedTokens:     c.estimatedTokens,
		ErrorCount:          c.errorCount,
		AverageResponseTime: c.avgResponse,
		AverageSentiment:    avgSentiment,
		SentimentScores:     scores,
	}
}
