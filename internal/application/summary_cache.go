package application

import (
	"sync"
	"time"
)

// summaryCache stores the most recently computed weekly summaries to avoid
// re-aggregating the full event list while the calendar remains unchanged.
type summaryCache struct {
	mu        sync.RWMutex
	now       func() time.Time
	ttl       time.Duration
	summaries []WeeklySummary
	valid     bool
	expiresAt time.Time
}

func newSummaryCache(ttl time.Duration, now func() time.Time) *summaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &summaryCache{now: now, ttl: ttl}
}

func (c *summaryCache) Get() ([]WeeklySummary, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	valid, expiresAt, summaries := c.valid, c.expiresAt, c.summaries
	c.mu.RUnlock()

	if !valid {
		return nil, false
	}
	if c.now().After(expiresAt) {
		c.Invalidate()
		return nil, false
	}
	return cloneSummaries(summaries), true
}

func (c *summaryCache) Store(summaries []WeeklySummary) {
	if c == nil {
		return
	}
	cloned := cloneSummaries(summaries)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	c.summaries = cloned
	c.valid = true
	c.expiresAt = expiry
	c.mu.Unlock()
}

func (c *summaryCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.summaries = nil
	c.valid = false
	c.mu.Unlock()
}

func cloneSummaries(summaries []WeeklySummary) []WeeklySummary {
	if len(summaries) == 0 {
		return nil
	}
	out := make([]WeeklySummary, len(summaries))
	copy(out, summaries)
	return out
}
