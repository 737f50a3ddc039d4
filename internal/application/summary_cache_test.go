package application

import (
	"testing"
	"time"
)

func TestSummaryCache_StoreAndGet(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	cache := newSummaryCache(30*time.Second, func() time.Time { return current })

	if _, ok := cache.Get(); ok {
		t.Fatal("expected empty cache to miss")
	}

	stored := []WeeklySummary{{TotalPay: 410}}
	cache.Store(stored)

	got, ok := cache.Get()
	if !ok || len(got) != 1 || got[0].TotalPay != 410 {
		t.Fatalf("expected cached summaries, got %v (%v)", got, ok)
	}

	// Mutating the returned slice must not affect the cache.
	got[0].TotalPay = 0
	again, ok := cache.Get()
	if !ok || again[0].TotalPay != 410 {
		t.Fatalf("expected cache to be isolated from callers, got %v", again)
	}
}

func TestSummaryCache_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	current := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	cache := newSummaryCache(30*time.Second, func() time.Time { return current })

	cache.Store([]WeeklySummary{{TotalPay: 150}})
	current = current.Add(31 * time.Second)

	if _, ok := cache.Get(); ok {
		t.Fatal("expected cache entry to expire")
	}
}

func TestSummaryCache_Invalidate(t *testing.T) {
	t.Parallel()

	cache := newSummaryCache(time.Minute, nil)
	cache.Store([]WeeklySummary{{TotalPay: 150}})
	cache.Invalidate()

	if _, ok := cache.Get(); ok {
		t.Fatal("expected invalidated cache to miss")
	}
}

func TestSummaryCache_NilReceiver(t *testing.T) {
	t.Parallel()

	var cache *summaryCache
	cache.Store([]WeeklySummary{{TotalPay: 1}})
	cache.Invalidate()
	if _, ok := cache.Get(); ok {
		t.Fatal("expected nil cache to miss")
	}
}

func TestSummaryCache_EmptyStoreIsValid(t *testing.T) {
	t.Parallel()

	cache := newSummaryCache(time.Minute, nil)
	cache.Store(nil)

	got, ok := cache.Get()
	if !ok {
		t.Fatal("expected stored empty result to hit")
	}
	if len(got) != 0 {
		t.Fatalf("expected empty summaries, got %v", got)
	}
}
