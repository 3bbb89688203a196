package csvcache

import (
	"testing"
	"time"
)

func mustLoc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestStaleAfterDailyCutover(t *testing.T) {
	loc := mustLoc(t)
	s := DefaultSchedule(loc)

	fetched := time.Date(2025, 3, 10, 17, 30, 0, 0, loc)
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)

	if !s.IsStale(fetched, now) {
		t.Fatal("fetch from before the 17:50 cutover should be stale after it")
	}
}

func TestFreshAfterCutoverRefresh(t *testing.T) {
	loc := mustLoc(t)
	s := DefaultSchedule(loc)

	fetched := time.Date(2025, 3, 10, 17, 55, 0, 0, loc)
	now := time.Date(2025, 3, 10, 18, 5, 0, 0, loc)

	if s.IsStale(fetched, now) {
		t.Fatal("fetch after the cutover should stay fresh outside market hours")
	}
}

func TestIntradayIntervalDuringMarketHours(t *testing.T) {
	loc := mustLoc(t)
	s := DefaultSchedule(loc)

	fetched := time.Date(2025, 3, 11, 10, 0, 0, 0, loc)

	if s.IsStale(fetched, fetched.Add(5*time.Minute)) {
		t.Fatal("5 minutes old should be fresh during market hours")
	}
	if !s.IsStale(fetched, fetched.Add(11*time.Minute)) {
		t.Fatal("11 minutes old should be stale during market hours")
	}
}

func TestNoIntradayRefreshOutsideMarketHours(t *testing.T) {
	loc := mustLoc(t)
	s := DefaultSchedule(loc)

	fetched := time.Date(2025, 3, 10, 20, 0, 0, 0, loc)
	now := time.Date(2025, 3, 10, 23, 0, 0, 0, loc)

	if s.IsStale(fetched, now) {
		t.Fatal("evening fetch should stay fresh until the next cutover")
	}
}

func TestZeroFetchTimeIsStale(t *testing.T) {
	s := DefaultSchedule(mustLoc(t))
	if !s.IsStale(time.Time{}, time.Now()) {
		t.Fatal("never-fetched entry must be stale")
	}
}

func TestCutoverSpansMidnight(t *testing.T) {
	loc := mustLoc(t)
	s := DefaultSchedule(loc)

	fetched := time.Date(2025, 3, 10, 18, 0, 0, 0, loc)
	now := time.Date(2025, 3, 11, 8, 0, 0, 0, loc)

	if s.IsStale(fetched, now) {
		t.Fatal("post-cutover fetch should stay fresh into the next morning")
	}

	afterNextCutover := time.Date(2025, 3, 11, 17, 51, 0, 0, loc)
	if !s.IsStale(fetched, afterNextCutover) {
		t.Fatal("yesterday's fetch should be stale after today's cutover")
	}
}
