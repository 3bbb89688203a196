package csvcache

import "time"

// Schedule decides when a cached CSV is stale. Two rules apply:
// a daily cutover (source files are republished at a fixed time each day)
// and a short refresh interval while the market is open.
type Schedule struct {
	Location *time.Location

	CutoverHour   int
	CutoverMinute int

	MarketOpenHour  int
	MarketCloseHour int

	IntradayInterval time.Duration
}

// DefaultSchedule matches the upstream publishing cadence: 17:50 daily
// cutover, 10-minute refresh between 09:00 and 17:00.
func DefaultSchedule(loc *time.Location) Schedule {
	if loc == nil {
		loc = time.Local
	}
	return Schedule{
		Location:         loc,
		CutoverHour:      17,
		CutoverMinute:    50,
		MarketOpenHour:   9,
		MarketCloseHour:  17,
		IntradayInterval: 10 * time.Minute,
	}
}

// cutoverBefore returns the most recent daily cutover at or before t.
func (s Schedule) cutoverBefore(t time.Time) time.Time {
	t = t.In(s.Location)
	cutover := time.Date(t.Year(), t.Month(), t.Day(), s.CutoverHour, s.CutoverMinute, 0, 0, s.Location)
	if cutover.After(t) {
		cutover = cutover.AddDate(0, 0, -1)
	}
	return cutover
}

// inMarketHours reports whether t falls inside the intraday refresh window.
func (s Schedule) inMarketHours(t time.Time) bool {
	h := t.In(s.Location).Hour()
	return h >= s.MarketOpenHour && h < s.MarketCloseHour
}

// IsStale reports whether content fetched at fetchedAt must be refreshed
// as of now. A fetch from before the latest daily cutover is always stale.
// During market hours the content also goes stale after IntradayInterval.
func (s Schedule) IsStale(fetchedAt, now time.Time) bool {
	if fetchedAt.IsZero() {
		return true
	}
	if fetchedAt.Before(s.cutoverBefore(now)) {
		return true
	}
	if s.inMarketHours(now) && now.Sub(fetchedAt) >= s.IntradayInterval {
		return true
	}
	return false
}
