package cache

import (
	"time"
)

// Regular-session close of US equity markets.
const (
	marketCloseHour = 16
	marketTimeZone  = "America/New_York"
)

// TimeUntilNextMarketClose は次の米国市場クローズ（ニューヨーク時間16時、平日）までの期間を返します。
// Quotes fetched after the close stay valid until the next session closes.
func TimeUntilNextMarketClose(now time.Time) time.Duration {
	loc, err := time.LoadLocation(marketTimeZone)
	if err != nil {
		// EST without daylight saving when tzdata is missing.
		loc = time.FixedZone("EST", -5*60*60)
	}
	local := now.In(loc)

	next := time.Date(local.Year(), local.Month(), local.Day(), marketCloseHour, 0, 0, 0, loc)
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}

	return next.Sub(now)
}
