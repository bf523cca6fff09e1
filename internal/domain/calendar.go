package domain

import "time"

// Calendar keys name the exchange/channel calendars stored in
// trading_calendar. The calendar data itself is owned by the external
// calendar-sync job; this core only reads it.
const (
	CalendarCNA    = "CN_A"
	CalendarUSNYSE = "US_NYSE"
)

// CalendarEntry records whether a market is open on a given day. At most
// one entry exists per (market, day).
type CalendarEntry struct {
	Market       string
	Day          time.Time
	IsTradingDay bool
}
