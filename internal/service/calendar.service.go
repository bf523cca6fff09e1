package service

import (
	"errors"
	"fmt"
	"time"

	"fundtrack/internal/util"
)

// ErrSettlementOverflow means a bounded forward scan ran out of days
// without finding an open one. That points at calendar data being too
// sparse or too short, which must be surfaced, not worked around.
var ErrSettlementOverflow = errors.New("no open day found within scan bound")

// CalendarStore is the read-only calendar lookup the date math runs on.
// Production use is the sqlite-backed repository; tests use an in-memory
// fake implementing the same contract.
type CalendarStore interface {
	IsOpen(market string, day time.Time) (bool, error)
}

// CalendarService does trading-day arithmetic over named calendar keys.
// All operations are pure given the underlying calendar data.
type CalendarService interface {
	IsOpen(calendarKey string, day time.Time) (bool, error)
	// NextOpen returns day itself when open, else the next open day,
	// scanning at most 365 days forward.
	NextOpen(calendarKey string, day time.Time) (time.Time, error)
	// Shift returns the n-th open day strictly after day, counting opens
	// only. n must be >= 1.
	Shift(calendarKey string, day time.Time, n int) (time.Time, error)
	// PrevOpen returns the closest open day strictly before day, or nil
	// when none exists within lookback calendar days.
	PrevOpen(calendarKey string, day time.Time, lookback int) (*time.Time, error)
}

type calendarServiceHandler struct {
	Store CalendarStore
}

func NewCalendarService(store CalendarStore) CalendarService {
	return calendarServiceHandler{Store: store}
}

func (h calendarServiceHandler) IsOpen(calendarKey string, day time.Time) (bool, error) {
	return h.Store.IsOpen(calendarKey, day)
}

func (h calendarServiceHandler) NextOpen(calendarKey string, day time.Time) (time.Time, error) {
	d := util.Truncate(day)

	open, err := h.Store.IsOpen(calendarKey, d)
	if err != nil {
		return time.Time{}, err
	}
	if open {
		return d, nil
	}

	const maxAttempts = 365
	for i := 0; i < maxAttempts; i++ {
		d = d.AddDate(0, 0, 1)
		open, err := h.Store.IsOpen(calendarKey, d)
		if err != nil {
			return time.Time{}, err
		}
		if open {
			return d, nil
		}
	}

	return time.Time{}, fmt.Errorf(
		"no open day on %s within %d days of %s: %w",
		calendarKey, maxAttempts, util.FormatDate(day), ErrSettlementOverflow,
	)
}

func (h calendarServiceHandler) Shift(calendarKey string, day time.Time, n int) (time.Time, error) {
	if n < 1 {
		return time.Time{}, fmt.Errorf("shift offset must be >= 1, got %d", n)
	}

	d := util.Truncate(day)
	remaining := n
	// Generous bound so long holiday runs don't trip it, but a truncated
	// calendar table still fails loudly.
	maxAttempts := n*10 + 365

	for attempts := 0; remaining > 0; attempts++ {
		if attempts >= maxAttempts {
			return time.Time{}, fmt.Errorf(
				"could not shift %d opens on %s from %s within %d days: %w",
				n, calendarKey, util.FormatDate(day), maxAttempts, ErrSettlementOverflow,
			)
		}
		d = d.AddDate(0, 0, 1)
		open, err := h.Store.IsOpen(calendarKey, d)
		if err != nil {
			return time.Time{}, err
		}
		if open {
			remaining--
		}
	}

	return d, nil
}

func (h calendarServiceHandler) PrevOpen(calendarKey string, day time.Time, lookback int) (*time.Time, error) {
	d := util.Truncate(day)

	for i := 0; i < lookback; i++ {
		d = d.AddDate(0, 0, -1)
		open, err := h.Store.IsOpen(calendarKey, d)
		if err != nil {
			return nil, err
		}
		if open {
			return &d, nil
		}
	}

	return nil, nil
}
