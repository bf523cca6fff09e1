package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/util"
)

// ErrCalendarDataMissing means the trading calendar has no entry for a
// (market, day) the caller asked about. There is no weekday fallback:
// correctness depends on the externally synced calendar data, so the
// operator must be told to run the calendar-sync job.
var ErrCalendarDataMissing = errors.New("trading calendar data missing")

type CalendarRepository interface {
	IsOpen(market string, day time.Time) (bool, error)
	BulkAdd(tx *sql.Tx, entries []domain.CalendarEntry) error
}

type calendarRepositoryHandler struct {
	Db *sql.DB
}

func NewCalendarRepository(db *sql.DB) CalendarRepository {
	return calendarRepositoryHandler{Db: db}
}

func (h calendarRepositoryHandler) IsOpen(market string, day time.Time) (bool, error) {
	var isTradingDay int
	err := h.Db.QueryRow(
		`SELECT is_trading_day FROM trading_calendar WHERE market = ? AND day = ?`,
		market, util.FormatDate(day),
	).Scan(&isTradingDay)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf(
			"no calendar entry for %s on %s, run calendar sync: %w",
			market, util.FormatDate(day), ErrCalendarDataMissing,
		)
	}
	if err != nil {
		return false, fmt.Errorf("failed to query trading calendar: %w", err)
	}

	return isTradingDay == 1, nil
}

func (h calendarRepositoryHandler) BulkAdd(tx *sql.Tx, entries []domain.CalendarEntry) error {
	var db queryable = h.Db
	if tx != nil {
		db = tx
	}

	for _, e := range entries {
		isTradingDay := 0
		if e.IsTradingDay {
			isTradingDay = 1
		}
		_, err := db.Exec(
			`INSERT INTO trading_calendar (market, day, is_trading_day)
			 VALUES (?, ?, ?)
			 ON CONFLICT (market, day) DO UPDATE SET is_trading_day = excluded.is_trading_day`,
			e.Market, util.FormatDate(e.Day), isTradingDay,
		)
		if err != nil {
			return fmt.Errorf("failed to add calendar entry %s/%s: %w", e.Market, util.FormatDate(e.Day), err)
		}
	}

	return nil
}
