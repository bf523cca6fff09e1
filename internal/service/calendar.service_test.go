package service

import (
	"fmt"
	"testing"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/repository"
	"fundtrack/internal/util"

	"github.com/stretchr/testify/require"
)

// fakeCalendarStore implements the CalendarStore contract in memory,
// including the missing-data failure mode.
type fakeCalendarStore struct {
	entries map[string]map[string]bool
}

func newFakeCalendarStore() *fakeCalendarStore {
	return &fakeCalendarStore{entries: map[string]map[string]bool{}}
}

func (f *fakeCalendarStore) set(market string, day time.Time, open bool) {
	if f.entries[market] == nil {
		f.entries[market] = map[string]bool{}
	}
	f.entries[market][util.FormatDate(day)] = open
}

// addWeekdays fills [from, to] marking weekends closed and weekdays open.
func (f *fakeCalendarStore) addWeekdays(market string, from, to time.Time) {
	for d := util.Truncate(from); util.DateLte(d, to); d = d.AddDate(0, 0, 1) {
		wd := d.Weekday()
		f.set(market, d, wd != time.Saturday && wd != time.Sunday)
	}
}

func (f *fakeCalendarStore) IsOpen(market string, day time.Time) (bool, error) {
	open, ok := f.entries[market][util.FormatDate(day)]
	if !ok {
		return false, fmt.Errorf("no entry for %s on %s: %w", market, util.FormatDate(day), repository.ErrCalendarDataMissing)
	}
	return open, nil
}

func TestNextOpen(t *testing.T) {
	store := newFakeCalendarStore()
	store.addWeekdays(domain.CalendarCNA, util.NewDate(2025, 6, 1), util.NewDate(2025, 6, 30))
	svc := NewCalendarService(store)

	t.Run("open day returns itself", func(t *testing.T) {
		friday := util.NewDate(2025, 6, 6)
		got, err := svc.NextOpen(domain.CalendarCNA, friday)
		require.NoError(t, err)
		require.Equal(t, friday, got)
	})

	t.Run("weekend advances to monday", func(t *testing.T) {
		saturday := util.NewDate(2025, 6, 7)
		got, err := svc.NextOpen(domain.CalendarCNA, saturday)
		require.NoError(t, err)
		require.Equal(t, util.NewDate(2025, 6, 9), got)
	})

	t.Run("missing calendar data surfaces", func(t *testing.T) {
		_, err := svc.NextOpen("US_NYSE", util.NewDate(2025, 6, 6))
		require.ErrorIs(t, err, repository.ErrCalendarDataMissing)
	})

	t.Run("all-closed calendar overflows", func(t *testing.T) {
		closed := newFakeCalendarStore()
		start := util.NewDate(2025, 1, 1)
		for d := start; util.DateLte(d, util.NewDate(2026, 3, 1)); d = d.AddDate(0, 0, 1) {
			closed.set(domain.CalendarCNA, d, false)
		}
		_, err := NewCalendarService(closed).NextOpen(domain.CalendarCNA, start)
		require.ErrorIs(t, err, ErrSettlementOverflow)
	})
}

func TestShift(t *testing.T) {
	store := newFakeCalendarStore()
	store.addWeekdays(domain.CalendarCNA, util.NewDate(2025, 6, 1), util.NewDate(2025, 7, 31))
	svc := NewCalendarService(store)

	t.Run("rejects offsets below one", func(t *testing.T) {
		_, err := svc.Shift(domain.CalendarCNA, util.NewDate(2025, 6, 6), 0)
		require.Error(t, err)
		_, err = svc.Shift(domain.CalendarCNA, util.NewDate(2025, 6, 6), -3)
		require.Error(t, err)
	})

	t.Run("single shift strictly exceeds the start day", func(t *testing.T) {
		friday := util.NewDate(2025, 6, 6)
		got, err := svc.Shift(domain.CalendarCNA, friday, 1)
		require.NoError(t, err)
		require.True(t, got.After(friday))
		require.Equal(t, util.NewDate(2025, 6, 9), got)
	})

	t.Run("counts only open days", func(t *testing.T) {
		// Thursday + 2 opens skips the weekend: Fri, then Mon.
		thursday := util.NewDate(2025, 6, 5)
		got, err := svc.Shift(domain.CalendarCNA, thursday, 2)
		require.NoError(t, err)
		require.Equal(t, util.NewDate(2025, 6, 9), got)
	})

	t.Run("shift from a closed day starts counting forward", func(t *testing.T) {
		saturday := util.NewDate(2025, 6, 7)
		got, err := svc.Shift(domain.CalendarCNA, saturday, 1)
		require.NoError(t, err)
		require.Equal(t, util.NewDate(2025, 6, 9), got)
	})

	t.Run("sparse calendar overflows within bound", func(t *testing.T) {
		closed := newFakeCalendarStore()
		start := util.NewDate(2025, 1, 1)
		for d := start; util.DateLte(d, util.NewDate(2027, 1, 1)); d = d.AddDate(0, 0, 1) {
			closed.set(domain.CalendarCNA, d, false)
		}
		_, err := NewCalendarService(closed).Shift(domain.CalendarCNA, start, 1)
		require.ErrorIs(t, err, ErrSettlementOverflow)
	})
}

func TestPrevOpen(t *testing.T) {
	store := newFakeCalendarStore()
	store.addWeekdays(domain.CalendarCNA, util.NewDate(2025, 6, 1), util.NewDate(2025, 6, 30))
	svc := NewCalendarService(store)

	t.Run("walks back over a weekend", func(t *testing.T) {
		monday := util.NewDate(2025, 6, 9)
		got, err := svc.PrevOpen(domain.CalendarCNA, monday, 15)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, util.NewDate(2025, 6, 6), *got)
	})

	t.Run("returns nil when lookback is exhausted", func(t *testing.T) {
		closed := newFakeCalendarStore()
		for d := util.NewDate(2025, 6, 1); util.DateLte(d, util.NewDate(2025, 6, 30)); d = d.AddDate(0, 0, 1) {
			closed.set(domain.CalendarCNA, d, false)
		}
		got, err := NewCalendarService(closed).PrevOpen(domain.CalendarCNA, util.NewDate(2025, 6, 20), 10)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}
