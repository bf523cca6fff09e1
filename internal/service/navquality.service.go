package service

import (
	"errors"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/repository"
	"fundtrack/internal/util"

	"github.com/shopspring/decimal"
)

// navPrevOpenLookback bounds the calendar-day walk when stepping back one
// trading day; 15 covers the longest holiday runs (spring festival, golden
// week).
const navPrevOpenLookback = 15

// NavSource is the read side of the NAV store.
type NavSource interface {
	Get(fundCode string, day time.Time) (*decimal.Decimal, error)
}

// NavQualityService finds the best available NAV for a reference date and
// classifies its freshness. Missing data is never an error here: the
// caller gets an absent value tagged NavQualityMissing and decides what to
// exclude.
type NavQualityService interface {
	Resolve(fundCode string, market string, referenceDate time.Time) (domain.NavResult, error)
}

type navQualityServiceHandler struct {
	Navs     NavSource
	Calendar CalendarService
}

func NewNavQualityService(navs NavSource, calendar CalendarService) NavQualityService {
	return navQualityServiceHandler{Navs: navs, Calendar: calendar}
}

// Resolve walks back at most 2 trading days from the reference date:
//
//	NAV on the reference date itself            -> exact
//	non-trading reference, NAV on previous open -> holiday
//	NAV 1 or 2 trading days back                -> delayed
//	anything older, or nothing found            -> missing
//
// Calendar gaps encountered mid-walk degrade to missing rather than
// failing the whole valuation.
func (h navQualityServiceHandler) Resolve(fundCode string, market string, referenceDate time.Time) (domain.NavResult, error) {
	ref := util.Truncate(referenceDate)

	nav, err := h.Navs.Get(fundCode, ref)
	if err != nil {
		return domain.NavResult{}, err
	}
	if usableNav(nav) {
		return domain.NavResult{Nav: nav, Quality: domain.NavQualityExact, Day: &ref}, nil
	}

	isTrading, err := h.Calendar.IsOpen(market, ref)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarDataMissing) {
			return missingResult(), nil
		}
		return domain.NavResult{}, err
	}

	prev, err := h.Calendar.PrevOpen(market, ref, navPrevOpenLookback)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarDataMissing) {
			return missingResult(), nil
		}
		return domain.NavResult{}, err
	}
	if prev == nil {
		return missingResult(), nil
	}

	nav, err = h.Navs.Get(fundCode, *prev)
	if err != nil {
		return domain.NavResult{}, err
	}
	if usableNav(nav) {
		quality := domain.NavQualityDelayed
		if !isTrading {
			// Weekend/holiday reference with the previous close available
			// is the expected benign case.
			quality = domain.NavQualityHoliday
		}
		return domain.NavResult{Nav: nav, Quality: quality, Day: prev}, nil
	}

	// One more trading day back; beyond that the value is too stale to
	// substitute.
	prev2, err := h.Calendar.PrevOpen(market, *prev, navPrevOpenLookback)
	if err != nil {
		if errors.Is(err, repository.ErrCalendarDataMissing) {
			return missingResult(), nil
		}
		return domain.NavResult{}, err
	}
	if prev2 == nil {
		return missingResult(), nil
	}

	nav, err = h.Navs.Get(fundCode, *prev2)
	if err != nil {
		return domain.NavResult{}, err
	}
	if usableNav(nav) {
		return domain.NavResult{Nav: nav, Quality: domain.NavQualityDelayed, Day: prev2}, nil
	}

	return missingResult(), nil
}

func usableNav(nav *decimal.Decimal) bool {
	return nav != nil && nav.IsPositive()
}

func missingResult() domain.NavResult {
	return domain.NavResult{Quality: domain.NavQualityMissing}
}
