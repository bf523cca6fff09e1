package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NavRecord is one published net asset value per unit. Written by the
// external NAV-fetch job, keyed (and overwritten) by (fund_code, day).
type NavRecord struct {
	FundCode string
	Day      time.Time
	Nav      decimal.Decimal
}

// NavQuality classifies how fresh a resolved NAV is, in order of
// degradation.
type NavQuality string

const (
	// NavQualityExact means a NAV exists for the reference date itself.
	NavQualityExact NavQuality = "exact"
	// NavQualityHoliday means the reference date is a non-trading day and
	// the previous trading day's NAV is used. Expected, benign.
	NavQualityHoliday NavQuality = "holiday"
	// NavQualityDelayed means the reference date is a trading day whose NAV
	// has not been published; a value from within the last 2 trading days
	// is substituted.
	NavQualityDelayed NavQuality = "delayed"
	// NavQualityMissing means no usable NAV exists within the lookback
	// window. Callers must exclude the fund from value aggregation.
	NavQualityMissing NavQuality = "missing"
)

// NavResult is the outcome of a quality-aware NAV lookup. Absence is
// expressed as a nil Nav plus NavQualityMissing, never as an error.
type NavResult struct {
	Nav     *decimal.Decimal
	Quality NavQuality
	// Day is the date the returned NAV was published on, when Nav is set.
	Day *time.Time
}

// Usable reports whether the resolved NAV may participate in valuation.
func (r NavResult) Usable() bool {
	return r.Quality != NavQualityMissing && r.Nav != nil
}
