package util

import (
	"time"

	"github.com/shopspring/decimal"
)

// Precision conventions: amounts carry 2 decimal places (cents), shares and
// NAVs carry 4. Rounding is half-up via decimal.Round, which rounds half
// away from zero (all values here are non-negative).

func QuantizeAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func QuantizeShares(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

func QuantizeNav(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

func DecimalPointer(d decimal.Decimal) *decimal.Decimal {
	return &d
}

func TimePointer(t time.Time) *time.Time {
	return &t
}

func StringPointer(s string) *string {
	return &s
}
