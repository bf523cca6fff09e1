package service

import (
	"fmt"
	"time"

	"fundtrack/internal/domain"
)

// SettlementService computes the dates a trade settles on. Both operations
// are pure given calendar data and hold the invariant
// trade_date <= pricing_date <= confirm_date.
type SettlementService interface {
	// PricingDate advances the trade date through the policy's guard
	// calendar (when set) and then to the next open day on the pricing
	// calendar.
	PricingDate(tradeDate time.Time, policy domain.SettlementPolicy) (time.Time, error)
	// SettlementDates returns (pricing_date, confirm_date) where the
	// confirm date is settle_lag opens past the pricing date, counted on
	// the policy's lag-counting calendar.
	SettlementDates(tradeDate time.Time, policy domain.SettlementPolicy) (time.Time, time.Time, error)
}

type settlementServiceHandler struct {
	Calendar CalendarService
}

func NewSettlementService(calendar CalendarService) SettlementService {
	return settlementServiceHandler{Calendar: calendar}
}

func (h settlementServiceHandler) PricingDate(tradeDate time.Time, policy domain.SettlementPolicy) (time.Time, error) {
	effective := tradeDate

	// The order can only reach the target market once the local routing
	// channel is open.
	if policy.GuardCalendar != "" {
		guarded, err := h.Calendar.NextOpen(policy.GuardCalendar, tradeDate)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to pass guard calendar %s: %w", policy.GuardCalendar, err)
		}
		effective = guarded
	}

	pricing, err := h.Calendar.NextOpen(policy.PricingCalendar, effective)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to find pricing date on %s: %w", policy.PricingCalendar, err)
	}

	return pricing, nil
}

func (h settlementServiceHandler) SettlementDates(tradeDate time.Time, policy domain.SettlementPolicy) (time.Time, time.Time, error) {
	pricing, err := h.PricingDate(tradeDate, policy)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	confirm, err := h.Calendar.Shift(policy.LagCountingCalendar, pricing, policy.SettleLag)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("failed to find confirm date on %s: %w", policy.LagCountingCalendar, err)
	}

	return pricing, confirm, nil
}
