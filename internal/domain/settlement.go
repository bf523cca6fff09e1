package domain

// SettlementPolicy pins down the calendars a trade settles against:
// the exchange whose NAV prices the trade, the calendar that counts the
// T+N lag, and an optional guard calendar that must be open before the
// order is considered routed to the target market.
type SettlementPolicy struct {
	PricingCalendar     string
	SettleLag           int
	LagCountingCalendar string
	// GuardCalendar is empty when no routing guard applies.
	GuardCalendar string
}

// DefaultPolicy returns the system settlement rule for a market. These are
// business rules, not user configuration: domestic funds price and count on
// the domestic exchange at T+1; QDII funds price and count on the foreign
// exchange at T+2, gated on the domestic channel being open first.
func DefaultPolicy(market MarketType) SettlementPolicy {
	if market == MarketTypeA {
		return SettlementPolicy{
			PricingCalendar:     CalendarCNA,
			SettleLag:           1,
			LagCountingCalendar: CalendarCNA,
		}
	}
	return SettlementPolicy{
		PricingCalendar:     CalendarUSNYSE,
		SettleLag:           2,
		LagCountingCalendar: CalendarUSNYSE,
		GuardCalendar:       CalendarCNA,
	}
}
