package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TradeType string

const (
	TradeTypeBuy  TradeType = "buy"
	TradeTypeSell TradeType = "sell"
)

func (t TradeType) Valid() bool {
	return t == TradeTypeBuy || t == TradeTypeSell
}

type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusConfirmed TradeStatus = "confirmed"
	TradeStatusSkipped   TradeStatus = "skipped"
)

type ConfirmationStatus string

const (
	ConfirmationStatusNormal  ConfirmationStatus = "normal"
	ConfirmationStatusDelayed ConfirmationStatus = "delayed"
)

// DelayedReasonNavMissing marks a trade whose confirm date has passed but
// whose pricing-date NAV has not been published.
const DelayedReasonNavMissing = "nav_missing"

// Trade is a fund purchase or sale. PricingDate and ConfirmDate are
// computed once when the trade is created and never recomputed; the
// confirmation engine is the only writer after that, except for explicit
// cancellation. Confirmed and skipped are terminal.
type Trade struct {
	ID        uuid.UUID
	FundCode  string
	Type      TradeType
	Amount    decimal.Decimal
	TradeDate time.Time
	Status    TradeStatus
	Market    MarketType

	// Shares and Nav are set on confirmation.
	Shares *decimal.Decimal
	Nav    *decimal.Decimal

	PricingDate time.Time
	ConfirmDate time.Time

	ConfirmationStatus ConfirmationStatus
	DelayedReason      *string
	DelayedSince       *time.Time

	CreatedAt  time.Time
	ModifiedAt time.Time
}
