package domain

import (
	"github.com/shopspring/decimal"
)

// AllocationTarget is the configured target weight for one asset class.
// Target weights across classes are expected, but not enforced, to sum
// to 1.
type AllocationTarget struct {
	AssetClass   string
	TargetWeight decimal.Decimal
	// MaxDeviation overrides the default rebalance threshold when set.
	MaxDeviation *decimal.Decimal
}

type RebalanceAction string

const (
	RebalanceActionBuy  RebalanceAction = "buy"
	RebalanceActionSell RebalanceAction = "sell"
	RebalanceActionHold RebalanceAction = "hold"
)

// RebalanceAdvice is the derived per-asset-class guidance. Amount is a
// half-correction suggestion, advisory only; it is zero for hold.
type RebalanceAdvice struct {
	AssetClass    string
	Action        RebalanceAction
	Amount        decimal.Decimal
	WeightDiff    decimal.Decimal
	CurrentWeight decimal.Decimal
	TargetWeight  decimal.Decimal
	Threshold     decimal.Decimal
}

// FundSuggestion splits a class-level advice amount across candidate funds.
type FundSuggestion struct {
	FundCode     string
	FundName     string
	Action       RebalanceAction
	Amount       decimal.Decimal
	CurrentValue decimal.Decimal
	// CurrentPct is the fund's share of its asset class value.
	CurrentPct decimal.Decimal
}
