package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fundtrack/internal/calculator"
	"fundtrack/internal/domain"
	"fundtrack/internal/repository"
	"fundtrack/internal/service"
	"fundtrack/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PositionProvider supplies confirmed net shares per fund. Production use
// is the trade repository; tests may inject a fixed map.
type PositionProvider interface {
	ConfirmedShares() (map[string]decimal.Decimal, error)
}

type RebalancerHandler struct {
	AllocConfigRepository repository.AllocConfigRepository
	FundRepository        repository.FundRepository
	Positions             PositionProvider
	NavQuality            service.NavQualityService
	Calendar              service.CalendarService
	Logger                *zap.SugaredLogger
}

// RebalanceResult is the full rebalance-run summary: class-level advice,
// per-fund splits for the non-hold classes, NAV quality per included fund,
// and the funds excluded for missing NAV.
type RebalanceResult struct {
	AsOf            time.Time
	TotalValue      decimal.Decimal
	Advices         []domain.RebalanceAdvice
	FundSuggestions map[string][]domain.FundSuggestion
	NavQuality      map[string]domain.NavQuality
	SkippedFunds    []string
	// NoMarketData is set instead of dividing by zero when nothing could
	// be valued at the reference date.
	NoMarketData bool
	Note         string
	// MeanDrift/MaxDrift summarize |current - target| across classes.
	MeanDrift float64
	MaxDrift  float64
}

// PortfolioStatus is the valuation view the rebalance run is built on:
// per-class value and weight against target, without advice.
type PortfolioStatus struct {
	AsOf         time.Time
	TotalValue   decimal.Decimal
	ClassValue   map[string]decimal.Decimal
	ClassWeight  map[string]decimal.Decimal
	TargetWeight map[string]decimal.Decimal
	NavQuality   map[string]domain.NavQuality
	SkippedFunds []string
}

// Rebalance values the confirmed portfolio at the reference date and emits
// buy/sell/hold guidance per asset class plus a per-fund split. A nil asOf
// defaults to the previous domestic trading day.
func (h RebalancerHandler) Rebalance(ctx context.Context, asOf *time.Time) (*RebalanceResult, error) {
	refDate, err := h.referenceDate(asOf)
	if err != nil {
		return nil, err
	}

	targetWeights, err := h.AllocConfigRepository.TargetWeights()
	if err != nil {
		return nil, err
	}
	thresholds, err := h.AllocConfigRepository.MaxDeviations()
	if err != nil {
		return nil, err
	}

	positions, err := h.Positions.ConfirmedShares()
	if err != nil {
		return nil, err
	}

	v, err := h.value(positions, refDate)
	if err != nil {
		return nil, err
	}

	if v.totalValue.IsZero() {
		h.Logger.Warnw("rebalance has no market data", "asOf", util.FormatDate(refDate))
		return &RebalanceResult{
			AsOf:            refDate,
			TotalValue:      decimal.Zero,
			Advices:         []domain.RebalanceAdvice{},
			FundSuggestions: map[string][]domain.FundSuggestion{},
			NavQuality:      v.navQuality,
			SkippedFunds:    v.skippedFunds,
			NoMarketData:    true,
			Note:            "no usable NAV at reference date, cannot suggest amounts",
		}, nil
	}

	currentWeights := map[string]decimal.Decimal{}
	for assetClass, value := range v.classValues {
		currentWeights[assetClass] = value.Div(v.totalValue)
	}

	advices := calculator.BuildRebalanceAdvice(v.totalValue, currentWeights, targetWeights, thresholds)

	fundSuggestions := map[string][]domain.FundSuggestion{}
	for _, advice := range advices {
		if advice.Action == domain.RebalanceActionHold {
			continue
		}
		candidates, err := h.classCandidates(advice.AssetClass, positions, refDate)
		if err != nil {
			return nil, err
		}
		fundSuggestions[advice.AssetClass] = calculator.SplitAcrossFunds(advice.Action, advice.Amount, candidates)
	}

	meanDrift, maxDrift, err := calculator.DriftStats(advices)
	if err != nil {
		return nil, fmt.Errorf("failed to compute drift stats: %w", err)
	}

	h.Logger.Infow("rebalance complete",
		"asOf", util.FormatDate(refDate),
		"totalValue", v.totalValue.String(),
		"classes", len(advices),
		"skippedFunds", len(v.skippedFunds),
		"meanDrift", meanDrift,
		"maxDrift", maxDrift,
	)

	return &RebalanceResult{
		AsOf:            refDate,
		TotalValue:      v.totalValue,
		Advices:         advices,
		FundSuggestions: fundSuggestions,
		NavQuality:      v.navQuality,
		SkippedFunds:    v.skippedFunds,
		MeanDrift:       meanDrift,
		MaxDrift:        maxDrift,
	}, nil
}

// Status reports the valuation view without advice.
func (h RebalancerHandler) Status(ctx context.Context, asOf *time.Time) (*PortfolioStatus, error) {
	refDate, err := h.referenceDate(asOf)
	if err != nil {
		return nil, err
	}

	targetWeights, err := h.AllocConfigRepository.TargetWeights()
	if err != nil {
		return nil, err
	}

	positions, err := h.Positions.ConfirmedShares()
	if err != nil {
		return nil, err
	}

	v, err := h.value(positions, refDate)
	if err != nil {
		return nil, err
	}

	classWeight := map[string]decimal.Decimal{}
	if v.totalValue.IsPositive() {
		for assetClass, value := range v.classValues {
			classWeight[assetClass] = value.Div(v.totalValue)
		}
	}

	return &PortfolioStatus{
		AsOf:         refDate,
		TotalValue:   v.totalValue,
		ClassValue:   v.classValues,
		ClassWeight:  classWeight,
		TargetWeight: targetWeights,
		NavQuality:   v.navQuality,
		SkippedFunds: v.skippedFunds,
	}, nil
}

func (h RebalancerHandler) referenceDate(asOf *time.Time) (time.Time, error) {
	if asOf != nil {
		return util.Truncate(*asOf), nil
	}

	prev, err := h.Calendar.PrevOpen(domain.CalendarCNA, util.Truncate(time.Now().UTC()), 15)
	if err != nil {
		return time.Time{}, err
	}
	if prev == nil {
		return time.Time{}, fmt.Errorf("no %s trading day found in the last 15 days, check calendar data", domain.CalendarCNA)
	}
	return *prev, nil
}

type valuation struct {
	classValues  map[string]decimal.Decimal
	totalValue   decimal.Decimal
	navQuality   map[string]domain.NavQuality
	skippedFunds []string
}

// value aggregates shares * resolved NAV by asset class. Funds whose NAV
// resolves to missing are excluded from the totals and listed separately;
// substituting a stale value would silently skew the weights.
func (h RebalancerHandler) value(positions map[string]decimal.Decimal, refDate time.Time) (*valuation, error) {
	v := &valuation{
		classValues: map[string]decimal.Decimal{},
		totalValue:  decimal.Zero,
		navQuality:  map[string]domain.NavQuality{},
	}

	fundCodes := make([]string, 0, len(positions))
	for fundCode := range positions {
		fundCodes = append(fundCodes, fundCode)
	}
	sort.Strings(fundCodes)

	for _, fundCode := range fundCodes {
		shares := positions[fundCode]
		if shares.IsZero() {
			continue
		}

		fund, err := h.FundRepository.Get(fundCode)
		if err != nil {
			return nil, err
		}
		if fund == nil {
			h.Logger.Warnw("position in unregistered fund, excluding", "fundCode", fundCode)
			continue
		}

		result, err := h.resolveNav(fund, refDate)
		if err != nil {
			return nil, err
		}
		if !result.Usable() {
			v.skippedFunds = append(v.skippedFunds, fundCode)
			continue
		}

		value := shares.Mul(*result.Nav)
		v.classValues[fund.AssetClass] = v.classValues[fund.AssetClass].Add(value)
		v.totalValue = v.totalValue.Add(value)
		v.navQuality[fundCode] = result.Quality
	}

	return v, nil
}

// classCandidates lists every registered fund of the asset class with a
// resolvable NAV, valued at its current holding (zero when unheld, which
// SplitAcrossFunds keeps for buys and drops for sells).
func (h RebalancerHandler) classCandidates(assetClass string, positions map[string]decimal.Decimal, refDate time.Time) ([]calculator.FundCandidate, error) {
	funds, err := h.FundRepository.List()
	if err != nil {
		return nil, err
	}

	candidates := []calculator.FundCandidate{}
	for _, fund := range funds {
		if fund.AssetClass != assetClass {
			continue
		}

		result, err := h.resolveNav(&fund, refDate)
		if err != nil {
			return nil, err
		}
		if !result.Usable() {
			continue
		}

		value := decimal.Zero
		if shares, ok := positions[fund.Code]; ok && shares.IsPositive() {
			value = shares.Mul(*result.Nav)
		}

		candidates = append(candidates, calculator.FundCandidate{
			FundCode:     fund.Code,
			FundName:     fund.Name,
			CurrentValue: value,
		})
	}

	return candidates, nil
}

func (h RebalancerHandler) resolveNav(fund *domain.Fund, refDate time.Time) (domain.NavResult, error) {
	policy := domain.DefaultPolicy(fund.Market)
	return h.NavQuality.Resolve(fund.Code, policy.PricingCalendar, refDate)
}
