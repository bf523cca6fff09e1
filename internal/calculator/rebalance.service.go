package calculator

import (
	"sort"

	"fundtrack/internal/domain"
	"fundtrack/internal/util"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

// DefaultThreshold is the rebalance trigger used for classes without an
// explicit max_deviation override.
var DefaultThreshold = decimal.NewFromFloat(0.05)

// SuggestAmount is the half-correction heuristic: total value times the
// absolute weight deviation, halved. Advisory only, never a full rebalance
// to target.
func SuggestAmount(totalValue, weightDiff decimal.Decimal) decimal.Decimal {
	return totalValue.Mul(weightDiff.Abs()).Div(decimal.NewFromInt(2))
}

// BuildRebalanceAdvice compares current weights against targets and emits
// one advice per configured asset class, sorted by |weight_diff|
// descending. A deviation exactly at the threshold holds; it has to
// strictly exceed the threshold to fire.
func BuildRebalanceAdvice(
	totalValue decimal.Decimal,
	currentWeights map[string]decimal.Decimal,
	targetWeights map[string]decimal.Decimal,
	thresholds map[string]decimal.Decimal,
) []domain.RebalanceAdvice {
	advices := []domain.RebalanceAdvice{}

	for assetClass, target := range targetWeights {
		current := currentWeights[assetClass]
		diff := current.Sub(target)

		threshold, ok := thresholds[assetClass]
		if !ok {
			threshold = DefaultThreshold
		}

		advice := domain.RebalanceAdvice{
			AssetClass:    assetClass,
			WeightDiff:    diff,
			CurrentWeight: current,
			TargetWeight:  target,
			Threshold:     threshold,
		}

		switch {
		case diff.Abs().LessThanOrEqual(threshold):
			advice.Action = domain.RebalanceActionHold
			advice.Amount = decimal.Zero
		case diff.IsPositive():
			advice.Action = domain.RebalanceActionSell
			advice.Amount = util.QuantizeAmount(SuggestAmount(totalValue, diff))
		default:
			advice.Action = domain.RebalanceActionBuy
			advice.Amount = util.QuantizeAmount(SuggestAmount(totalValue, diff))
		}

		advices = append(advices, advice)
	}

	sort.Slice(advices, func(i, j int) bool {
		di, dj := advices[i].WeightDiff.Abs(), advices[j].WeightDiff.Abs()
		if !di.Equal(dj) {
			return di.GreaterThan(dj)
		}
		return advices[i].AssetClass < advices[j].AssetClass
	})

	return advices
}

// FundCandidate is a fund eligible for a class-level split: its current
// value is zero for unheld buy candidates.
type FundCandidate struct {
	FundCode     string
	FundName     string
	CurrentValue decimal.Decimal
}

// SplitAcrossFunds divides a class-level advice amount across candidate
// funds. Buy candidates are visited smallest holding first (favoring
// underweighted and unheld funds), sell candidates largest first, with
// zero holdings excluded from sells. The amount is split evenly, the last
// candidate absorbing the rounding remainder, and a sell allocation never
// exceeds the fund's own current value.
func SplitAcrossFunds(
	action domain.RebalanceAction,
	targetAmount decimal.Decimal,
	candidates []FundCandidate,
) []domain.FundSuggestion {
	eligible := make([]FundCandidate, 0, len(candidates))
	for _, c := range candidates {
		if action == domain.RebalanceActionSell && !c.CurrentValue.IsPositive() {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		return []domain.FundSuggestion{}
	}

	sort.Slice(eligible, func(i, j int) bool {
		vi, vj := eligible[i].CurrentValue, eligible[j].CurrentValue
		if !vi.Equal(vj) {
			if action == domain.RebalanceActionBuy {
				return vi.LessThan(vj)
			}
			return vi.GreaterThan(vj)
		}
		return eligible[i].FundCode < eligible[j].FundCode
	})

	classValue := decimal.Zero
	for _, c := range eligible {
		classValue = classValue.Add(c.CurrentValue)
	}

	n := decimal.NewFromInt(int64(len(eligible)))
	even := util.QuantizeAmount(targetAmount.Div(n))

	suggestions := []domain.FundSuggestion{}
	remaining := targetAmount

	for i, c := range eligible {
		if !remaining.IsPositive() {
			break
		}

		allocated := even
		if i == len(eligible)-1 {
			allocated = remaining
		}
		if allocated.GreaterThan(remaining) {
			allocated = remaining
		}
		if action == domain.RebalanceActionSell && allocated.GreaterThan(c.CurrentValue) {
			allocated = c.CurrentValue
		}

		currentPct := decimal.Zero
		if classValue.IsPositive() {
			currentPct = c.CurrentValue.Div(classValue)
		}

		suggestions = append(suggestions, domain.FundSuggestion{
			FundCode:     c.FundCode,
			FundName:     c.FundName,
			Action:       action,
			Amount:       util.QuantizeAmount(allocated),
			CurrentValue: c.CurrentValue,
			CurrentPct:   currentPct,
		})

		remaining = remaining.Sub(allocated)
	}

	sort.Slice(suggestions, func(i, j int) bool {
		if !suggestions[i].Amount.Equal(suggestions[j].Amount) {
			return suggestions[i].Amount.GreaterThan(suggestions[j].Amount)
		}
		return suggestions[i].FundCode < suggestions[j].FundCode
	})

	return suggestions
}

// DriftStats summarizes how far the portfolio sits from its targets: the
// mean and max absolute class deviation.
func DriftStats(advices []domain.RebalanceAdvice) (mean float64, max float64, err error) {
	if len(advices) == 0 {
		return 0, 0, nil
	}

	diffs := make([]float64, 0, len(advices))
	for _, a := range advices {
		diffs = append(diffs, a.WeightDiff.Abs().InexactFloat64())
	}

	mean, err = stats.Mean(diffs)
	if err != nil {
		return 0, 0, err
	}
	max, err = stats.Max(diffs)
	if err != nil {
		return 0, 0, err
	}

	return mean, max, nil
}
