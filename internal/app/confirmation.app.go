package app

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/repository"
	"fundtrack/internal/util"

	"go.uber.org/zap"
)

type ConfirmationHandler struct {
	Db              *sql.DB
	TradeRepository repository.TradeRepository
	NavRepository   repository.NavRepository
	Logger          *zap.SugaredLogger
}

// ConfirmationSummary counts what a run did: trades confirmed, trades
// still waiting for their confirm date, and trades at/past their confirm
// date with no usable NAV (newly or still delayed).
type ConfirmationSummary struct {
	ProcessingDate time.Time
	Confirmed      int
	Waiting        int
	Delayed        int
	WaitingFunds   []string
}

// Run confirms every pending trade that is due at processingDate. The due
// query includes already-overdue trades, which is what lets delay
// detection fire on every run until the NAV shows up. All writes happen in
// one transaction; running twice against unchanged NAV data yields the
// same counts.
func (h ConfirmationHandler) Run(ctx context.Context, processingDate time.Time) (*ConfirmationSummary, error) {
	day := util.Truncate(processingDate)

	trades, err := h.TradeRepository.ListPendingToConfirm(day)
	if err != nil {
		return nil, err
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	summary := &ConfirmationSummary{ProcessingDate: day}
	waitingFunds := map[string]bool{}

	for _, t := range trades {
		// Only the pricing-date NAV confirms a trade; the dates were fixed
		// at creation and are not recomputed here.
		nav, err := h.NavRepository.Get(t.FundCode, t.PricingDate)
		if err != nil {
			return nil, err
		}

		if nav != nil && nav.IsPositive() {
			shares := util.QuantizeShares(t.Amount.Div(*nav))
			if err := h.TradeRepository.Confirm(tx, t.ID, shares, *nav); err != nil {
				return nil, err
			}
			summary.Confirmed++
			continue
		}

		if util.DateLte(t.ConfirmDate, day) {
			if err := h.TradeRepository.MarkDelayed(tx, t.ID, domain.DelayedReasonNavMissing, day); err != nil {
				return nil, err
			}
			summary.Delayed++
			continue
		}

		// Not yet due: normal waiting, not a delay.
		summary.Waiting++
		waitingFunds[t.FundCode] = true
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit confirmation run: %w", err)
	}

	for fundCode := range waitingFunds {
		summary.WaitingFunds = append(summary.WaitingFunds, fundCode)
	}
	sort.Strings(summary.WaitingFunds)

	h.Logger.Infow("confirmation run complete",
		"processingDate", util.FormatDate(day),
		"confirmed", summary.Confirmed,
		"waiting", summary.Waiting,
		"delayed", summary.Delayed,
	)

	return summary, nil
}
