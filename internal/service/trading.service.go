package service

import (
	"database/sql"
	"fmt"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/repository"
	"fundtrack/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TradingService interface {
	CreateTrade(input CreateTradeInput) (*domain.Trade, error)
	// ManualConfirm bypasses the NAV lookup for trades whose automated NAV
	// source is permanently unavailable. Operator supplies both values.
	ManualConfirm(id uuid.UUID, shares, nav decimal.Decimal) error
	Cancel(id uuid.UUID) error
}

type CreateTradeInput struct {
	FundCode  string
	Type      domain.TradeType
	Amount    decimal.Decimal
	TradeDate time.Time
}

type tradingServiceHandler struct {
	Db              *sql.DB
	TradeRepository repository.TradeRepository
	FundRepository  repository.FundRepository
	Settlement      SettlementService
}

func NewTradingService(
	db *sql.DB,
	tradeRepository repository.TradeRepository,
	fundRepository repository.FundRepository,
	settlement SettlementService,
) TradingService {
	return tradingServiceHandler{
		Db:              db,
		TradeRepository: tradeRepository,
		FundRepository:  fundRepository,
		Settlement:      settlement,
	}
}

// CreateTrade inserts a pending trade with its pricing and confirm dates
// fixed at creation time. They are never recomputed afterwards, even if
// calendar data changes.
func (h tradingServiceHandler) CreateTrade(input CreateTradeInput) (*domain.Trade, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("invalid trade type %q", input.Type)
	}
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("trade amount must be > 0, got %s", input.Amount)
	}

	fund, err := h.FundRepository.Get(input.FundCode)
	if err != nil {
		return nil, err
	}
	if fund == nil {
		return nil, fmt.Errorf("unknown fund %s", input.FundCode)
	}

	policy := domain.DefaultPolicy(fund.Market)
	tradeDate := util.Truncate(input.TradeDate)

	pricingDate, confirmDate, err := h.Settlement.SettlementDates(tradeDate, policy)
	if err != nil {
		return nil, fmt.Errorf("failed to compute settlement dates for %s: %w", input.FundCode, err)
	}

	t := domain.Trade{
		ID:                 uuid.New(),
		FundCode:           input.FundCode,
		Type:               input.Type,
		Amount:             util.QuantizeAmount(input.Amount),
		TradeDate:          tradeDate,
		Status:             domain.TradeStatusPending,
		Market:             fund.Market,
		PricingDate:        pricingDate,
		ConfirmDate:        confirmDate,
		ConfirmationStatus: domain.ConfirmationStatusNormal,
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := h.TradeRepository.Add(tx, t); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit trade creation: %w", err)
	}

	return &t, nil
}

func (h tradingServiceHandler) ManualConfirm(id uuid.UUID, shares, nav decimal.Decimal) error {
	if !shares.IsPositive() {
		return fmt.Errorf("manual confirm shares must be > 0, got %s", shares)
	}
	if !nav.IsPositive() {
		return fmt.Errorf("manual confirm nav must be > 0, got %s", nav)
	}

	t, err := h.TradeRepository.Get(id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("trade %s not found", id)
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := h.TradeRepository.Confirm(tx, id, util.QuantizeShares(shares), util.QuantizeNav(nav)); err != nil {
		return err
	}

	return tx.Commit()
}

func (h tradingServiceHandler) Cancel(id uuid.UUID) error {
	t, err := h.TradeRepository.Get(id)
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("trade %s not found", id)
	}

	tx, err := h.Db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := h.TradeRepository.Cancel(tx, id); err != nil {
		return err
	}

	return tx.Commit()
}
