package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrTradeNotPending is returned by state transitions that require a
// pending trade: confirmed and skipped are terminal.
var ErrTradeNotPending = errors.New("trade is not pending")

type TradeRepository interface {
	Add(tx *sql.Tx, t domain.Trade) error
	Get(id uuid.UUID) (*domain.Trade, error)
	// ListPendingToConfirm returns pending trades with confirm_date <= day,
	// deliberately including already-overdue trades so delay detection sees
	// them on every run.
	ListPendingToConfirm(day time.Time) ([]domain.Trade, error)
	Confirm(tx *sql.Tx, id uuid.UUID, shares, nav decimal.Decimal) error
	MarkDelayed(tx *sql.Tx, id uuid.UUID, reason string, since time.Time) error
	Cancel(tx *sql.Tx, id uuid.UUID) error
	// ConfirmedShares nets confirmed trades per fund (buys +, sells -),
	// keeping only positive positions.
	ConfirmedShares() (map[string]decimal.Decimal, error)
}

type tradeRepositoryHandler struct {
	Db *sql.DB
}

func NewTradeRepository(db *sql.DB) TradeRepository {
	return tradeRepositoryHandler{Db: db}
}

func (h tradeRepositoryHandler) Add(tx *sql.Tx, t domain.Trade) error {
	var db queryable = h.Db
	if tx != nil {
		db = tx
	}

	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO trades
		 (id, fund_code, type, amount, trade_date, status, market, shares, nav,
		  pricing_date, confirm_date, confirmation_status, delayed_reason, delayed_since,
		  created_at, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID.String(),
		t.FundCode,
		string(t.Type),
		t.Amount.String(),
		util.FormatDate(t.TradeDate),
		string(t.Status),
		string(t.Market),
		decimalToNullString(t.Shares),
		decimalToNullString(t.Nav),
		util.FormatDate(t.PricingDate),
		util.FormatDate(t.ConfirmDate),
		string(t.ConfirmationStatus),
		t.DelayedReason,
		dateToNullString(t.DelayedSince),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	return nil
}

func (h tradeRepositoryHandler) Get(id uuid.UUID) (*domain.Trade, error) {
	row := h.Db.QueryRow(
		`SELECT id, fund_code, type, amount, trade_date, status, market, shares, nav,
		        pricing_date, confirm_date, confirmation_status, delayed_reason, delayed_since,
		        created_at, modified_at
		 FROM trades WHERE id = ?`,
		id.String(),
	)

	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade %s: %w", id, err)
	}

	return t, nil
}

func (h tradeRepositoryHandler) ListPendingToConfirm(day time.Time) ([]domain.Trade, error) {
	rows, err := h.Db.Query(
		`SELECT id, fund_code, type, amount, trade_date, status, market, shares, nav,
		        pricing_date, confirm_date, confirmation_status, delayed_reason, delayed_since,
		        created_at, modified_at
		 FROM trades
		 WHERE status = ? AND confirm_date <= ?
		 ORDER BY trade_date, id`,
		string(domain.TradeStatusPending), util.FormatDate(day),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending trades: %w", err)
	}
	defer rows.Close()

	trades := []domain.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}

	return trades, rows.Err()
}

func (h tradeRepositoryHandler) Confirm(tx *sql.Tx, id uuid.UUID, shares, nav decimal.Decimal) error {
	var db queryable = h.Db
	if tx != nil {
		db = tx
	}

	res, err := db.Exec(
		`UPDATE trades SET
			status = ?,
			shares = ?,
			nav = ?,
			confirmation_status = ?,
			delayed_reason = NULL,
			delayed_since = NULL,
			modified_at = ?
		 WHERE id = ? AND status = ?`,
		string(domain.TradeStatusConfirmed),
		shares.String(),
		nav.String(),
		string(domain.ConfirmationStatusNormal),
		time.Now().UTC(),
		id.String(),
		string(domain.TradeStatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to confirm trade %s: %w", id, err)
	}

	return requirePendingRow(res, id)
}

func (h tradeRepositoryHandler) MarkDelayed(tx *sql.Tx, id uuid.UUID, reason string, since time.Time) error {
	var db queryable = h.Db
	if tx != nil {
		db = tx
	}

	// COALESCE keeps the first detection date while the trade stays delayed.
	res, err := db.Exec(
		`UPDATE trades SET
			confirmation_status = ?,
			delayed_reason = ?,
			delayed_since = COALESCE(delayed_since, ?),
			modified_at = ?
		 WHERE id = ? AND status = ?`,
		string(domain.ConfirmationStatusDelayed),
		reason,
		util.FormatDate(since),
		time.Now().UTC(),
		id.String(),
		string(domain.TradeStatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to mark trade %s delayed: %w", id, err)
	}

	return requirePendingRow(res, id)
}

func (h tradeRepositoryHandler) Cancel(tx *sql.Tx, id uuid.UUID) error {
	var db queryable = h.Db
	if tx != nil {
		db = tx
	}

	res, err := db.Exec(
		`UPDATE trades SET status = ?, modified_at = ? WHERE id = ? AND status = ?`,
		string(domain.TradeStatusSkipped),
		time.Now().UTC(),
		id.String(),
		string(domain.TradeStatusPending),
	)
	if err != nil {
		return fmt.Errorf("failed to cancel trade %s: %w", id, err)
	}

	return requirePendingRow(res, id)
}

func (h tradeRepositoryHandler) ConfirmedShares() (map[string]decimal.Decimal, error) {
	rows, err := h.Db.Query(
		`SELECT fund_code, type, shares FROM trades
		 WHERE status = ? AND shares IS NOT NULL`,
		string(domain.TradeStatusConfirmed),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmed trades: %w", err)
	}
	defer rows.Close()

	position := map[string]decimal.Decimal{}
	for rows.Next() {
		var fundCode, tradeType, sharesStr string
		if err := rows.Scan(&fundCode, &tradeType, &sharesStr); err != nil {
			return nil, fmt.Errorf("failed to scan confirmed trade: %w", err)
		}
		shares, err := decimal.NewFromString(sharesStr)
		if err != nil {
			return nil, fmt.Errorf("invalid shares %q for %s: %w", sharesStr, fundCode, err)
		}
		if tradeType == string(domain.TradeTypeSell) {
			shares = shares.Neg()
		}
		position[fundCode] = position[fundCode].Add(shares)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for fundCode, shares := range position {
		if !shares.IsPositive() {
			delete(position, fundCode)
		}
	}

	return position, nil
}

func requirePendingRow(res sql.Result, id uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trade %s: %w", id, ErrTradeNotPending)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (*domain.Trade, error) {
	var (
		idStr, fundCode, tradeType, amountStr, tradeDateStr string
		status, market, pricingDateStr, confirmDateStr      string
		confirmationStatus                                  string
		sharesStr, navStr, delayedReason, delayedSinceStr   sql.NullString
		createdAt, modifiedAt                               time.Time
	)

	err := row.Scan(
		&idStr, &fundCode, &tradeType, &amountStr, &tradeDateStr, &status, &market,
		&sharesStr, &navStr, &pricingDateStr, &confirmDateStr, &confirmationStatus,
		&delayedReason, &delayedSinceStr, &createdAt, &modifiedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trade id %q: %w", idStr, err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amountStr, err)
	}
	tradeDate, err := util.ParseDate(tradeDateStr)
	if err != nil {
		return nil, err
	}
	pricingDate, err := util.ParseDate(pricingDateStr)
	if err != nil {
		return nil, err
	}
	confirmDate, err := util.ParseDate(confirmDateStr)
	if err != nil {
		return nil, err
	}

	t := domain.Trade{
		ID:                 id,
		FundCode:           fundCode,
		Type:               domain.TradeType(tradeType),
		Amount:             amount,
		TradeDate:          tradeDate,
		Status:             domain.TradeStatus(status),
		Market:             domain.MarketType(market),
		PricingDate:        pricingDate,
		ConfirmDate:        confirmDate,
		ConfirmationStatus: domain.ConfirmationStatus(confirmationStatus),
		CreatedAt:          createdAt,
		ModifiedAt:         modifiedAt,
	}

	if sharesStr.Valid {
		shares, err := decimal.NewFromString(sharesStr.String)
		if err != nil {
			return nil, fmt.Errorf("invalid shares %q: %w", sharesStr.String, err)
		}
		t.Shares = &shares
	}
	if navStr.Valid {
		nav, err := decimal.NewFromString(navStr.String)
		if err != nil {
			return nil, fmt.Errorf("invalid nav %q: %w", navStr.String, err)
		}
		t.Nav = &nav
	}
	if delayedReason.Valid {
		t.DelayedReason = &delayedReason.String
	}
	if delayedSinceStr.Valid {
		since, err := util.ParseDate(delayedSinceStr.String)
		if err != nil {
			return nil, err
		}
		t.DelayedSince = &since
	}

	return &t, nil
}

func decimalToNullString(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func dateToNullString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return util.FormatDate(*t)
}
