package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"fundtrack/internal/domain"
)

type FundRepository interface {
	// Get returns nil when the fund is not registered.
	Get(code string) (*domain.Fund, error)
	List() ([]domain.Fund, error)
	Add(tx *sql.Tx, f domain.Fund) error
}

type fundRepositoryHandler struct {
	Db *sql.DB
}

func NewFundRepository(db *sql.DB) FundRepository {
	return fundRepositoryHandler{Db: db}
}

func (h fundRepositoryHandler) Get(code string) (*domain.Fund, error) {
	var f domain.Fund
	var market string
	err := h.Db.QueryRow(
		`SELECT code, name, market, asset_class FROM funds WHERE code = ?`,
		code,
	).Scan(&f.Code, &f.Name, &market, &f.AssetClass)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fund %s: %w", code, err)
	}
	f.Market = domain.MarketType(market)

	return &f, nil
}

func (h fundRepositoryHandler) List() ([]domain.Fund, error) {
	rows, err := h.Db.Query(`SELECT code, name, market, asset_class FROM funds ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list funds: %w", err)
	}
	defer rows.Close()

	funds := []domain.Fund{}
	for rows.Next() {
		var f domain.Fund
		var market string
		if err := rows.Scan(&f.Code, &f.Name, &market, &f.AssetClass); err != nil {
			return nil, fmt.Errorf("failed to scan fund: %w", err)
		}
		f.Market = domain.MarketType(market)
		funds = append(funds, f)
	}

	return funds, rows.Err()
}

func (h fundRepositoryHandler) Add(tx *sql.Tx, f domain.Fund) error {
	var db queryable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := db.Exec(
		`INSERT INTO funds (code, name, market, asset_class) VALUES (?, ?, ?, ?)
		 ON CONFLICT (code) DO UPDATE SET name = excluded.name, market = excluded.market, asset_class = excluded.asset_class`,
		f.Code, f.Name, string(f.Market), f.AssetClass,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fund %s: %w", f.Code, err)
	}

	return nil
}
