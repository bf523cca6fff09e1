package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/util"

	"github.com/shopspring/decimal"
)

// NavRepository reads published NAVs. Absence is a nil result, not an
// error: missing NAV is an expected condition handled by the quality
// resolver. Writes come from the external NAV-fetch job and overwrite by
// (fund_code, day).
type NavRepository interface {
	Get(fundCode string, day time.Time) (*decimal.Decimal, error)
	Add(tx *sql.Tx, rec domain.NavRecord) error
}

type navRepositoryHandler struct {
	Db *sql.DB
}

func NewNavRepository(db *sql.DB) NavRepository {
	return navRepositoryHandler{Db: db}
}

func (h navRepositoryHandler) Get(fundCode string, day time.Time) (*decimal.Decimal, error) {
	var navStr string
	err := h.Db.QueryRow(
		`SELECT nav FROM navs WHERE fund_code = ? AND day = ?`,
		fundCode, util.FormatDate(day),
	).Scan(&navStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query nav for %s on %s: %w", fundCode, util.FormatDate(day), err)
	}

	nav, err := decimal.NewFromString(navStr)
	if err != nil {
		return nil, fmt.Errorf("invalid nav %q for %s: %w", navStr, fundCode, err)
	}

	return &nav, nil
}

func (h navRepositoryHandler) Add(tx *sql.Tx, rec domain.NavRecord) error {
	var db queryable = h.Db
	if tx != nil {
		db = tx
	}

	_, err := db.Exec(
		`INSERT INTO navs (fund_code, day, nav) VALUES (?, ?, ?)
		 ON CONFLICT (fund_code, day) DO UPDATE SET nav = excluded.nav`,
		rec.FundCode, util.FormatDate(rec.Day), util.QuantizeNav(rec.Nav).String(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert nav for %s on %s: %w", rec.FundCode, util.FormatDate(rec.Day), err)
	}

	return nil
}
