package service

import (
	"testing"
	"time"

	"fundtrack/internal/db"
	"fundtrack/internal/domain"
	"fundtrack/internal/repository"
	"fundtrack/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTradingFixture(t *testing.T) (TradingService, repository.TradeRepository) {
	t.Helper()

	dbConn, err := db.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { dbConn.Close() })

	calendars := repository.NewCalendarRepository(dbConn)
	entries := []domain.CalendarEntry{}
	for d := util.NewDate(2025, 6, 1); util.DateLte(d, util.NewDate(2025, 7, 31)); d = d.AddDate(0, 0, 1) {
		open := d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
		entries = append(entries,
			domain.CalendarEntry{Market: domain.CalendarCNA, Day: d, IsTradingDay: open},
			domain.CalendarEntry{Market: domain.CalendarUSNYSE, Day: d, IsTradingDay: open},
		)
	}
	require.NoError(t, calendars.BulkAdd(nil, entries))

	funds := repository.NewFundRepository(dbConn)
	require.NoError(t, funds.Add(nil, domain.Fund{
		Code: "F100", Name: "CSI 300 Index", Market: domain.MarketTypeA, AssetClass: "equity",
	}))
	require.NoError(t, funds.Add(nil, domain.Fund{
		Code: "F900", Name: "S&P 500 QDII", Market: domain.MarketTypeQDII, AssetClass: "overseas",
	}))

	trades := repository.NewTradeRepository(dbConn)
	settlement := NewSettlementService(NewCalendarService(calendars))

	return NewTradingService(dbConn, trades, funds, settlement), trades
}

func TestCreateTrade(t *testing.T) {
	svc, trades := newTradingFixture(t)

	t.Run("domestic weekend buy settles T+1 from monday", func(t *testing.T) {
		created, err := svc.CreateTrade(CreateTradeInput{
			FundCode:  "F100",
			Type:      domain.TradeTypeBuy,
			Amount:    decimal.RequireFromString("1000.005"),
			TradeDate: util.NewDate(2025, 6, 7),
		})
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusPending, created.Status)
		require.Equal(t, domain.MarketTypeA, created.Market)
		require.Equal(t, util.NewDate(2025, 6, 9), created.PricingDate)
		require.Equal(t, util.NewDate(2025, 6, 10), created.ConfirmDate)
		// Amounts are money: quantized to 2 decimal places on the way in.
		require.Equal(t, "1000.01", created.Amount.StringFixed(2))

		stored, err := trades.Get(created.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.Equal(t, created.PricingDate, stored.PricingDate)
		require.Equal(t, created.ConfirmDate, stored.ConfirmDate)
	})

	t.Run("qdii trade confirms T+2 on the foreign calendar", func(t *testing.T) {
		created, err := svc.CreateTrade(CreateTradeInput{
			FundCode:  "F900",
			Type:      domain.TradeTypeBuy,
			Amount:    decimal.RequireFromString("500"),
			TradeDate: util.NewDate(2025, 6, 7),
		})
		require.NoError(t, err)
		require.Equal(t, domain.MarketTypeQDII, created.Market)
		require.Equal(t, util.NewDate(2025, 6, 9), created.PricingDate)
		require.Equal(t, util.NewDate(2025, 6, 11), created.ConfirmDate)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := svc.CreateTrade(CreateTradeInput{
			FundCode:  "F100",
			Type:      domain.TradeType("short"),
			Amount:    decimal.RequireFromString("100"),
			TradeDate: util.NewDate(2025, 6, 6),
		})
		require.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := svc.CreateTrade(CreateTradeInput{
			FundCode:  "F100",
			Type:      domain.TradeTypeBuy,
			Amount:    decimal.Zero,
			TradeDate: util.NewDate(2025, 6, 6),
		})
		require.Error(t, err)
	})

	t.Run("rejects unknown fund", func(t *testing.T) {
		_, err := svc.CreateTrade(CreateTradeInput{
			FundCode:  "F000",
			Type:      domain.TradeTypeBuy,
			Amount:    decimal.RequireFromString("100"),
			TradeDate: util.NewDate(2025, 6, 6),
		})
		require.ErrorContains(t, err, "unknown fund")
	})
}

func TestManualConfirm(t *testing.T) {
	svc, trades := newTradingFixture(t)

	created, err := svc.CreateTrade(CreateTradeInput{
		FundCode:  "F100",
		Type:      domain.TradeTypeBuy,
		Amount:    decimal.RequireFromString("1000"),
		TradeDate: util.NewDate(2025, 6, 6),
	})
	require.NoError(t, err)

	t.Run("rejects non-positive inputs", func(t *testing.T) {
		err := svc.ManualConfirm(created.ID, decimal.Zero, decimal.RequireFromString("1.2"))
		require.Error(t, err)
		err = svc.ManualConfirm(created.ID, decimal.RequireFromString("800"), decimal.Zero)
		require.Error(t, err)
	})

	t.Run("unknown trade", func(t *testing.T) {
		err := svc.ManualConfirm(uuid.New(), decimal.RequireFromString("800"), decimal.RequireFromString("1.2"))
		require.ErrorContains(t, err, "not found")
	})

	t.Run("confirms with quantized values", func(t *testing.T) {
		err := svc.ManualConfirm(created.ID, decimal.RequireFromString("813.00813"), decimal.RequireFromString("1.23"))
		require.NoError(t, err)

		stored, err := trades.Get(created.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TradeStatusConfirmed, stored.Status)
		require.Equal(t, "813.0081", stored.Shares.StringFixed(4))
	})

	t.Run("confirmed trades are terminal", func(t *testing.T) {
		err := svc.ManualConfirm(created.ID, decimal.RequireFromString("1"), decimal.RequireFromString("1"))
		require.ErrorIs(t, err, repository.ErrTradeNotPending)
	})
}

func TestCancelTrade(t *testing.T) {
	svc, trades := newTradingFixture(t)

	created, err := svc.CreateTrade(CreateTradeInput{
		FundCode:  "F100",
		Type:      domain.TradeTypeSell,
		Amount:    decimal.RequireFromString("100"),
		TradeDate: util.NewDate(2025, 6, 6),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(created.ID))

	stored, err := trades.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TradeStatusSkipped, stored.Status)

	// Skipped is terminal.
	require.ErrorIs(t, svc.Cancel(created.ID), repository.ErrTradeNotPending)
}
