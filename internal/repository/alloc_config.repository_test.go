package repository

import (
	"testing"

	"fundtrack/internal/db"
	"fundtrack/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAllocConfigSetAndList(t *testing.T) {
	dbConn, err := db.NewTestDB()
	require.NoError(t, err)
	defer dbConn.Close()
	repo := NewAllocConfigRepository(dbConn)

	deviation := decimal.RequireFromString("0.03")
	require.NoError(t, repo.Set(nil, domain.AllocationTarget{
		AssetClass: "equity", TargetWeight: decimal.RequireFromString("0.6"), MaxDeviation: &deviation,
	}))
	require.NoError(t, repo.Set(nil, domain.AllocationTarget{
		AssetClass: "bond", TargetWeight: decimal.RequireFromString("0.4"),
	}))

	targets, err := repo.List()
	require.NoError(t, err)
	require.Len(t, targets, 2)
	require.Equal(t, "bond", targets[0].AssetClass)
	require.Nil(t, targets[0].MaxDeviation)
	require.Equal(t, "equity", targets[1].AssetClass)
	require.NotNil(t, targets[1].MaxDeviation)
	require.True(t, targets[1].MaxDeviation.Equal(deviation))

	weights, err := repo.TargetWeights()
	require.NoError(t, err)
	require.True(t, weights["equity"].Equal(decimal.RequireFromString("0.6")))

	// Only explicit overrides come back; bond falls to the default threshold.
	deviations, err := repo.MaxDeviations()
	require.NoError(t, err)
	require.Len(t, deviations, 1)
	require.True(t, deviations["equity"].Equal(deviation))
}

func TestAllocConfigSetOverwrites(t *testing.T) {
	dbConn, err := db.NewTestDB()
	require.NoError(t, err)
	defer dbConn.Close()
	repo := NewAllocConfigRepository(dbConn)

	require.NoError(t, repo.Set(nil, domain.AllocationTarget{
		AssetClass: "equity", TargetWeight: decimal.RequireFromString("0.6"),
	}))
	require.NoError(t, repo.Set(nil, domain.AllocationTarget{
		AssetClass: "equity", TargetWeight: decimal.RequireFromString("0.7"),
	}))

	weights, err := repo.TargetWeights()
	require.NoError(t, err)
	require.Len(t, weights, 1)
	require.True(t, weights["equity"].Equal(decimal.RequireFromString("0.7")))
}

func TestFundAddGetList(t *testing.T) {
	dbConn, err := db.NewTestDB()
	require.NoError(t, err)
	defer dbConn.Close()
	repo := NewFundRepository(dbConn)

	require.NoError(t, repo.Add(nil, domain.Fund{
		Code: "F100", Name: "CSI 300 Index", Market: domain.MarketTypeA, AssetClass: "equity",
	}))
	require.NoError(t, repo.Add(nil, domain.Fund{
		Code: "F900", Name: "S&P 500 QDII", Market: domain.MarketTypeQDII, AssetClass: "overseas",
	}))

	got, err := repo.Get("F900")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, domain.MarketTypeQDII, got.Market)
	require.Equal(t, "overseas", got.AssetClass)

	missing, err := repo.Get("F000")
	require.NoError(t, err)
	require.Nil(t, missing)

	funds, err := repo.List()
	require.NoError(t, err)
	require.Len(t, funds, 2)
	require.Equal(t, "F100", funds[0].Code)
}
