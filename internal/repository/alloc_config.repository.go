package repository

import (
	"database/sql"
	"fmt"

	"fundtrack/internal/domain"

	"github.com/shopspring/decimal"
)

type AllocConfigRepository interface {
	List() ([]domain.AllocationTarget, error)
	TargetWeights() (map[string]decimal.Decimal, error)
	// MaxDeviations returns only the classes with an explicit override;
	// callers apply the default threshold for the rest.
	MaxDeviations() (map[string]decimal.Decimal, error)
	Set(tx *sql.Tx, target domain.AllocationTarget) error
}

type allocConfigRepositoryHandler struct {
	Db *sql.DB
}

func NewAllocConfigRepository(db *sql.DB) AllocConfigRepository {
	return allocConfigRepositoryHandler{Db: db}
}

func (h allocConfigRepositoryHandler) List() ([]domain.AllocationTarget, error) {
	rows, err := h.Db.Query(`SELECT asset_class, target_weight, max_deviation FROM alloc_config ORDER BY asset_class`)
	if err != nil {
		return nil, fmt.Errorf("failed to list alloc config: %w", err)
	}
	defer rows.Close()

	targets := []domain.AllocationTarget{}
	for rows.Next() {
		var assetClass, weightStr string
		var deviationStr sql.NullString
		if err := rows.Scan(&assetClass, &weightStr, &deviationStr); err != nil {
			return nil, fmt.Errorf("failed to scan alloc config: %w", err)
		}

		weight, err := decimal.NewFromString(weightStr)
		if err != nil {
			return nil, fmt.Errorf("invalid target weight %q for %s: %w", weightStr, assetClass, err)
		}
		target := domain.AllocationTarget{AssetClass: assetClass, TargetWeight: weight}

		if deviationStr.Valid {
			deviation, err := decimal.NewFromString(deviationStr.String)
			if err != nil {
				return nil, fmt.Errorf("invalid max deviation %q for %s: %w", deviationStr.String, assetClass, err)
			}
			target.MaxDeviation = &deviation
		}

		targets = append(targets, target)
	}

	return targets, rows.Err()
}

func (h allocConfigRepositoryHandler) TargetWeights() (map[string]decimal.Decimal, error) {
	targets, err := h.List()
	if err != nil {
		return nil, err
	}

	weights := map[string]decimal.Decimal{}
	for _, t := range targets {
		weights[t.AssetClass] = t.TargetWeight
	}
	return weights, nil
}

func (h allocConfigRepositoryHandler) MaxDeviations() (map[string]decimal.Decimal, error) {
	targets, err := h.List()
	if err != nil {
		return nil, err
	}

	deviations := map[string]decimal.Decimal{}
	for _, t := range targets {
		if t.MaxDeviation != nil {
			deviations[t.AssetClass] = *t.MaxDeviation
		}
	}
	return deviations, nil
}

func (h allocConfigRepositoryHandler) Set(tx *sql.Tx, target domain.AllocationTarget) error {
	var db queryable = h.Db
	if tx != nil {
		db = tx
	}

	var deviation any
	if target.MaxDeviation != nil {
		deviation = target.MaxDeviation.String()
	}

	_, err := db.Exec(
		`INSERT INTO alloc_config (asset_class, target_weight, max_deviation) VALUES (?, ?, ?)
		 ON CONFLICT (asset_class) DO UPDATE SET target_weight = excluded.target_weight, max_deviation = excluded.max_deviation`,
		target.AssetClass, target.TargetWeight.String(), deviation,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert alloc config for %s: %w", target.AssetClass, err)
	}

	return nil
}
