package service

import (
	"context"
	"fmt"
	"time"

	"fundtrack/internal/domain"
	"fundtrack/internal/repository"

	"github.com/shopspring/decimal"
)

// NavFetch is the network collaborator that pulls published NAVs. The ok
// result distinguishes "publisher has nothing for that day" from transport
// failure.
type NavFetch interface {
	Fetch(ctx context.Context, fundCode string, day time.Time) (decimal.Decimal, bool, error)
}

// NavSyncService pulls NAVs for every registered fund and upserts them.
// Retry with bounded exponential backoff lives here, at the network
// boundary, never inside settlement/confirmation/rebalance computation.
type NavSyncService interface {
	SyncDay(ctx context.Context, day time.Time) (int, error)
}

type navSyncServiceHandler struct {
	FundRepository repository.FundRepository
	NavRepository  repository.NavRepository
	Fetch          NavFetch

	maxAttempts int
	baseBackoff time.Duration
}

func NewNavSyncService(fundRepository repository.FundRepository, navRepository repository.NavRepository, fetch NavFetch) NavSyncService {
	return navSyncServiceHandler{
		FundRepository: fundRepository,
		NavRepository:  navRepository,
		Fetch:          fetch,
		maxAttempts:    3,
		baseBackoff:    500 * time.Millisecond,
	}
}

func (h navSyncServiceHandler) SyncDay(ctx context.Context, day time.Time) (int, error) {
	funds, err := h.FundRepository.List()
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, f := range funds {
		nav, ok, err := h.fetchWithRetry(ctx, f.Code, day)
		if err != nil {
			return synced, fmt.Errorf("failed to fetch nav for %s: %w", f.Code, err)
		}
		if !ok {
			continue
		}

		if err := h.NavRepository.Add(nil, domain.NavRecord{FundCode: f.Code, Day: day, Nav: nav}); err != nil {
			return synced, err
		}
		synced++
	}

	return synced, nil
}

func (h navSyncServiceHandler) fetchWithRetry(ctx context.Context, fundCode string, day time.Time) (decimal.Decimal, bool, error) {
	backoff := h.baseBackoff
	var lastErr error

	for attempt := 0; attempt < h.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return decimal.Zero, false, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		nav, ok, err := h.Fetch.Fetch(ctx, fundCode, day)
		if err == nil {
			return nav, ok, nil
		}
		lastErr = err
	}

	return decimal.Zero, false, fmt.Errorf("gave up after %d attempts: %w", h.maxAttempts, lastErr)
}
