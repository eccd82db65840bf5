package sqlc

import (
	"context"
	"net"

	"github.com/sqlc-dev/pqtype"
)

// AnalyticsManager keeps per-server counters. A manager without a
// querier accepts every call and records nothing, so the server can
// run without a database.
type AnalyticsManager struct {
	queries  Querier
	serverIp pqtype.Inet
}

func NewAnalyticsManager(queries Querier, serverIpNet net.IPNet) *AnalyticsManager {
	return &AnalyticsManager{
		queries:  queries,
		serverIp: pqtype.Inet{IPNet: serverIpNet, Valid: true},
	}
}

func (a *AnalyticsManager) ServerIp() pqtype.Inet {
	return a.serverIp
}

func (a *AnalyticsManager) enabled() bool {
	return a != nil && a.queries != nil
}

func (a *AnalyticsManager) IncrementShipsPlacedCount(ctx context.Context) error {
	if !a.enabled() {
		return nil
	}
	return a.queries.IncrementShipsPlacedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementShipsSunkCount(ctx context.Context) error {
	if !a.enabled() {
		return nil
	}
	return a.queries.IncrementShipsSunkCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) IncrementBonusesUnlockedCount(ctx context.Context) error {
	if !a.enabled() {
		return nil
	}
	return a.queries.IncrementBonusesUnlockedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetShipsPlacedCount(ctx context.Context) (int64, error) {
	if !a.enabled() {
		return 0, nil
	}
	return a.queries.GetShipsPlacedCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetShipsSunkCount(ctx context.Context) (int64, error) {
	if !a.enabled() {
		return 0, nil
	}
	return a.queries.GetShipsSunkCount(ctx, a.serverIp)
}

func (a *AnalyticsManager) GetBonusesUnlockedCount(ctx context.Context) (int64, error) {
	if !a.enabled() {
		return 0, nil
	}
	return a.queries.GetBonusesUnlockedCount(ctx, a.serverIp)
}
