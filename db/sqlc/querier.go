package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

type Querier interface {
	GetBonusesUnlockedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	GetShipsPlacedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	GetShipsSunkCount(ctx context.Context, serverIp pqtype.Inet) (int64, error)
	IncrementBonusesUnlockedCount(ctx context.Context, serverIp pqtype.Inet) error
	IncrementShipsPlacedCount(ctx context.Context, serverIp pqtype.Inet) error
	IncrementShipsSunkCount(ctx context.Context, serverIp pqtype.Inet) error
}

var _ Querier = (*Queries)(nil)
