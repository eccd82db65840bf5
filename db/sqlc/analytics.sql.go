package sqlc

import (
	"context"

	"github.com/sqlc-dev/pqtype"
)

const getBonusesUnlockedCount = `-- name: GetBonusesUnlockedCount :one
SELECT bonuses_unlocked FROM game_server_analytics WHERE server_ip = $1
`

func (q *Queries) GetBonusesUnlockedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error) {
	row := q.db.QueryRowContext(ctx, getBonusesUnlockedCount, serverIp)
	var bonuses_unlocked int64
	err := row.Scan(&bonuses_unlocked)
	return bonuses_unlocked, err
}

const getShipsPlacedCount = `-- name: GetShipsPlacedCount :one
SELECT ships_placed FROM game_server_analytics WHERE server_ip = $1
`

func (q *Queries) GetShipsPlacedCount(ctx context.Context, serverIp pqtype.Inet) (int64, error) {
	row := q.db.QueryRowContext(ctx, getShipsPlacedCount, serverIp)
	var ships_placed int64
	err := row.Scan(&ships_placed)
	return ships_placed, err
}

const getShipsSunkCount = `-- name: GetShipsSunkCount :one
SELECT ships_sunk FROM game_server_analytics WHERE server_ip = $1
`

func (q *Queries) GetShipsSunkCount(ctx context.Context, serverIp pqtype.Inet) (int64, error) {
	row := q.db.QueryRowContext(ctx, getShipsSunkCount, serverIp)
	var ships_sunk int64
	err := row.Scan(&ships_sunk)
	return ships_sunk, err
}

const incrementBonusesUnlockedCount = `-- name: IncrementBonusesUnlockedCount :exec
INSERT INTO game_server_analytics (server_ip, bonuses_unlocked)
VALUES ($1, 1)
ON CONFLICT (server_ip)
DO UPDATE SET bonuses_unlocked = game_server_analytics.bonuses_unlocked + 1, updated_at = now()
`

func (q *Queries) IncrementBonusesUnlockedCount(ctx context.Context, serverIp pqtype.Inet) error {
	_, err := q.db.ExecContext(ctx, incrementBonusesUnlockedCount, serverIp)
	return err
}

const incrementShipsPlacedCount = `-- name: IncrementShipsPlacedCount :exec
INSERT INTO game_server_analytics (server_ip, ships_placed)
VALUES ($1, 1)
ON CONFLICT (server_ip)
DO UPDATE SET ships_placed = game_server_analytics.ships_placed + 1, updated_at = now()
`

func (q *Queries) IncrementShipsPlacedCount(ctx context.Context, serverIp pqtype.Inet) error {
	_, err := q.db.ExecContext(ctx, incrementShipsPlacedCount, serverIp)
	return err
}

const incrementShipsSunkCount = `-- name: IncrementShipsSunkCount :exec
INSERT INTO game_server_analytics (server_ip, ships_sunk)
VALUES ($1, 1)
ON CONFLICT (server_ip)
DO UPDATE SET ships_sunk = game_server_analytics.ships_sunk + 1, updated_at = now()
`

func (q *Queries) IncrementShipsSunkCount(ctx context.Context, serverIp pqtype.Inet) error {
	_, err := q.db.ExecContext(ctx, incrementShipsSunkCount, serverIp)
	return err
}
