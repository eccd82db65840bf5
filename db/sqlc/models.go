package sqlc

import (
	"time"

	"github.com/sqlc-dev/pqtype"
)

type GameServerAnalytic struct {
	ServerIp        pqtype.Inet
	ShipsPlaced     int64
	ShipsSunk       int64
	BonusesUnlocked int64
	UpdatedAt       time.Time
}
