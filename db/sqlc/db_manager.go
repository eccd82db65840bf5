package sqlc

import (
	"net"
	"time"
)

const (
	QuerierCtxTimeout = time.Second * 10
)

type DbManager struct {
	Analytics *AnalyticsManager
}

// queries may be nil when the server runs without a database.
func NewDbManager(queries Querier, serverIpNet net.IPNet) DbManager {
	return DbManager{
		Analytics: NewAnalyticsManager(queries, serverIpNet),
	}
}
