package api

import (
	"context"
	"log"

	"github.com/saeidalz13/battleship-board/db/sqlc"
	mb "github.com/saeidalz13/battleship-board/models/board"
	mc "github.com/saeidalz13/battleship-board/models/connection"
)

// eventQueue collects board notifications raised while a request is
// handled. They are written to the client after the response.
type eventQueue struct {
	pending []interface{}
}

func (q *eventQueue) push(msg mc.Message[mc.RespBoardEvent], target uint8) {
	msg.Payload.Target = target
	q.pending = append(q.pending, msg)
}

func (q *eventQueue) drain() []interface{} {
	msgs := q.pending
	q.pending = nil
	return msgs
}

// boardListener turns the notifications of one board into queued
// messages and analytics increments.
type boardListener struct {
	target    uint8
	queue     *eventQueue
	analytics *sqlc.AnalyticsManager
}

var _ mb.Listener = (*boardListener)(nil)

func newBoardListener(target uint8, queue *eventQueue, analytics *sqlc.AnalyticsManager) *boardListener {
	return &boardListener{
		target:    target,
		queue:     queue,
		analytics: analytics,
	}
}

func (l *boardListener) OnAllShipsPlaced() {
	l.queue.push(mc.NewMessage[mc.RespBoardEvent](mc.CodeAllShipsPlaced), l.target)
}

func (l *boardListener) OnShipSunk(ship *mb.ShipRecord) {
	view := mc.NewShipView(ship)
	msg := mc.NewMessage[mc.RespBoardEvent](mc.CodeShipSunk)
	msg.AddPayload(mc.RespBoardEvent{Ship: &view})
	l.queue.push(msg, l.target)

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := l.analytics.IncrementShipsSunkCount(ctx); err != nil {
		log.Println(err)
	}
}

// A ship of this board went down within one turn; the attacking side
// earns the bonus.
func (l *boardListener) OnBonusUnlocked() {
	l.queue.push(mc.NewMessage[mc.RespBoardEvent](mc.CodeBonusUnlocked), l.target)

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := l.analytics.IncrementBonusesUnlockedCount(ctx); err != nil {
		log.Println(err)
	}
}
