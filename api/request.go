package api

import (
	"context"
	"encoding/json"
	"log"

	"github.com/saeidalz13/battleship-board/db/sqlc"
	cerr "github.com/saeidalz13/battleship-board/internal/error"
	mb "github.com/saeidalz13/battleship-board/models/board"
	mc "github.com/saeidalz13/battleship-board/models/connection"
)

type RequestHandler interface {
	HandleStartCell(session *mc.Session) mc.Message[mc.RespStartCell]
	HandleTryPlaceShip(session *mc.Session) mc.Message[mc.RespTryPlaceShip]
	HandlePlaceShip(session *mc.Session, analytics *sqlc.AnalyticsManager) mc.Message[mc.RespPlaceShip]
	HandleLiftShip(session *mc.Session) mc.Message[mc.RespPlaceShip]
	HandleLockShips(session *mc.Session) mc.Message[mc.RespLockShips]
	HandleShoot(session *mc.Session, events *eventQueue) mc.Message[mc.RespShot]
	HandleResetTurn(session *mc.Session) mc.Message[mc.ReqTarget]
	HandleBoardState(session *mc.Session) mc.Message[mc.RespBoardState]
}

// Every incoming valid request carries the raw payload; each handler
// unmarshals the shape it expects.
type Request struct {
	payload []byte
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload ...[]byte) Request {
	if len(payload) == 0 {
		return Request{}
	}
	return Request{payload: payload[0]}
}

func decode[T any](payload []byte) (T, error) {
	var msg mc.Message[T]
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg.Payload, err
	}
	return msg.Payload, nil
}

func (r Request) HandleStartCell(session *mc.Session) mc.Message[mc.RespStartCell] {
	req, err := decode[mc.ReqStartCell](r.payload)
	if err != nil {
		return mc.NewErrorMessage[mc.RespStartCell](mc.CodeStartCell, err, "invalid start cell payload")
	}

	resp := mc.NewMessage[mc.RespStartCell](mc.CodeStartCell)
	resp.AddPayload(mc.RespStartCell{
		Cell: session.PlayerBoard().StartCellFromWorld(req.Position, req.Size, req.IsHorizontal),
	})
	return resp
}

// Dry run used while dragging; nothing on the board changes.
func (r Request) HandleTryPlaceShip(session *mc.Session) mc.Message[mc.RespTryPlaceShip] {
	req, err := decode[mc.ReqPlaceShip](r.payload)
	if err != nil {
		return mc.NewErrorMessage[mc.RespTryPlaceShip](mc.CodeTryPlaceShip, err, "invalid placement payload")
	}

	b := session.PlayerBoard()
	cells, err := b.TryPlaceShip(mb.NewCell(req.Col, req.Row), req.Size, req.IsHorizontal)
	if err != nil {
		return mc.NewErrorMessage[mc.RespTryPlaceShip](mc.CodeTryPlaceShip, err, "ship cannot be placed here")
	}

	centers := make([]mb.Vec2, len(cells))
	for i, cell := range cells {
		centers[i] = b.CellCenterWorld(cell)
	}

	resp := mc.NewMessage[mc.RespTryPlaceShip](mc.CodeTryPlaceShip)
	resp.AddPayload(mc.RespTryPlaceShip{Cells: cells, Centers: centers})
	return resp
}

func (r Request) HandlePlaceShip(session *mc.Session, analytics *sqlc.AnalyticsManager) mc.Message[mc.RespPlaceShip] {
	req, err := decode[mc.ReqPlaceShip](r.payload)
	if err != nil {
		return mc.NewErrorMessage[mc.RespPlaceShip](mc.CodePlaceShip, err, "invalid placement payload")
	}

	b := session.PlayerBoard()
	ship, err := b.PlaceShip(mb.NewCell(req.Col, req.Row), req.Size, req.IsHorizontal)
	if err != nil {
		return mc.NewErrorMessage[mc.RespPlaceShip](mc.CodePlaceShip, err, "failed to place ship")
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := analytics.IncrementShipsPlacedCount(ctx); err != nil {
		// not failing the placement for analytics
		log.Println(err)
	}

	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodePlaceShip)
	resp.AddPayload(mc.RespPlaceShip{
		Ship:            mc.NewShipView(ship),
		PlacedShipCount: b.PlacedShipCount(),
		FleetSize:       b.FleetSize(),
	})
	return resp
}

func (r Request) HandleLiftShip(session *mc.Session) mc.Message[mc.RespPlaceShip] {
	req, err := decode[mc.ReqLiftShip](r.payload)
	if err != nil {
		return mc.NewErrorMessage[mc.RespPlaceShip](mc.CodeLiftShip, err, "invalid lift payload")
	}

	b := session.PlayerBoard()
	ship, err := b.LiftShip(req.ShipId)
	if err != nil {
		return mc.NewErrorMessage[mc.RespPlaceShip](mc.CodeLiftShip, err, "failed to lift ship")
	}

	resp := mc.NewMessage[mc.RespPlaceShip](mc.CodeLiftShip)
	resp.AddPayload(mc.RespPlaceShip{
		Ship:            mc.NewShipView(ship),
		PlacedShipCount: b.PlacedShipCount(),
		FleetSize:       b.FleetSize(),
	})
	return resp
}

func (r Request) HandleLockShips(session *mc.Session) mc.Message[mc.RespLockShips] {
	b := session.PlayerBoard()
	if err := b.Lock(); err != nil {
		return mc.NewErrorMessage[mc.RespLockShips](mc.CodeLockShips, err, "failed to lock ships")
	}

	resp := mc.NewMessage[mc.RespLockShips](mc.CodeLockShips)
	resp.AddPayload(mc.RespLockShips{Phase: b.Phase()})
	return resp
}

// Shots are only accepted once the player's fleet is locked. Shots at
// the player board are the bot's, relayed by the client.
func (r Request) HandleShoot(session *mc.Session, events *eventQueue) mc.Message[mc.RespShot] {
	req, err := decode[mc.ReqShoot](r.payload)
	if err != nil {
		return mc.NewErrorMessage[mc.RespShot](mc.CodeShoot, err, "invalid shot payload")
	}

	if session.PlayerBoard().Phase() != mb.PhaseCombat {
		return mc.NewErrorMessage[mc.RespShot](mc.CodeShoot, cerr.ErrFleetIncomplete, cerr.ConstErrShotFailed)
	}

	b, err := session.Board(req.Target)
	if err != nil {
		return mc.NewErrorMessage[mc.RespShot](mc.CodeShoot, err, cerr.ConstErrShotFailed)
	}

	cell := mb.NewCell(req.Col, req.Row)
	if !b.IsWithinBounds(cell) {
		return mc.NewErrorMessage[mc.RespShot](mc.CodeShoot, cerr.ErrCellOutOfBounds(cell.Col, cell.Row), cerr.ConstErrShotFailed)
	}

	outcome := b.ResolveShot(cell)

	payload := mc.RespShot{
		Target:        req.Target,
		Cell:          cell,
		Result:        outcome.Result(),
		Repeated:      outcome.Repeated,
		SunkenShips:   b.SunkCount(),
		BonusUnlocked: b.ConsumeBonus(),
	}
	if outcome.Ship != nil {
		payload.ShipId = outcome.Ship.Id()
	}
	if outcome.SankShip() && b.AllSunk() {
		events.push(mc.NewMessage[mc.RespBoardEvent](mc.CodeFleetDestroyed), req.Target)
	}

	resp := mc.NewMessage[mc.RespShot](mc.CodeShoot)
	resp.AddPayload(payload)
	return resp
}

// Starts a new turn window on the target board.
func (r Request) HandleResetTurn(session *mc.Session) mc.Message[mc.ReqTarget] {
	req, err := decode[mc.ReqTarget](r.payload)
	if err != nil {
		return mc.NewErrorMessage[mc.ReqTarget](mc.CodeResetTurn, err, "invalid reset turn payload")
	}

	b, err := session.Board(req.Target)
	if err != nil {
		return mc.NewErrorMessage[mc.ReqTarget](mc.CodeResetTurn, err, "failed to reset turn")
	}
	b.ResetTurnHits()

	resp := mc.NewMessage[mc.ReqTarget](mc.CodeResetTurn)
	resp.AddPayload(req)
	return resp
}

// The bot board only reveals hit cells and sunk ships.
func (r Request) HandleBoardState(session *mc.Session) mc.Message[mc.RespBoardState] {
	req, err := decode[mc.ReqTarget](r.payload)
	if err != nil {
		return mc.NewErrorMessage[mc.RespBoardState](mc.CodeBoardState, err, "invalid board state payload")
	}

	b, err := session.Board(req.Target)
	if err != nil {
		return mc.NewErrorMessage[mc.RespBoardState](mc.CodeBoardState, err, "failed to fetch board state")
	}

	state := mc.RespBoardState{
		Target:          req.Target,
		Phase:           b.Phase(),
		FleetSize:       b.FleetSize(),
		PlacedShipCount: b.PlacedShipCount(),
		SunkenShips:     b.SunkCount(),
	}

	ships := b.Ships()
	state.Ships = make([]mc.ShipView, len(ships))
	for i, ship := range ships {
		if req.Target == mc.TargetBotBoard {
			state.Ships[i] = mc.NewHiddenShipView(ship)
		} else {
			state.Ships[i] = mc.NewShipView(ship)
		}
	}
	if req.Target == mc.TargetPlayerBoard {
		state.OccupiedCells = b.OccupiedCells()
	}

	resp := mc.NewMessage[mc.RespBoardState](mc.CodeBoardState)
	resp.AddPayload(state)
	return resp
}
