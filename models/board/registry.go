package board

import (
	cerr "github.com/saeidalz13/battleship-board/internal/error"
)

const (
	ShotMiss uint8 = iota
	ShotHit
	ShotSunk
	ShotDestroyedThisTurn
)

type HitOutcome struct {
	Cell              Cell
	Ship              *ShipRecord
	IsSunk            bool
	DestroyedThisTurn bool

	// The cell had been hit before; nothing changed.
	Repeated bool
}

func (h HitOutcome) IsMiss() bool {
	return h.Ship == nil
}

// SankShip is true only for the hit that sank the ship.
func (h HitOutcome) SankShip() bool {
	return h.IsSunk && !h.Repeated
}

func (h HitOutcome) Result() uint8 {
	switch {
	case h.Ship == nil:
		return ShotMiss
	case h.DestroyedThisTurn:
		return ShotDestroyedThisTurn
	case h.IsSunk:
		return ShotSunk
	default:
		return ShotHit
	}
}

// ShipRegistry keeps one record per placed ship in placement order.
type ShipRegistry struct {
	ships []*ShipRecord
}

func NewShipRegistry(capacity int) *ShipRegistry {
	return &ShipRegistry{ships: make([]*ShipRecord, 0, capacity)}
}

func (r *ShipRegistry) Register(cells []Cell) (*ShipRecord, error) {
	if len(cells) == 0 {
		return nil, cerr.ErrInvalidShipSize(0)
	}

	ship := newShipRecord(cells)
	r.ships = append(r.ships, ship)
	return ship, nil
}

// ShipAt returns the ship covering cell or nil. Placement validation
// guarantees at most one match.
func (r *ShipRegistry) ShipAt(cell Cell) *ShipRecord {
	for _, ship := range r.ships {
		if ship.Contains(cell) {
			return ship
		}
	}
	return nil
}

func (r *ShipRegistry) FindShip(shipId string) (*ShipRecord, error) {
	for _, ship := range r.ships {
		if ship.id == shipId {
			return ship, nil
		}
	}
	return nil, cerr.ErrShipNotExist(shipId)
}

// RegisterHit marks cell as hit on ship. Hitting the same cell twice or
// hitting a sunk ship does not change any state.
func (r *ShipRegistry) RegisterHit(ship *ShipRecord, cell Cell) HitOutcome {
	outcome := HitOutcome{Cell: cell, Ship: ship}

	if ship.IsSunk() || ship.IsHitAt(cell) {
		outcome.IsSunk = ship.IsSunk()
		outcome.Repeated = true
		return outcome
	}

	ship.hitCells[cell] = struct{}{}
	ship.hitsThisTurn++

	outcome.IsSunk = ship.IsSunk()
	outcome.DestroyedThisTurn = ship.wasDestroyedInATurn()
	return outcome
}

func (r *ShipRegistry) ResetTurnHits() {
	for _, ship := range r.ships {
		ship.resetTurnHits()
	}
}

// Remove drops a ship record. Only used while ships are still being
// arranged; after that records stay for the rest of the game.
func (r *ShipRegistry) Remove(shipId string) (*ShipRecord, error) {
	for i, ship := range r.ships {
		if ship.id == shipId {
			r.ships = append(r.ships[:i], r.ships[i+1:]...)
			return ship, nil
		}
	}
	return nil, cerr.ErrShipNotExist(shipId)
}

func (r *ShipRegistry) Ships() []*ShipRecord {
	ships := make([]*ShipRecord, len(r.ships))
	copy(ships, r.ships)
	return ships
}

func (r *ShipRegistry) Len() int {
	return len(r.ships)
}

func (r *ShipRegistry) SunkCount() int {
	var sunk int
	for _, ship := range r.ships {
		if ship.IsSunk() {
			sunk++
		}
	}
	return sunk
}
