package board

import (
	"fmt"

	cerr "github.com/saeidalz13/battleship-board/internal/error"
)

const DefaultFleetSize = 3

const (
	PhasePlacement uint8 = iota
	PhaseCombat
)

// Board is one side of a game: the tile grid, its ships and the cells
// they occupy. A Board is owned by a single session and is not safe for
// concurrent use.
type Board struct {
	tilemap   Tilemap
	bounds    Bounds
	fleetSize int
	phase     uint8

	placedShipCount int
	allPlacedFired  bool
	bonusUnlocked   bool

	occupancy *OccupancySet
	registry  *ShipRegistry
	validator *PlacementValidator
	resolver  *HitResolver
	events    *dispatcher
}

type Option func(*Board) error

func WithFleetSize(fleetSize int) Option {
	return func(b *Board) error {
		if fleetSize <= 0 {
			return fmt.Errorf("fleet size must be positive, got: %d", fleetSize)
		}
		b.fleetSize = fleetSize
		return nil
	}
}

func WithListener(l Listener) Option {
	return func(b *Board) error {
		b.events.subscribe(l)
		return nil
	}
}

func NewBoard(tm Tilemap, bounds Bounds, optFuncs ...Option) (*Board, error) {
	b := &Board{
		tilemap:   tm,
		bounds:    bounds,
		fleetSize: DefaultFleetSize,
		phase:     PhasePlacement,
		events:    &dispatcher{},
	}
	for _, opt := range optFuncs {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	b.occupancy = NewOccupancySet(uint32(b.fleetSize * 4))
	b.registry = NewShipRegistry(b.fleetSize)
	b.validator = NewPlacementValidator(b.tilemap, b.bounds, b.occupancy)
	b.resolver = newHitResolver(b.registry, b.occupancy, b.events)

	return b, nil
}

func (b *Board) Subscribe(l Listener) {
	b.events.subscribe(l)
}

func (b *Board) StartCellFromWorld(pos Vec2, size int, horizontal bool) Cell {
	return StartCellFromWorld(b.tilemap, pos, size, horizontal)
}

func (b *Board) CellCenterWorld(cell Cell) Vec2 {
	return b.tilemap.CellCenterWorld(cell)
}

func (b *Board) IsWithinBounds(cell Cell) bool {
	return IsWithinBounds(b.tilemap, b.bounds, cell)
}

// TryPlaceShip reports the cells a ship would take without changing
// anything on the board.
func (b *Board) TryPlaceShip(start Cell, size int, horizontal bool) ([]Cell, error) {
	if b.phase != PhasePlacement {
		return nil, cerr.ErrPlacementLocked
	}
	return b.validator.TryPlace(start, size, horizontal)
}

// CommitPlacement registers a ship on cells previously returned by
// TryPlaceShip. Cells are checked again; a list that would not pass
// validation is rejected with ErrInvalidCommit and nothing changes.
func (b *Board) CommitPlacement(cells []Cell, size int) (*ShipRecord, error) {
	if b.phase != PhasePlacement {
		return nil, cerr.ErrPlacementLocked
	}
	if b.placedShipCount >= b.fleetSize {
		return nil, cerr.ErrFleetComplete
	}
	if err := b.validator.Verify(cells, size); err != nil {
		return nil, err
	}

	ship, err := b.registry.Register(cells)
	if err != nil {
		return nil, err
	}
	b.occupancy.Occupy(ship.cells)
	b.placedShipCount++

	// Lifting and re-placing a ship does not announce the fleet again
	if b.placedShipCount == b.fleetSize && !b.allPlacedFired {
		b.allPlacedFired = true
		b.events.allShipsPlaced()
	}
	return ship, nil
}

func (b *Board) PlaceShip(start Cell, size int, horizontal bool) (*ShipRecord, error) {
	cells, err := b.TryPlaceShip(start, size, horizontal)
	if err != nil {
		return nil, err
	}
	return b.CommitPlacement(cells, size)
}

// LiftShip takes a placed ship off the board so it can be dragged to
// another spot. Only allowed before the ships are locked.
func (b *Board) LiftShip(shipId string) (*ShipRecord, error) {
	if b.phase != PhasePlacement {
		return nil, cerr.ErrPlacementLocked
	}

	ship, err := b.registry.Remove(shipId)
	if err != nil {
		return nil, err
	}
	b.occupancy.Free(ship.cells)
	b.placedShipCount--

	return ship, nil
}

// Lock ends the placement phase.
func (b *Board) Lock() error {
	if b.phase != PhasePlacement {
		return cerr.ErrPlacementLocked
	}
	if b.placedShipCount < b.fleetSize {
		return cerr.ErrFleetIncomplete
	}
	b.phase = PhaseCombat
	return nil
}

func (b *Board) ResolveShot(cell Cell) HitOutcome {
	outcome := b.resolver.ResolveShot(cell)
	if outcome.SankShip() && outcome.DestroyedThisTurn {
		b.bonusUnlocked = true
	}
	return outcome
}

// ResetTurnHits starts a new turn window for every ship.
func (b *Board) ResetTurnHits() {
	b.registry.ResetTurnHits()
}

// ConsumeBonus reports whether a ship of this board was destroyed within
// a single turn since the last call, and clears the flag.
func (b *Board) ConsumeBonus() bool {
	unlocked := b.bonusUnlocked
	b.bonusUnlocked = false
	return unlocked
}

func (b *Board) AllSunk() bool {
	return b.registry.Len() > 0 && b.registry.SunkCount() == b.registry.Len()
}

func (b *Board) ShipAt(cell Cell) *ShipRecord {
	return b.registry.ShipAt(cell)
}

func (b *Board) FindShip(shipId string) (*ShipRecord, error) {
	return b.registry.FindShip(shipId)
}

func (b *Board) Ships() []*ShipRecord {
	return b.registry.Ships()
}

func (b *Board) SunkCount() int {
	return b.registry.SunkCount()
}

func (b *Board) IsOccupied(cell Cell) bool {
	return b.occupancy.Contains(cell)
}

func (b *Board) OccupiedCells() []Cell {
	return b.occupancy.Cells()
}

func (b *Board) PlacedShipCount() int {
	return b.placedShipCount
}

func (b *Board) FleetSize() int {
	return b.fleetSize
}

func (b *Board) Phase() uint8 {
	return b.phase
}
