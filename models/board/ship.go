package board

import "github.com/google/uuid"

const (
	ShipStatePlaced uint8 = iota
	ShipStatePartiallyHit
	ShipStateSunk
)

type ShipRecord struct {
	id           string
	cells        []Cell
	hitCells     map[Cell]struct{}
	hitsThisTurn int
}

func newShipRecord(cells []Cell) *ShipRecord {
	owned := make([]Cell, len(cells))
	copy(owned, cells)

	return &ShipRecord{
		id:       uuid.NewString()[:8],
		cells:    owned,
		hitCells: make(map[Cell]struct{}, len(cells)),
	}
}

func (s *ShipRecord) Id() string {
	return s.id
}

func (s *ShipRecord) Size() int {
	return len(s.cells)
}

// Cells returns a copy of the cells in placement order.
func (s *ShipRecord) Cells() []Cell {
	cells := make([]Cell, len(s.cells))
	copy(cells, s.cells)
	return cells
}

func (s *ShipRecord) Contains(cell Cell) bool {
	for _, c := range s.cells {
		if c == cell {
			return true
		}
	}
	return false
}

func (s *ShipRecord) IsHitAt(cell Cell) bool {
	_, prs := s.hitCells[cell]
	return prs
}

// HitCells returns the hit cells in placement order.
func (s *ShipRecord) HitCells() []Cell {
	hit := make([]Cell, 0, len(s.hitCells))
	for _, c := range s.cells {
		if s.IsHitAt(c) {
			hit = append(hit, c)
		}
	}
	return hit
}

func (s *ShipRecord) Hits() int {
	return len(s.hitCells)
}

func (s *ShipRecord) HitsThisTurn() int {
	return s.hitsThisTurn
}

func (s *ShipRecord) IsSunk() bool {
	return len(s.hitCells) == len(s.cells)
}

func (s *ShipRecord) State() uint8 {
	switch {
	case s.IsSunk():
		return ShipStateSunk
	case len(s.hitCells) > 0:
		return ShipStatePartiallyHit
	default:
		return ShipStatePlaced
	}
}

// Every cell of the ship went down between two turn resets.
func (s *ShipRecord) wasDestroyedInATurn() bool {
	return s.IsSunk() && s.hitsThisTurn == len(s.cells)
}

func (s *ShipRecord) resetTurnHits() {
	s.hitsThisTurn = 0
}
