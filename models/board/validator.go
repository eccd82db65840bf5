package board

import (
	cerr "github.com/saeidalz13/battleship-board/internal/error"
)

type PlacementValidator struct {
	tilemap   Tilemap
	bounds    Bounds
	occupancy *OccupancySet
}

func NewPlacementValidator(tm Tilemap, bounds Bounds, occupancy *OccupancySet) *PlacementValidator {
	return &PlacementValidator{
		tilemap:   tm,
		bounds:    bounds,
		occupancy: occupancy,
	}
}

// TryPlace returns the cells a ship would cover, or the reason of the
// first cell that fails. It never mutates the board.
func (pv *PlacementValidator) TryPlace(start Cell, size int, horizontal bool) ([]Cell, error) {
	if size <= 0 {
		return nil, cerr.ErrInvalidShipSize(size)
	}

	cells := CellsFor(start, size, horizontal)
	for _, cell := range cells {
		if err := pv.checkCell(cell); err != nil {
			return nil, err
		}
	}
	return cells, nil
}

func (pv *PlacementValidator) checkCell(cell Cell) error {
	if !IsWithinBounds(pv.tilemap, pv.bounds, cell) {
		return cerr.ErrCellOutOfBounds(cell.Col, cell.Row)
	}
	if pv.occupancy.Contains(cell) {
		return cerr.ErrCellAlreadyOccupied(cell.Col, cell.Row)
	}
	return nil
}

// Verify checks that cells is exactly what TryPlace would return for a
// ship of size. Used to guard commits.
func (pv *PlacementValidator) Verify(cells []Cell, size int) error {
	if size <= 0 {
		return cerr.ErrInvalidShipSize(size)
	}
	if len(cells) != size {
		return cerr.ErrCommitMismatch("cell count does not match ship size")
	}

	horizontal := size == 1 || cells[1].Row == cells[0].Row
	expected := CellsFor(cells[0], size, horizontal)
	for i := range expected {
		if cells[i] != expected[i] {
			return cerr.ErrCommitMismatch("cells are not a straight contiguous line")
		}
	}

	for _, cell := range cells {
		if err := pv.checkCell(cell); err != nil {
			return cerr.ErrCommitMismatch(err.Error())
		}
	}
	return nil
}
