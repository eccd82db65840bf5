package board

import (
	"sort"

	"github.com/dolthub/swiss"
)

// OccupancySet holds the cells currently claimed by a ship. Cells hit
// during combat are freed and no longer block anything.
type OccupancySet struct {
	cells *swiss.Map[Cell, struct{}]
}

func NewOccupancySet(sizeHint uint32) *OccupancySet {
	return &OccupancySet{cells: swiss.NewMap[Cell, struct{}](sizeHint)}
}

func (o *OccupancySet) Contains(cell Cell) bool {
	return o.cells.Has(cell)
}

// Occupy claims every cell. Callers validate disjointness beforehand.
func (o *OccupancySet) Occupy(cells []Cell) {
	for _, cell := range cells {
		o.cells.Put(cell, struct{}{})
	}
}

func (o *OccupancySet) Free(cells []Cell) {
	for _, cell := range cells {
		o.cells.Delete(cell)
	}
}

func (o *OccupancySet) Len() int {
	return o.cells.Count()
}

// Cells returns the occupied cells ordered by row, then column.
func (o *OccupancySet) Cells() []Cell {
	cells := make([]Cell, 0, o.cells.Count())
	o.cells.Iter(func(c Cell, _ struct{}) bool {
		cells = append(cells, c)
		return false
	})

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}
