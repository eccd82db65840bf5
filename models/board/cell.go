package board

import "fmt"

type Cell struct {
	Col int `json:"col" yaml:"col"`
	Row int `json:"row" yaml:"row"`
}

func NewCell(col, row int) Cell {
	return Cell{Col: col, Row: row}
}

func (c Cell) Add(other Cell) Cell {
	return Cell{Col: c.Col + other.Col, Row: c.Row + other.Row}
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Vec2 is a position in world space.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

// Returns the unit step a ship extends along.
func axisStep(horizontal bool) Cell {
	if horizontal {
		return Cell{Col: 1}
	}
	return Cell{Row: 1}
}

// CellsFor returns the cells a ship of the given size covers when its
// first cell is start. Horizontal ships grow along +Col, vertical ones
// along +Row.
func CellsFor(start Cell, size int, horizontal bool) []Cell {
	if size <= 0 {
		return nil
	}

	step := axisStep(horizontal)
	cells := make([]Cell, size)
	cell := start
	for i := 0; i < size; i++ {
		cells[i] = cell
		cell = cell.Add(step)
	}
	return cells
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

// StartCellFromWorld maps the world position of a ship's center to its
// anchor cell. The ship center sits (size-1)/2 cells past the anchor
// along the ship's axis; the cell pitch is taken from the tilemap.
func StartCellFromWorld(tm Tilemap, pos Vec2, size int, horizontal bool) Cell {
	origin := Cell{}
	pitch := tm.CellCenterWorld(origin.Add(axisStep(horizontal))).Sub(tm.CellCenterWorld(origin))

	offset := pitch.Scale(float64(size-1) * 0.5)
	return tm.WorldToCell(pos.Sub(offset))
}
