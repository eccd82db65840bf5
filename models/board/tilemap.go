package board

import (
	"math"

	"github.com/dolthub/swiss"
)

// Tilemap is the grid/world collaborator the board consults for
// coordinate conversion and tile presence.
type Tilemap interface {
	WorldToCell(pos Vec2) Cell
	CellCenterWorld(cell Cell) Vec2
	HasTile(cell Cell) bool
}

// Bounds is the playable region in world space.
type Bounds interface {
	Contains(pos Vec2) bool
}

// TileGrid is a rectangular-cell tilemap anchored at Origin. Cell (0,0)
// spans [Origin, Origin+CellSize).
type TileGrid struct {
	Origin   Vec2
	CellSize Vec2
	tiles    *swiss.Map[Cell, struct{}]
}

var _ Tilemap = (*TileGrid)(nil)

func NewTileGrid(origin, cellSize Vec2) *TileGrid {
	return &TileGrid{
		Origin:   origin,
		CellSize: cellSize,
		tiles:    swiss.NewMap[Cell, struct{}](64),
	}
}

// NewRectTileGrid creates a grid with a tile on every cell of a
// cols x rows rectangle starting at (0,0).
func NewRectTileGrid(origin, cellSize Vec2, cols, rows int) *TileGrid {
	tg := NewTileGrid(origin, cellSize)
	for col := 0; col < cols; col++ {
		for row := 0; row < rows; row++ {
			tg.SetTile(NewCell(col, row))
		}
	}
	return tg
}

func (tg *TileGrid) SetTile(cell Cell) {
	tg.tiles.Put(cell, struct{}{})
}

func (tg *TileGrid) RemoveTile(cell Cell) {
	tg.tiles.Delete(cell)
}

func (tg *TileGrid) TileCount() int {
	return tg.tiles.Count()
}

func (tg *TileGrid) HasTile(cell Cell) bool {
	return tg.tiles.Has(cell)
}

func (tg *TileGrid) WorldToCell(pos Vec2) Cell {
	local := pos.Sub(tg.Origin)
	return Cell{
		Col: int(math.Floor(local.X / tg.CellSize.X)),
		Row: int(math.Floor(local.Y / tg.CellSize.Y)),
	}
}

func (tg *TileGrid) CellCenterWorld(cell Cell) Vec2 {
	return Vec2{
		X: tg.Origin.X + (float64(cell.Col)+0.5)*tg.CellSize.X,
		Y: tg.Origin.Y + (float64(cell.Row)+0.5)*tg.CellSize.Y,
	}
}

// Rect is an axis aligned box; edges are inside.
type Rect struct {
	Min Vec2 `json:"min" yaml:"min"`
	Max Vec2 `json:"max" yaml:"max"`
}

var _ Bounds = Rect{}

func (r Rect) Contains(pos Vec2) bool {
	return pos.X >= r.Min.X && pos.X <= r.Max.X &&
		pos.Y >= r.Min.Y && pos.Y <= r.Max.Y
}

// IsWithinBounds reports whether a ship may occupy cell: the cell must
// carry a tile and its center must lie inside the bounds.
func IsWithinBounds(tm Tilemap, bounds Bounds, cell Cell) bool {
	if !tm.HasTile(cell) {
		return false
	}
	return bounds.Contains(tm.CellCenterWorld(cell))
}
