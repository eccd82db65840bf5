package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	cerr "github.com/saeidalz13/battleship-board/internal/error"
	mb "github.com/saeidalz13/battleship-board/models/board"
)

// BoardConfig describes the playable grid of one side.
//
// File location: data/board.yaml
type BoardConfig struct {
	Origin   mb.Vec2 `yaml:"origin"`
	CellSize mb.Vec2 `yaml:"cellSize"`
	Columns  int     `yaml:"columns"`
	Rows     int     `yaml:"rows"`

	// Cells inside the rectangle that carry no tile.
	Holes []mb.Cell `yaml:"holes"`

	// Playable region in world space. Defaults to the tile rectangle.
	Bounds *mb.Rect `yaml:"bounds"`

	FleetSize int `yaml:"fleetSize"`
}

func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		CellSize:  mb.Vec2{X: 1, Y: 1},
		Columns:   6,
		Rows:      6,
		FleetSize: mb.DefaultFleetSize,
	}
}

func LoadBoardConfig(path string) (*BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board config: %w", err)
	}
	return ParseBoardConfig(data)
}

func ParseBoardConfig(data []byte) (*BoardConfig, error) {
	config := DefaultBoardConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse board config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board config: %w", err)
	}
	return &config, nil
}

func (c *BoardConfig) Validate() error {
	if c.CellSize.X <= 0 || c.CellSize.Y <= 0 {
		return cerr.ErrInvalidConfig("cellSize", "must be positive on both axes")
	}
	if c.Columns <= 0 || c.Rows <= 0 {
		return cerr.ErrInvalidConfig("columns/rows", "must be positive")
	}
	if c.FleetSize <= 0 {
		return cerr.ErrInvalidConfig("fleetSize", "must be positive")
	}
	if c.Bounds != nil && (c.Bounds.Min.X > c.Bounds.Max.X || c.Bounds.Min.Y > c.Bounds.Max.Y) {
		return cerr.ErrInvalidConfig("bounds", "min must not exceed max")
	}
	for _, h := range c.Holes {
		if h.Col < 0 || h.Col >= c.Columns || h.Row < 0 || h.Row >= c.Rows {
			return cerr.ErrInvalidConfig("holes", fmt.Sprintf("hole %v is outside the grid", h))
		}
	}
	return nil
}

func (c *BoardConfig) TileGrid() *mb.TileGrid {
	tg := mb.NewRectTileGrid(c.Origin, c.CellSize, c.Columns, c.Rows)
	for _, h := range c.Holes {
		tg.RemoveTile(h)
	}
	return tg
}

func (c *BoardConfig) Rect() mb.Rect {
	if c.Bounds != nil {
		return *c.Bounds
	}
	return mb.Rect{
		Min: c.Origin,
		Max: mb.Vec2{
			X: c.Origin.X + float64(c.Columns)*c.CellSize.X,
			Y: c.Origin.Y + float64(c.Rows)*c.CellSize.Y,
		},
	}
}

// NewBoard builds a fresh board from the config. Every call returns an
// independent board.
func (c *BoardConfig) NewBoard(opts ...mb.Option) (*mb.Board, error) {
	opts = append([]mb.Option{mb.WithFleetSize(c.FleetSize)}, opts...)
	return mb.NewBoard(c.TileGrid(), c.Rect(), opts...)
}
