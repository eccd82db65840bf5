package layout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	mb "github.com/saeidalz13/battleship-board/models/board"
)

// ShipPlacement is one authored ship of a bot fleet. RotatedAngle is
// only used by the client to draw the sprite.
type ShipPlacement struct {
	CellPosition mb.Cell `yaml:"cellPosition" json:"cell_position"`
	RotatedAngle float64 `yaml:"rotatedAngle" json:"rotated_angle"`
	Size         int     `yaml:"size" json:"size"`
	IsHorizontal bool    `yaml:"isHorizontal" json:"is_horizontal"`
}

// BotShipPlacement is an authored fleet layout for the bot side.
type BotShipPlacement struct {
	Ships []ShipPlacement `yaml:"ships" json:"ships"`
}

func Load(path string) (*BotShipPlacement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot layout: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*BotShipPlacement, error) {
	var placement BotShipPlacement
	if err := yaml.Unmarshal(data, &placement); err != nil {
		return nil, fmt.Errorf("failed to parse bot layout: %w", err)
	}

	for i, ship := range placement.Ships {
		if ship.Size <= 0 {
			return nil, fmt.Errorf("bot layout ship %d: size must be positive, got: %d", i, ship.Size)
		}
	}
	return &placement, nil
}

// Apply places every ship of the layout on b in order and locks the
// board. The first ship that does not fit aborts with its index; ships
// placed before it stay on the board.
func (p *BotShipPlacement) Apply(b *mb.Board) ([]*mb.ShipRecord, error) {
	ships := make([]*mb.ShipRecord, 0, len(p.Ships))

	for i, s := range p.Ships {
		ship, err := b.PlaceShip(s.CellPosition, s.Size, s.IsHorizontal)
		if err != nil {
			return ships, fmt.Errorf("bot layout ship %d at %v: %w", i, s.CellPosition, err)
		}
		ships = append(ships, ship)
	}

	if err := b.Lock(); err != nil {
		return ships, fmt.Errorf("bot layout: %w", err)
	}
	return ships, nil
}

// Default is used when no layout file is configured.
func Default() *BotShipPlacement {
	return &BotShipPlacement{
		Ships: []ShipPlacement{
			{CellPosition: mb.NewCell(0, 0), Size: 3, IsHorizontal: true},
			{CellPosition: mb.NewCell(4, 1), RotatedAngle: 90, Size: 3, IsHorizontal: false},
			{CellPosition: mb.NewCell(1, 4), Size: 2, IsHorizontal: true},
		},
	}
}
