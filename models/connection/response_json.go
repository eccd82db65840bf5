package connection

import (
	mb "github.com/saeidalz13/battleship-board/models/board"
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespStartCell struct {
	Cell mb.Cell `json:"cell"`
}

type RespTryPlaceShip struct {
	Cells []mb.Cell `json:"cells"`

	// World centers of Cells, for drawing highlights
	Centers []mb.Vec2 `json:"centers"`
}

type ShipView struct {
	Id       string    `json:"id"`
	Size     int       `json:"size"`
	State    uint8     `json:"state"`
	Cells    []mb.Cell `json:"cells,omitempty"`
	HitCells []mb.Cell `json:"hit_cells,omitempty"`
}

func NewShipView(ship *mb.ShipRecord) ShipView {
	return ShipView{
		Id:       ship.Id(),
		Size:     ship.Size(),
		State:    ship.State(),
		Cells:    ship.Cells(),
		HitCells: ship.HitCells(),
	}
}

// Hidden ships only reveal their hit cells.
func NewHiddenShipView(ship *mb.ShipRecord) ShipView {
	if ship.IsSunk() {
		return NewShipView(ship)
	}
	return ShipView{
		Id:       ship.Id(),
		State:    ship.State(),
		HitCells: ship.HitCells(),
	}
}

type RespPlaceShip struct {
	Ship            ShipView `json:"ship"`
	PlacedShipCount int      `json:"placed_ship_count"`
	FleetSize       int      `json:"fleet_size"`
}

type RespLockShips struct {
	Phase uint8 `json:"phase"`
}

type RespShot struct {
	Target        uint8   `json:"target"`
	Cell          mb.Cell `json:"cell"`
	Result        uint8   `json:"result"`
	Repeated      bool    `json:"repeated"`
	ShipId        string  `json:"ship_id,omitempty"`
	SunkenShips   int     `json:"sunken_ships"`
	BonusUnlocked bool    `json:"bonus_unlocked"`
}

type RespBoardState struct {
	Target          uint8      `json:"target"`
	Phase           uint8      `json:"phase"`
	FleetSize       int        `json:"fleet_size"`
	PlacedShipCount int        `json:"placed_ship_count"`
	SunkenShips     int        `json:"sunken_ships"`
	Ships           []ShipView `json:"ships"`
	OccupiedCells   []mb.Cell  `json:"occupied_cells,omitempty"`
}

type RespBoardEvent struct {
	Target uint8     `json:"target"`
	Ship   *ShipView `json:"ship,omitempty"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
