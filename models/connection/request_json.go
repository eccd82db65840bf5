package connection

import (
	mb "github.com/saeidalz13/battleship-board/models/board"
)

// World position of a dragged ship's center.
type ReqStartCell struct {
	Position     mb.Vec2 `json:"position"`
	Size         int     `json:"size"`
	IsHorizontal bool    `json:"is_horizontal"`
}

type ReqPlaceShip struct {
	Col          int  `json:"col"`
	Row          int  `json:"row"`
	Size         int  `json:"size"`
	IsHorizontal bool `json:"is_horizontal"`
}

type ReqLiftShip struct {
	ShipId string `json:"ship_id"`
}

type ReqShoot struct {
	Target uint8 `json:"target"`
	Col    int   `json:"col"`
	Row    int   `json:"row"`
}

type ReqTarget struct {
	Target uint8 `json:"target"`
}
