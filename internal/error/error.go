package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrShotFailed = "shot operation failed"
)

var (
	ErrInvalidSize     = errors.New("ship size must be greater than zero")
	ErrOutOfBounds     = errors.New("cell is outside of the board")
	ErrCellOccupied    = errors.New("cell is already occupied by a ship")
	ErrInvalidCommit   = errors.New("placement was not validated before commit")
	ErrFleetComplete   = errors.New("all ships are already placed")
	ErrFleetIncomplete = errors.New("not all ships are placed yet")
	ErrPlacementLocked = errors.New("ships are locked; placement phase is over")
	ErrShipNotFound    = errors.New("ship does not exist")
)

func ErrInvalidShipSize(size int) error {
	return fmt.Errorf("%w\tsize: %d", ErrInvalidSize, size)
}

func ErrCellOutOfBounds(col, row int) error {
	return fmt.Errorf("%w\tcol: %d\trow: %d", ErrOutOfBounds, col, row)
}

func ErrCellAlreadyOccupied(col, row int) error {
	return fmt.Errorf("%w\tcol: %d\trow: %d", ErrCellOccupied, col, row)
}

func ErrCommitMismatch(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommit, reason)
}

func ErrShipNotExist(shipId string) error {
	return fmt.Errorf("%w, id: %s", ErrShipNotFound, shipId)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrInvalidShotTarget(target uint8) error {
	return fmt.Errorf("invalid shot target board: %d", target)
}

func ErrInvalidConfig(field, reason string) error {
	return fmt.Errorf("invalid board config field %q: %s", field, reason)
}
