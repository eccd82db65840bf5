package connection

const (
	CodeSessionID uint8 = iota
	CodeReceivedInvalidSessionID

	// Placement phase
	CodeStartCell
	CodeTryPlaceShip
	CodePlaceShip
	CodeLiftShip
	CodeLockShips

	// Combat phase
	CodeShoot
	CodeResetTurn
	CodeBoardState

	// Pushed by the server after the response that caused them
	CodeAllShipsPlaced
	CodeShipSunk
	CodeBonusUnlocked
	CodeFleetDestroyed

	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent
)

// Which board of the session a request is about.
const (
	TargetPlayerBoard uint8 = iota
	TargetBotBoard
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
