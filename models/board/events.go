package board

// Listener receives board notifications. They are delivered
// synchronously, after the state change that caused them.
type Listener interface {
	OnAllShipsPlaced()
	OnShipSunk(ship *ShipRecord)
	OnBonusUnlocked()
}

// ListenerFuncs adapts plain functions to Listener; nil fields are skipped.
type ListenerFuncs struct {
	AllShipsPlaced func()
	ShipSunk       func(ship *ShipRecord)
	BonusUnlocked  func()
}

var _ Listener = ListenerFuncs{}

func (l ListenerFuncs) OnAllShipsPlaced() {
	if l.AllShipsPlaced != nil {
		l.AllShipsPlaced()
	}
}

func (l ListenerFuncs) OnShipSunk(ship *ShipRecord) {
	if l.ShipSunk != nil {
		l.ShipSunk(ship)
	}
}

func (l ListenerFuncs) OnBonusUnlocked() {
	if l.BonusUnlocked != nil {
		l.BonusUnlocked()
	}
}

type dispatcher struct {
	listeners []Listener
}

func (d *dispatcher) subscribe(l Listener) {
	d.listeners = append(d.listeners, l)
}

func (d *dispatcher) allShipsPlaced() {
	for _, l := range d.listeners {
		l.OnAllShipsPlaced()
	}
}

func (d *dispatcher) shipSunk(ship *ShipRecord) {
	for _, l := range d.listeners {
		l.OnShipSunk(ship)
	}
}

func (d *dispatcher) bonusUnlocked() {
	for _, l := range d.listeners {
		l.OnBonusUnlocked()
	}
}
