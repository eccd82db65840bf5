package board

type HitResolver struct {
	registry  *ShipRegistry
	occupancy *OccupancySet
	events    *dispatcher
}

func newHitResolver(registry *ShipRegistry, occupancy *OccupancySet, events *dispatcher) *HitResolver {
	return &HitResolver{
		registry:  registry,
		occupancy: occupancy,
		events:    events,
	}
}

// ResolveShot applies a shot at cell. A cell with no ship is a miss and
// leaves the board untouched.
func (hr *HitResolver) ResolveShot(cell Cell) HitOutcome {
	ship := hr.registry.ShipAt(cell)
	if ship == nil {
		return HitOutcome{Cell: cell}
	}

	outcome := hr.registry.RegisterHit(ship, cell)
	hr.occupancy.Free([]Cell{cell})

	if outcome.SankShip() {
		hr.events.shipSunk(ship)
		if outcome.DestroyedThisTurn {
			hr.events.bonusUnlocked()
		}
	}
	return outcome
}
