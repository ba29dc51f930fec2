package game

// IsSunk reports whether every cell of the ship appears in hits.
func IsSunk(ship ShipPlacement, hits map[Coord]struct{}) bool {
	for _, c := range ship.Cells {
		if _, ok := hits[c]; !ok {
			return false
		}
	}
	return true
}

// AllSunk reports whether hits covers every cell of every ship.
func AllSunk(ships []ShipPlacement, hits map[Coord]struct{}) bool {
	for _, s := range ships {
		if !IsSunk(s, hits) {
			return false
		}
	}
	return true
}
