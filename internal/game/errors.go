package game

import "errors"

// Placement validation failures, one per rejection reason. Callers match
// with errors.Is; ship-specific context is wrapped around these.
var (
	ErrFleetComposition = errors.New("fleet must contain exactly one of each catalog ship")
	ErrShipLength       = errors.New("ship cell count does not match catalog length")
	ErrOutOfBounds      = errors.New("coordinate out of bounds")
	ErrNotStraight      = errors.New("ship cells are not colinear along a single axis")
	ErrNotContiguous    = errors.New("ship cells are not consecutive along its axis")
	ErrOverlap          = errors.New("ship overlaps another ship")
)
