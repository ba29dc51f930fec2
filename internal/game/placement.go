package game

import (
	"fmt"
	"sort"
)

// ShipPlacement is one ship's claimed run of cells on a board.
type ShipPlacement struct {
	Name  string  `json:"name"`
	Cells []Coord `json:"cells"`
}

// ValidateFleet checks a candidate fleet layout against the catalog and the
// board geometry. On success it returns the normalized placements (canonical
// cell ordering, never the client-supplied slices) and the dense occupancy
// board built from them. Checks run in a fixed order: catalog composition,
// per-ship length, bounds, straightness/contiguity, overlap.
func ValidateFleet(size int, fleet []ShipPlacement) ([]ShipPlacement, Board, error) {
	if len(fleet) != len(catalog) {
		return nil, Board{}, ErrFleetComposition
	}
	seen := make(map[string]bool, len(fleet))
	for _, sp := range fleet {
		if _, ok := CatalogLength(sp.Name); !ok {
			return nil, Board{}, fmt.Errorf("%s: %w", sp.Name, ErrFleetComposition)
		}
		if seen[sp.Name] {
			return nil, Board{}, fmt.Errorf("%s: %w", sp.Name, ErrFleetComposition)
		}
		seen[sp.Name] = true
	}

	board := NewBoard(size)
	normalized := make([]ShipPlacement, 0, len(fleet))
	for _, sp := range fleet {
		cells, err := normalizeShip(size, sp)
		if err != nil {
			return nil, Board{}, err
		}
		for _, c := range cells {
			if board.At(c) != "" {
				return nil, Board{}, fmt.Errorf("%s: %w", sp.Name, ErrOverlap)
			}
			board.place(c, sp.Name)
		}
		normalized = append(normalized, ShipPlacement{Name: sp.Name, Cells: cells})
	}
	return normalized, board, nil
}

// normalizeShip validates one ship's geometry and returns its canonical cell
// run, sorted ascending along the varying axis.
func normalizeShip(size int, sp ShipPlacement) ([]Coord, error) {
	length, _ := CatalogLength(sp.Name)
	if len(sp.Cells) != length {
		return nil, fmt.Errorf("%s: %w", sp.Name, ErrShipLength)
	}
	for _, c := range sp.Cells {
		if !c.InBounds(size) {
			return nil, fmt.Errorf("%s: %w", sp.Name, ErrOutOfBounds)
		}
	}
	if len(sp.Cells) == 1 {
		return []Coord{sp.Cells[0]}, nil
	}

	first := sp.Cells[0]
	var varyX, varyY, varyZ bool
	for _, c := range sp.Cells[1:] {
		varyX = varyX || c.X != first.X
		varyY = varyY || c.Y != first.Y
		varyZ = varyZ || c.Z != first.Z
	}
	varying := 0
	for _, v := range []bool{varyX, varyY, varyZ} {
		if v {
			varying++
		}
	}
	if varying != 1 {
		return nil, fmt.Errorf("%s: %w", sp.Name, ErrNotStraight)
	}

	vals := make([]int, len(sp.Cells))
	for i, c := range sp.Cells {
		switch {
		case varyX:
			vals[i] = c.X
		case varyY:
			vals[i] = c.Y
		default:
			vals[i] = c.Z
		}
	}
	sort.Ints(vals)
	for i := 1; i < len(vals); i++ {
		if vals[i] != vals[i-1]+1 {
			return nil, fmt.Errorf("%s: %w", sp.Name, ErrNotContiguous)
		}
	}

	cells := make([]Coord, len(vals))
	for i, v := range vals {
		c := first
		switch {
		case varyX:
			c.X = v
		case varyY:
			c.Y = v
		default:
			c.Z = v
		}
		cells[i] = c
	}
	return cells, nil
}
