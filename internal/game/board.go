package game

import (
	"encoding/json"
	"fmt"
	"math"
)

// Coord is a single cell position on the cubic board.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// UnmarshalJSON accepts any JSON numbers but rejects fractional values, so a
// client sending (1.5, 0, 0) gets an out-of-bounds rejection rather than a
// silently truncated cell.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var raw struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
		Z float64 `json:"z"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, v := range [3]float64{raw.X, raw.Y, raw.Z} {
		if v != math.Trunc(v) {
			return fmt.Errorf("non-integer coordinate %v: %w", v, ErrOutOfBounds)
		}
	}
	c.X, c.Y, c.Z = int(raw.X), int(raw.Y), int(raw.Z)
	return nil
}

func (c Coord) InBounds(size int) bool {
	return c.X >= 0 && c.X < size &&
		c.Y >= 0 && c.Y < size &&
		c.Z >= 0 && c.Z < size
}

// Board is a dense N*N*N occupancy grid. Each cell holds the name of the
// ship occupying it, or "" when empty.
type Board struct {
	Size  int          `json:"size"`
	Cells [][][]string `json:"cells"`
}

func NewBoard(size int) Board {
	if size <= 0 {
		size = DefaultBoardSize
	}

	cells := make([][][]string, size)
	for x := range cells {
		cells[x] = make([][]string, size)
		for y := range cells[x] {
			cells[x][y] = make([]string, size)
		}
	}

	return Board{
		Size:  size,
		Cells: cells,
	}
}

// At returns the occupying ship name at c, or "" for an empty cell.
func (b Board) At(c Coord) string {
	return b.Cells[c.X][c.Y][c.Z]
}

func (b *Board) place(c Coord, shipName string) {
	b.Cells[c.X][c.Y][c.Z] = shipName
}
