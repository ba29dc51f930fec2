package game

// DefaultBoardSize is the edge length of the cubic board.
const DefaultBoardSize = 5

// ShipSpec describes one entry of the fleet catalog.
type ShipSpec struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

var catalog = []ShipSpec{
	{Name: "Carrier", Length: 5},
	{Name: "Battleship", Length: 4},
	{Name: "Cruiser", Length: 3},
	{Name: "Submarine", Length: 3},
	{Name: "Destroyer", Length: 2},
}

// Catalog returns the canonical ship set. The set is fixed for the lifetime
// of the process and identical across all rooms; callers get a copy.
func Catalog() []ShipSpec {
	out := make([]ShipSpec, len(catalog))
	copy(out, catalog)
	return out
}

// CatalogLength returns the catalog length for a ship name. The second
// return is false for names not in the catalog.
func CatalogLength(name string) (int, bool) {
	for _, s := range catalog {
		if s.Name == name {
			return s.Length, true
		}
	}
	return 0, false
}
