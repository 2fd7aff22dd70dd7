package model

import "fmt"

// CategoryLayout is the shape of one category's block of rows.
type CategoryLayout struct {
	Rows        int `json:"rows"`
	SeatsPerRow int `json:"seats_per_row"`
}

// Layout describes a plane model: for each category, how many rows and how
// many seats per row.  Missing categories have no rows.  Rows are laid out
// business first, then premium economy, then economy.
type Layout struct {
	Name       string                         `json:"name"`
	Categories map[RowCategory]CategoryLayout `json:"categories"`
}

// MaxSeatsPerRow bounds the column letters to A..Z.
const MaxSeatsPerRow = 26

// Validate checks that every category has non negative dimensions, that
// rows fit into column letters A..Z and that the plane has at least one seat.
func (l Layout) Validate() error {
	seats := 0
	for c, cl := range l.Categories {
		if !c.Valid() {
			return fmt.Errorf("layout %q: invalid category %d", l.Name, int(c))
		}
		if cl.Rows < 0 || cl.SeatsPerRow < 0 {
			return fmt.Errorf("layout %q: negative dimensions for %s", l.Name, c)
		}
		if cl.SeatsPerRow > MaxSeatsPerRow {
			return fmt.Errorf("layout %q: %s has %d seats per row, max %d", l.Name, c, cl.SeatsPerRow, MaxSeatsPerRow)
		}
		seats += cl.Rows * cl.SeatsPerRow
	}
	if seats == 0 {
		return fmt.Errorf("layout %q: no seats", l.Name)
	}
	return nil
}
