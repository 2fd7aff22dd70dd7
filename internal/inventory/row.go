package inventory

import "github.com/iliyamo/flight-seat-manager/internal/model"

// row is one row of seats.  seats[i] holds the passenger occupying column
// 'A'+i, or "" when the seat is free.
type row struct {
	category model.RowCategory
	seats    []string
}

func newRow(category model.RowCategory, size int) row {
	return row{category: category, seats: make([]string, size)}
}

// column converts a column letter into a seat index.
func (r *row) column(col rune) (int, bool) {
	i := int(col - 'A')
	if i < 0 || i >= len(r.seats) {
		return 0, false
	}
	return i, true
}

func (r *row) occupant(i int) string { return r.seats[i] }

func (r *row) occupy(i int, passenger string) { r.seats[i] = passenger }

func (r *row) vacate(i int) { r.seats[i] = "" }

func (r *row) occupied() int {
	n := 0
	for _, p := range r.seats {
		if p != "" {
			n++
		}
	}
	return n
}

// view renders the row for seat maps: the passenger's initial or '*'.
func (r *row) view() string {
	b := make([]rune, len(r.seats))
	for i, p := range r.seats {
		if p == "" {
			b[i] = '*'
			continue
		}
		b[i] = []rune(p)[0]
	}
	return string(b)
}
