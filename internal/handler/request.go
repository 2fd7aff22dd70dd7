package handler

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// seatRequest is the body of seat assignment and seat change calls.
type seatRequest struct {
	Row    *int   `json:"row"`
	Column string `json:"column"`
}

func (r seatRequest) coordinates() (int, rune, error) {
	if r.Row == nil {
		return 0, 0, fmt.Errorf("row is required")
	}
	col, err := parseColumn(r.Column)
	return *r.Row, col, err
}

func parseColumn(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("column must be a single letter, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.ToUpper(r), nil
}

// parseSeatLabel splits labels such as "12C" into row and column.
func parseSeatLabel(label string) (int, rune, error) {
	if len(label) < 2 {
		return 0, 0, fmt.Errorf("invalid seat %q", label)
	}
	col, size := utf8.DecodeLastRuneInString(label)
	row, err := strconv.Atoi(label[:len(label)-size])
	if err != nil || !unicode.IsLetter(col) {
		return 0, 0, fmt.Errorf("invalid seat %q", label)
	}
	return row, unicode.ToUpper(col), nil
}

// transferRequest is the body of a flight change.
type transferRequest struct {
	To string `json:"to"`
}
