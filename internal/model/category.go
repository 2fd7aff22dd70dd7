package model

import (
	"fmt"
	"strings"
)

// RowCategory is the seating class of a row.  Categories are ranked by
// their numeric value: Business (0) is the most premium class and
// Economy (2) the most basic.  The rank is used both to decide whether a
// ticket may occupy a row and to scan toward more premium classes.
type RowCategory int

const (
	Business RowCategory = iota
	PremiumEconomy
	Economy
)

// Categories lists every category in rank order, business first.
var Categories = []RowCategory{Business, PremiumEconomy, Economy}

// Rank returns the rank index of the category.
func (c RowCategory) Rank() int { return int(c) }

// Valid reports whether c is one of the known categories.
func (c RowCategory) Valid() bool { return c >= Business && c <= Economy }

// Allows reports whether a ticket purchased in category c may occupy a
// row of category row.  Passengers may sit in their class or a more
// premium one, never a more basic one.
func (c RowCategory) Allows(row RowCategory) bool { return row.Rank() <= c.Rank() }

func (c RowCategory) String() string {
	switch c {
	case Business:
		return "BUSINESS"
	case PremiumEconomy:
		return "PREMIUM_ECONOMY"
	case Economy:
		return "ECONOMY"
	}
	return fmt.Sprintf("RowCategory(%d)", int(c))
}

// ParseRowCategory converts the textual form (case insensitive) back into a
// RowCategory.
func ParseRowCategory(s string) (RowCategory, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUSINESS":
		return Business, nil
	case "PREMIUM_ECONOMY", "PREMIUM-ECONOMY", "PREMIUM":
		return PremiumEconomy, nil
	case "ECONOMY":
		return Economy, nil
	}
	return 0, fmt.Errorf("unknown row category %q", s)
}

// MarshalText encodes the category by name so JSON maps and fields read
// BUSINESS rather than 0.
func (c RowCategory) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid row category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (c *RowCategory) UnmarshalText(b []byte) error {
	v, err := ParseRowCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
