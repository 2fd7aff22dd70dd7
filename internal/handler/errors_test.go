package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/flight-seat-manager/internal/inventory"
	"github.com/iliyamo/flight-seat-manager/internal/notify"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{inventory.ErrFlightNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", inventory.ErrTicketNotFound), http.StatusNotFound},
		{inventory.ErrFlightConfirmed, http.StatusConflict},
		{inventory.ErrSameFlight, http.StatusConflict},
		{&inventory.SeatError{Err: inventory.ErrSeatTaken, Row: 1, Column: 'A'}, http.StatusConflict},
		{&inventory.SeatError{Err: inventory.ErrInvalidRow, Row: 99}, http.StatusBadRequest},
		{inventory.ErrInvalidSeat, http.StatusBadRequest},
		{inventory.ErrNoAvailableSeats, http.StatusConflict},
		{notify.ErrClosed, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.err.Error(), func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func TestParseSeatLabel(t *testing.T) {
	tests := []struct {
		in      string
		row     int
		col     rune
		wantErr bool
	}{
		{in: "0A", row: 0, col: 'A'},
		{in: "12c", row: 12, col: 'C'},
		{in: "A", wantErr: true},
		{in: "12", wantErr: true},
		{in: "xA", wantErr: true},
		{in: "-1A", row: -1, col: 'A'},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			row, col, err := parseSeatLabel(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.row, row)
			assert.Equal(t, tc.col, col)
		})
	}
}

func TestSeatRequestCoordinates(t *testing.T) {
	three := 3
	row, col, err := seatRequest{Row: &three, Column: "b"}.coordinates()
	require.NoError(t, err)
	assert.Equal(t, 3, row)
	assert.Equal(t, 'B', col)

	_, _, err = seatRequest{Column: "B"}.coordinates()
	assert.Error(t, err)
	_, _, err = seatRequest{Row: &three, Column: "BC"}.coordinates()
	assert.Error(t, err)
}
