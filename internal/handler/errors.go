// Package handler exposes the booking service over HTTP with echo.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-manager/internal/inventory"
	"github.com/iliyamo/flight-seat-manager/internal/notify"
)

// statusFor maps a booking error to an HTTP status.  Malformed
// coordinates are the client's fault; every other seat or state conflict is
// a 409 the client may resolve by choosing differently.
func statusFor(err error) int {
	switch {
	case errors.Is(err, inventory.ErrInvalidRow), errors.Is(err, inventory.ErrInvalidSeat):
		return http.StatusBadRequest
	case errors.Is(err, notify.ErrClosed):
		return http.StatusServiceUnavailable
	}
	switch inventory.KindOf(err) {
	case inventory.KindNotFound:
		return http.StatusNotFound
	case inventory.KindStateConflict, inventory.KindSeatConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error", "code"}.  Unknown errors are logged and
// hidden from the client.
func fail(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("request failed: %v", err)
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error(), "code": inventory.Code(err)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
