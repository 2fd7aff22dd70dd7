package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-manager/internal/config"
	"github.com/iliyamo/flight-seat-manager/internal/model"
	"github.com/iliyamo/flight-seat-manager/internal/notify"
	"github.com/iliyamo/flight-seat-manager/internal/service"
)

// FlightHandler serves the /v1/flights routes.
type FlightHandler struct {
	svc *service.BookingService
	// relay is registered on behalf of remote passengers; it forwards
	// their notifications to the configured broker.
	relay     notify.Handler
	relayName string
}

// NewFlightHandler wires the booking service and the notification relay
// used by the subscription endpoint.
func NewFlightHandler(svc *service.BookingService, relay notify.Handler, relayName string) *FlightHandler {
	if svc == nil || relay == nil {
		panic("nil dependency passed to NewFlightHandler")
	}
	return &FlightHandler{svc: svc, relay: relay, relayName: relayName}
}

// ListFlights handles GET /v1/flights?state=PENDING|CONFIRMED.
func (h *FlightHandler) ListFlights(c echo.Context) error {
	state := model.StatePending
	if s := c.QueryParam("state"); s != "" {
		var err error
		if state, err = model.ParseFlightState(s); err != nil {
			return badRequest(c, err.Error())
		}
	}
	flights, err := h.svc.Flights(c.Request().Context(), state)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": flights})
}

// GetFlight handles GET /v1/flights/:code.
func (h *FlightHandler) GetFlight(c echo.Context) error {
	sum, err := h.svc.Flight(c.Request().Context(), c.Param("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

// SeatMap handles GET /v1/flights/:code/seats.
func (h *FlightHandler) SeatMap(c echo.Context) error {
	rows, err := h.svc.SeatMap(c.Request().Context(), c.Param("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flight": c.Param("code"), "rows": rows})
}

// SeatAvailability handles GET /v1/flights/:code/seats/:seat where seat is
// a label such as 12C.
func (h *FlightHandler) SeatAvailability(c echo.Context) error {
	row, col, err := parseSeatLabel(c.Param("seat"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	free, err := h.svc.IsAvailable(c.Request().Context(), c.Param("code"), row, col)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flight": c.Param("code"), "row": row, "column": string(col), "available": free})
}

func (h *FlightHandler) bindSeat(c echo.Context) (int, rune, error) {
	var req seatRequest
	if err := c.Bind(&req); err != nil {
		return 0, 0, err
	}
	return req.coordinates()
}

// AssignSeat handles POST /v1/flights/:code/passengers/:passenger/seat.
func (h *FlightHandler) AssignSeat(c echo.Context) error {
	row, col, err := h.bindSeat(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	code, passenger := c.Param("code"), c.Param("passenger")
	if err := h.svc.Assign(c.Request().Context(), code, passenger, row, col); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"flight": code, "passenger": passenger, "row": row, "column": string(col)})
}

// ChangeSeat handles PUT /v1/flights/:code/passengers/:passenger/seat.
func (h *FlightHandler) ChangeSeat(c echo.Context) error {
	row, col, err := h.bindSeat(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	code, passenger := c.Param("code"), c.Param("passenger")
	if err := h.svc.ChangeSeat(c.Request().Context(), code, passenger, row, col); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flight": code, "passenger": passenger, "row": row, "column": string(col)})
}

// Alternatives handles GET /v1/flights/:code/passengers/:passenger/alternatives.
func (h *FlightHandler) Alternatives(c echo.Context) error {
	alts, err := h.svc.ListAlternativeFlights(c.Request().Context(), c.Param("code"), c.Param("passenger"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"alternatives": alts})
}

// ChangeFlight handles POST /v1/flights/:code/passengers/:passenger/transfer
// with body {"to": "<code>"}.
func (h *FlightHandler) ChangeFlight(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err.Error())
	}
	req.To = strings.TrimSpace(req.To)
	if req.To == "" {
		return badRequest(c, "target flight is required")
	}
	from, passenger := c.Param("code"), c.Param("passenger")
	if err := h.svc.ChangeFlight(c.Request().Context(), passenger, from, req.To); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"passenger": passenger, "from": from, "to": req.To})
}

// Subscribe handles POST /v1/flights/:code/passengers/:passenger/subscriptions.
// It registers the broker relay for the passenger; the response names the
// relay so the client knows where to listen.
func (h *FlightHandler) Subscribe(c echo.Context) error {
	code, passenger := c.Param("code"), c.Param("passenger")
	if err := h.svc.RegisterNotifications(c.Request().Context(), code, passenger, h.relay); err != nil {
		return fail(c, err)
	}
	resp := echo.Map{"flight": code, "passenger": passenger, "sink": h.relayName}
	if h.relayName == config.SinkRedis {
		resp["channel"] = notify.RedisChannel(code, passenger)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Confirm handles POST /v1/flights/:code/confirm.  Admin only.
func (h *FlightHandler) Confirm(c echo.Context) error {
	code := c.Param("code")
	if err := h.svc.ConfirmFlight(c.Request().Context(), code); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"flight": code, "state": model.StateConfirmed})
}
