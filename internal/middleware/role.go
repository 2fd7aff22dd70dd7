package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Roles carried in the "role" claim.
const (
	RolePassenger = "PASSENGER"
	RoleAgent     = "AGENT"
	RoleAdmin     = "ADMIN"
)

// RequireRole rejects requests whose role is not one of roles with 403.
// It runs after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !allowed[Role(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireSelf lets passengers act only on their own bookings: the path
// parameter param must equal the token subject.  Agents and admins may act
// for anyone.
func RequireSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch Role(c) {
			case RoleAgent, RoleAdmin:
				return next(c)
			}
			if UserID(c) == "" || UserID(c) != c.Param(param) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "passengers may only act on their own booking"})
			}
			return next(c)
		}
	}
}
