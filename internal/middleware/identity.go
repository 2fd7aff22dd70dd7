package middleware

import "github.com/labstack/echo/v4"

// UserID returns the authenticated subject, or "" before JWTAuth ran.
func UserID(c echo.Context) string {
	s, _ := c.Get(ctxUserID).(string)
	return s
}

// Role returns the authenticated role, or "".
func Role(c echo.Context) string {
	s, _ := c.Get(ctxRole).(string)
	return s
}

// rateSubject names the caller for rate limiting: the subject, or "anon".
func rateSubject(c echo.Context) string {
	if s := UserID(c); s != "" {
		return s
	}
	return "anon"
}
