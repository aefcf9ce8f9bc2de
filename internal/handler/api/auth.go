package api

import (
	"github.com/labstack/echo/v4"
)

// HeaderUserID carries the authenticated user id. Authentication itself
// happens at the edge proxy; this service trusts the header.
const HeaderUserID = "X-User-ID"

// userID extracts the caller's user id, empty when unauthenticated.
func userID(c echo.Context) string {
	return c.Request().Header.Get(HeaderUserID)
}
