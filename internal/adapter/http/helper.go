package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-origination/internal/adapter/middleware"
	"loan-origination/internal/domain/auth"
)

// caller returns the identity set by the auth middleware. ok=false means a
// 401 was written.
func caller(c echo.Context) (auth.Identity, bool, error) {
	who, ok := middleware.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, false, c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthenticated"})
	}
	return who, true, nil
}
