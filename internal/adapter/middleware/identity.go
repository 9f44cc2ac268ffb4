package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"loan-origination/internal/domain/auth"
)

const identityKey = "identity"

// TokenClaims is what the identity provider puts in a bearer token.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Identity verifies an HS256 bearer token and stores the caller's
// auth.Identity on the echo context.
func Identity(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	keyFn := func(*jwt.Token) (any, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}

			var claims TokenClaims
			if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, keyFn); err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid bearer token"})
			}
			who := auth.Identity{Subject: claims.Subject, Role: auth.Role(claims.Role)}
			if !who.Valid() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token lacks subject or role"})
			}

			SetIdentity(c, who)
			return next(c)
		}
	}
}

func SetIdentity(c echo.Context, who auth.Identity) { c.Set(identityKey, who) }

// IdentityFrom returns the caller set by Identity.
func IdentityFrom(c echo.Context) (auth.Identity, bool) {
	who, ok := c.Get(identityKey).(auth.Identity)
	return who, ok
}

// SignToken mints a token the Identity middleware accepts. Used by tests and
// local tooling; production tokens come from the identity provider.
func SignToken(secret []byte, who auth.Identity) (string, error) {
	claims := TokenClaims{
		Role:             string(who.Role),
		RegisteredClaims: jwt.RegisteredClaims{Subject: who.Subject},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
