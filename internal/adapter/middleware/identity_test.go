package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"loan-origination/internal/domain/auth"
)

var testSecret = []byte("test-secret")

func identityEcho() *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		who, ok := IdentityFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]string{"sub": who.Subject, "role": string(who.Role)})
	}, Identity(testSecret))
	return e
}

func callMe(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIdentity_ValidToken(t *testing.T) {
	tok, err := SignToken(testSecret, auth.Identity{Subject: "officer-1", Role: auth.RoleStaff})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := callMe(identityEcho(), "Bearer "+tok)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	var got map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got["sub"] != "officer-1" || got["role"] != "staff" {
		t.Fatalf("identity = %v", got)
	}
}

func TestIdentity_Rejections(t *testing.T) {
	mustSign := func(secret []byte, who auth.Identity) string {
		tok, err := SignToken(secret, who)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return tok
	}
	wrongKey := mustSign([]byte("other"), auth.Identity{Subject: "x", Role: auth.RoleStaff})
	badRole := mustSign(testSecret, auth.Identity{Subject: "x", Role: "admin"})
	noSubject := mustSign(testSecret, auth.Identity{Role: auth.RoleApplicant})
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{
		Role:             "staff",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "x"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage":        "Bearer not.a.jwt",
		"wrong key":      "Bearer " + wrongKey,
		"unknown role":   "Bearer " + badRole,
		"no subject":     "Bearer " + noSubject,
		"alg none":       "Bearer " + unsigned,
	}
	e := identityEcho()
	for name, authz := range cases {
		t.Run(name, func(t *testing.T) {
			if code := callMe(e, authz).Code; code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", code)
			}
		})
	}
}
