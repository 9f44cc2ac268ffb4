package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"loan-origination/internal/domain/auth"
)

const (
	testReqID   = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testSubject = "ana"
)

// asCaller stands in for the Identity middleware.
func asCaller(who auth.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetIdentity(c, who)
			return next(c)
		}
	}
}

func setupEcho(rdb redis.Cmdable, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(asCaller(auth.Identity{Subject: testSubject, Role: auth.RoleApplicant}))
	e.Use(Idempotency(rdb, ttl, nil))
	e.POST("/loans", handler)
	e.GET("/loans", handler)
	return e
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body []byte, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newMiniredisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func validHeaders() map[string]string {
	return map[string]string{
		"Ax-Request-Id": testReqID,
		"Ax-Request-At": time.Now().UTC().Format(time.RFC3339),
	}
}

// countingHandler answers 201 and counts invocations.
func countingHandler(n *int32) echo.HandlerFunc {
	return func(c echo.Context) error {
		atomic.AddInt32(n, 1)
		return c.JSON(http.StatusCreated, map[string]any{"loan_id": "L1"})
	}
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	var n int32
	e := setupEcho(newMiniredisClient(t), 30*time.Second, countingHandler(&n))

	rec := doReq(t, e, http.MethodGet, "/loans", nil, nil)
	if rec.Code != http.StatusCreated || n != 1 {
		t.Fatalf("GET should pass straight through, got %d (calls=%d)", rec.Code, n)
	}
}

func Test_HeaderValidation(t *testing.T) {
	var n int32
	e := setupEcho(newMiniredisClient(t), 30*time.Second, countingHandler(&n))
	now := time.Now().UTC()

	cases := map[string]map[string]string{
		"missing id":   {"Ax-Request-At": now.Format(time.RFC3339)},
		"invalid id":   {"Ax-Request-Id": "NOT-VALID", "Ax-Request-At": now.Format(time.RFC3339)},
		"missing at":   {"Ax-Request-Id": testReqID},
		"invalid at":   {"Ax-Request-Id": testReqID, "Ax-Request-At": "not-a-time"},
		"skewed past":  {"Ax-Request-Id": testReqID, "Ax-Request-At": now.Add(-maxClockSkew - time.Minute).Format(time.RFC3339)},
		"skewed ahead": {"Ax-Request-Id": testReqID, "Ax-Request-At": now.Add(maxClockSkew + time.Minute).Format(time.RFC3339)},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doReq(t, e, http.MethodPost, "/loans", []byte(`{"x":1}`), h)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d", rec.Code)
			}
		})
	}
	if n != 0 {
		t.Fatalf("handler ran %d times for rejected requests", n)
	}
}

func Test_MissingIdentity_Returns401(t *testing.T) {
	e := echo.New()
	e.Use(Idempotency(newMiniredisClient(t), time.Minute, nil))
	e.POST("/loans", func(c echo.Context) error { return c.NoContent(http.StatusCreated) })

	rec := doReq(t, e, http.MethodPost, "/loans", []byte(`{}`), validHeaders())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	var n int32
	e := setupEcho(newMiniredisClient(t), 2*time.Minute, countingHandler(&n))
	h := validHeaders()
	body := []byte(`{"principal":5000}`)

	rec1 := doReq(t, e, http.MethodPost, "/loans", body, h)
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}
	rec2 := doReq(t, e, http.MethodPost, "/loans", body, h)
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get("Ax-Idempotent-Replay") != "true" {
		t.Fatalf("replay not marked")
	}
	if n != 1 {
		t.Fatalf("handler ran %d times, want 1", n)
	}
}

func Test_KeyIsScopedToCaller(t *testing.T) {
	rdb := newMiniredisClient(t)
	var n int32
	handler := countingHandler(&n)

	other := echo.New()
	other.Use(asCaller(auth.Identity{Subject: "bob", Role: auth.RoleApplicant}))
	other.Use(Idempotency(rdb, time.Minute, nil))
	other.POST("/loans", handler)

	e := setupEcho(rdb, time.Minute, handler)
	body := []byte(`{"principal":5000}`)
	doReq(t, e, http.MethodPost, "/loans", body, validHeaders())
	doReq(t, other, http.MethodPost, "/loans", body, validHeaders())

	if n != 2 {
		t.Fatalf("same request id from two callers should both run, ran %d", n)
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	rdb := newMiniredisClient(t)
	var n int32
	e := setupEcho(rdb, 2*time.Minute, countingHandler(&n))
	body := []byte(`{"x":1}`)

	key := buildKey(http.MethodPost, "/loans", testSubject, testReqID)
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash(body), RequestID: testReqID, CreatedAt: nowUTC()}
	if ok, err := provisionalSet(context.Background(), rdb, key, entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/loans", body, validHeaders())
	if rec.Code != http.StatusConflict || n != 0 {
		t.Fatalf("in-progress => want 409 without handler, got %d (calls=%d)", rec.Code, n)
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	var n int32
	e := setupEcho(newMiniredisClient(t), 2*time.Minute, countingHandler(&n))

	if rec := doReq(t, e, http.MethodPost, "/loans", []byte(`{"x":1}`), validHeaders()); rec.Code != http.StatusCreated {
		t.Fatalf("first => want 201, got %d", rec.Code)
	}
	rec := doReq(t, e, http.MethodPost, "/loans", []byte(`{"x":2}`), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same reqID => want 409, got %d", rec.Code)
	}
}

func Test_ServerError_ReleasesKey(t *testing.T) {
	rdb := newMiniredisClient(t)
	var calls int32
	e := setupEcho(rdb, time.Minute, func(c echo.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
		}
		return c.JSON(http.StatusCreated, map[string]string{"loan_id": "L1"})
	})
	body := []byte(`{"x":1}`)

	if rec := doReq(t, e, http.MethodPost, "/loans", body, validHeaders()); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("first => want 503, got %d", rec.Code)
	}
	if rec := doReq(t, e, http.MethodPost, "/loans", body, validHeaders()); rec.Code != http.StatusCreated {
		t.Fatalf("retry after 5xx => want 201, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	var n int32
	e := setupEcho(rdb, time.Minute, countingHandler(&n))

	rec := doReq(t, e, http.MethodPost, "/loans", []byte(`{}`), validHeaders())
	if rec.Code != http.StatusServiceUnavailable || n != 0 {
		t.Fatalf("store unavailable => want 503, got %d (calls=%d)", rec.Code, n)
	}
}
