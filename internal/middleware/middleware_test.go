package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/ratelimit"
	"github.com/iliyamo/room-reservation/internal/utils"
)

func serve(t *testing.T, h echo.HandlerFunc, mw []echo.MiddlewareFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/", h, mw...)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestClientIP(t *testing.T) {
	cases := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded first entry", map[string]string{"X-Forwarded-For": "::ffff:203.0.113.9, 10.0.0.1"}, "10.0.0.1:1234", "203.0.113.9"},
		{"real ip", map[string]string{"X-Real-Ip": "198.51.100.4"}, "10.0.0.1:1234", "198.51.100.4"},
		{"socket", nil, "192.0.2.1:5555", "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remote
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			var got string
			serve(t, func(c echo.Context) error {
				got = booking.ClientIP(c.Request().Context())
				return c.NoContent(http.StatusOK)
			}, []echo.MiddlewareFunc{ClientIP()}, req)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestJWTAuth(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", "user-42", "ADMIN", 5)
	require.NoError(t, err)

	var actor booking.Actor
	h := func(c echo.Context) error {
		actor, _ = booking.ActorFrom(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}
	mw := []echo.MiddlewareFunc{JWTAuth("secret"), RequireRole("ADMIN", "USER")}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := serve(t, h, mw, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, booking.Actor{ID: "user-42", Role: "ADMIN"}, actor)

	rec = serve(t, h, mw, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = serve(t, h, mw, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", "user-1", "GUEST", 5)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := serve(t, func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		[]echo.MiddlewareFunc{JWTAuth("secret"), RequireRole("ADMIN", "USER")}, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewMemory()
	mw := []echo.MiddlewareFunc{ClientIP(), RateLimit(limiter, "login", ratelimit.Rule{Limit: 2, Window: 5 * time.Minute})}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip)
		return serve(t, ok, mw, req)
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
	rec := call("10.0.0.1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = call("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code)
}

func TestCacheEntryRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	entry, err := encodeEntry(http.StatusOK, hdr, []byte(`[{"id":"r1"}]`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodeEntry(entry)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `[{"id":"r1"}]`, string(body))

	_, _, _, ok = decodeEntry(entry[:6])
	assert.False(t, ok)
}

func TestCaptureWriter_Limit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdef", rec.Body.String())
}
