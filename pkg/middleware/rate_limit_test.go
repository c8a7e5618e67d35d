package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/config"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/sessions"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/tokens"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/metrics"
)

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2))
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/ok", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, http.StatusOK, w2.Code)
	require.Equal(t, 2.0, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))-before)
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest("GET", "/limited", nil))
	require.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest("GET", "/limited", nil))
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
	require.Equal(t, "1", w2.Header().Get("Retry-After"))

	// 0.5 rps refills one token in 2s
	time.Sleep(2100 * time.Millisecond)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest("GET", "/limited", nil))
	require.Equal(t, http.StatusOK, w3.Code)
}

func TestRateLimitMiddleware_UsesSubjectWhenPresent(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ClaimsKey, &tokens.Claims{UserID: "admin", Role: tokens.RoleAdmin})
		c.Next()
	})
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	rq1 := httptest.NewRequest("GET", "/u", nil)
	rq1.RemoteAddr = "10.0.0.1:1234"
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, rq1)
	require.Equal(t, http.StatusOK, w1.Code)

	// different IP, same subject => rejected
	rq2 := httptest.NewRequest("GET", "/u", nil)
	rq2.RemoteAddr = "10.0.0.2:1234"
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, rq2)
	require.Equal(t, http.StatusTooManyRequests, w2.Code)
}

func TestRateLimitMiddleware_KeysOnVerifiedSessionCookie(t *testing.T) {
	cfg := &config.Config{}
	cfg.JWT.CookieName = "admin-token"
	cookies := sessions.NewCookiePolicy(cfg)
	ver, err := tokens.NewVerifier(gateSecret, nil, nil)
	require.NoError(t, err)

	r := gin.New()
	r.Use(IdentifySession(ver, cookies), RateLimitMiddleware(0.001, 1))
	r.GET("/api/leads", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	send := func(remote, cookie string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
		req.RemoteAddr = remote
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "admin-token", Value: cookie})
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	tok := issue(t, gateSecret, time.Now())
	require.Equal(t, http.StatusOK, send("10.0.0.1:1000", tok))
	// same session from another address shares the bucket
	require.Equal(t, http.StatusTooManyRequests, send("10.0.0.2:1000", tok))
	// an unverifiable cookie falls back to the address
	require.Equal(t, http.StatusOK, send("10.0.0.3:1000", "garbage"))
	require.Equal(t, http.StatusTooManyRequests, send("10.0.0.3:1000", ""))
}
