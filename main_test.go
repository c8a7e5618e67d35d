package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/config"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/mailer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<div id=app></div>"), 0o644))
	return &config.Config{
		Server: config.ServerConfig{Environment: "development", FrontendDir: dir},
		Admin:  config.AdminConfig{Username: "admin", Password: "secret123"},
		JWT: config.JWTConfig{
			Secret:       "test-secret-for-the-session-gate",
			TokenTTL:     2 * time.Hour,
			CookieName:   "admin-token",
			CookieMaxAge: 24 * time.Hour,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	b := &backends{mail: mailer.LogSender{}}
	b.buildServices(cfg)
	r, err := buildRouter(cfg, b)
	require.NoError(t, err)
	return r
}

func serve(r http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "admin-token" {
			return c
		}
	}
	t.Fatalf("no admin-token cookie in %v", w.Header().Values("Set-Cookie"))
	return nil
}

func TestAdminFlow(t *testing.T) {
	r := newTestRouter(t, testConfig(t))

	w := serve(r, http.MethodGet, "/admin/listings", "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = serve(r, http.MethodGet, "/admin/login", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"success":false,"error":"Invalid username or password"}`, w.Body.String())
	require.Empty(t, w.Header().Values("Set-Cookie"))

	w = serve(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true,"redirectUrl":"/admin"}`, w.Body.String())
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 86400, cookie.MaxAge)

	w = serve(r, http.MethodGet, "/admin/listings", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "id=app")

	w = serve(r, http.MethodGet, "/admin/login", "", cookie)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin", w.Header().Get("Location"))

	w = serve(r, http.MethodGet, "/api/auth/session", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"authenticated":true`)

	w = serve(r, http.MethodPost, "/api/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestTamperedCookieIsClearedOnRedirect(t *testing.T) {
	r := newTestRouter(t, testConfig(t))

	w := serve(r, http.MethodGet, "/admin", "", &http.Cookie{Name: "admin-token", Value: "not.a.token"})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/login", w.Header().Get("Location"))
	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
}

func TestAdminAPIsRequireSession(t *testing.T) {
	r := newTestRouter(t, testConfig(t))
	listing := `{"title":"2BHK near Sector 5","price":4500000,"city":"Farrukhnagar","bedrooms":2}`

	w := serve(r, http.MethodPost, "/api/properties", listing)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.JSONEq(t, `{"success":false,"error":"Unauthorized"}`, w.Body.String())

	w = serve(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = serve(r, http.MethodPost, "/api/properties", listing, cookie)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Property struct {
			ID string `json:"id"`
		} `json:"property"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Property.ID)

	// public listing and lead submission need no session
	w = serve(r, http.MethodGet, "/api/properties?city=farrukhnagar", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"count":1`)

	w = serve(r, http.MethodPost, "/api/leads", `{"name":"Ravi","email":"ravi@example.com","propertyId":"`+created.Property.ID+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = serve(r, http.MethodGet, "/api/leads", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"propertyTitle":"2BHK near Sector 5"`)

	// uploads pass the gate but answer 503 without object storage
	w = serve(r, http.MethodPost, "/api/uploads", "", cookie)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	cfg := testConfig(t)
	r := newTestRouter(t, cfg)

	w := serve(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())

	w = serve(r, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"store":false`)

	w = serve(r, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/nothing-here", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	// a configured but unreachable store fails readiness
	cfg.MongoDB.URI = "mongodb://127.0.0.1:1"
	w = serve(r, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBuildRouter_MissingSecret(t *testing.T) {
	cfg := testConfig(t)
	cfg.JWT.Secret = ""
	b := &backends{}
	b.buildServices(cfg)
	_, err := buildRouter(cfg, b)
	require.Error(t, err)
}

func TestLoginThrottleFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.LoginThrottle = config.LoginThrottleConfig{MaxFailures: 2, Window: time.Minute}
	r := newTestRouter(t, cfg)

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w := serve(r, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"secret123"}`)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestDoubleSlashAdminPathIsGated(t *testing.T) {
	r := newTestRouter(t, testConfig(t))
	w := serve(r, http.MethodGet, "//admin/listings", "")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/login", w.Header().Get("Location"))
	require.NotContains(t, w.Body.String(), "id=app")
}

func serveFrom(r http.Handler, remote, xff, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = remote
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginThrottleIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	cfg := testConfig(t)
	cfg.LoginThrottle = config.LoginThrottleConfig{MaxFailures: 3, Window: time.Minute}
	r := newTestRouter(t, cfg)

	var codes []int
	for i := 0; i < 5; i++ {
		w := serveFrom(r, "203.0.113.9:4000", fmt.Sprintf("198.51.100.%d", i),
			http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`)
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{401, 401, 401, 429, 429}, codes)
}

func TestLoginThrottleHonoursTrustedProxy(t *testing.T) {
	cfg := testConfig(t)
	cfg.LoginThrottle = config.LoginThrottleConfig{MaxFailures: 3, Window: time.Minute}
	cfg.Server.TrustedProxies = []string{"203.0.113.9"}
	r := newTestRouter(t, cfg)

	// distinct clients behind the proxy are counted separately
	for i := 0; i < 5; i++ {
		w := serveFrom(r, "203.0.113.9:4000", fmt.Sprintf("198.51.100.%d", i),
			http.MethodPost, "/api/auth/login", `{"username":"admin","password":"nope"}`)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestBuildRouter_BadTrustedProxy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.TrustedProxies = []string{"not-an-ip"}
	b := &backends{}
	b.buildServices(cfg)
	_, err := buildRouter(cfg, b)
	require.Error(t, err)
}

func TestRateLimitKeysOnSessionAcrossAddresses(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	r := newTestRouter(t, cfg)

	w := serveFrom(r, "192.0.2.10:1000", "", http.MethodPost, "/api/auth/login", `{"username":"admin","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = serveFrom(r, "192.0.2.11:1000", "", http.MethodGet, "/api/leads", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	w = serveFrom(r, "192.0.2.12:1000", "", http.MethodGet, "/api/leads", "", cookie)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestReadinessPingsRedis(t *testing.T) {
	m := mr.RunT(t)
	cfg := testConfig(t)
	cfg.Redis = config.RedisConfig{Host: m.Host(), Port: m.Port()}
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	b := &backends{redis: client, mail: mailer.LogSender{}}
	b.buildServices(cfg)
	r, err := buildRouter(cfg, b)
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"redis":true`)

	// a connected client whose server went away fails readiness
	m.Close()
	w = serve(r, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), `"redis":false`)
}
