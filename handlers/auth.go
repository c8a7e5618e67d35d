package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/config"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/sessions"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/throttle"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/tokens"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/metrics"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/middleware"
)

// LoginRequest is the admin login body. Fields are plain strings so an
// absent field and an empty one are treated alike.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Revoker records a logged-out token id until the token would have expired.
type Revoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	issuer   *tokens.Issuer
	verifier middleware.Verifier
	cookies  sessions.CookiePolicy
	throttle throttle.Throttle
	revoker  Revoker
	now      func() time.Time
}

// NewAuthHandler wires the login/logout endpoints. issuer and verifier may be
// nil when the signing secret is missing; Login then answers 500. thr and
// revoker may be nil to disable throttling and revocation.
func NewAuthHandler(cfg *config.Config, issuer *tokens.Issuer, verifier middleware.Verifier, cookies sessions.CookiePolicy, thr throttle.Throttle, revoker Revoker) *AuthHandler {
	if thr == nil {
		thr = throttle.Disabled{}
	}
	return &AuthHandler{cfg: cfg, issuer: issuer, verifier: verifier, cookies: cookies, throttle: thr, revoker: revoker, now: time.Now}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout)
	a.GET("/session", h.Session)
	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		a.Handle(m, "/login", methodNotAllowed)
		a.Handle(m, "/logout", methodNotAllowed)
	}
}

func methodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "Method not allowed"})
}

// Login checks the single admin credential and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.cfg == nil || h.cfg.ValidateAuth() != nil || h.issuer == nil {
		logger.Errorf("login: admin credentials or signing secret not configured")
		metrics.LoginAttempts.WithLabelValues("misconfigured").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Server configuration error"})
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginAttempts.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if req.Username == "" {
		metrics.LoginAttempts.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username is required"})
		return
	}
	if req.Password == "" {
		metrics.LoginAttempts.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Password is required"})
		return
	}

	ctx := c.Request.Context()
	key := "ip:" + c.ClientIP()
	blocked, err := h.throttle.Blocked(ctx, key)
	if err != nil {
		// the credential check still applies, so an unavailable counter store only loses throttling
		logger.Warnf("login: throttle lookup failed: %v", err)
	}
	if blocked {
		metrics.LoginAttempts.WithLabelValues("throttled").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many login attempts. Please try again later."})
		return
	}

	if !credentialsMatch(req, h.cfg.Admin) {
		if err := h.throttle.Fail(ctx, key); err != nil {
			logger.Warnf("login: recording failed attempt: %v", err)
		}
		logger.Infof("login: rejected credentials from %s", c.ClientIP())
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid username or password"})
		return
	}

	token, _, err := h.issuer.Issue(req.Username)
	if err != nil {
		logger.Errorf("login: issue token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "An error occurred during login"})
		return
	}
	if err := h.throttle.Reset(ctx, key); err != nil {
		logger.Warnf("login: resetting throttle: %v", err)
	}
	h.cookies.Set(c.Writer, token)
	metrics.LoginAttempts.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "redirectUrl": "/admin"})
}

// credentialsMatch compares both fields in full before combining the results.
func credentialsMatch(req LoginRequest, admin config.AdminConfig) bool {
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(admin.Password)) == 1
	return userOK && passOK
}

// Logout clears the session cookie and, when a revocation list is configured,
// revokes the presented token for the rest of its lifetime. It always succeeds.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw := h.cookies.Read(c.Request); raw != "" && h.verifier != nil && h.revoker != nil {
		if claims, err := h.verifier.Verify(c.Request.Context(), raw); err == nil && claims.ExpiresAt != nil {
			ttl := claims.ExpiresAt.Time.Sub(h.now())
			if err := h.revoker.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
				logger.Errorf("logout: revoke session %s: %v", claims.ID, err)
			}
		}
	}
	h.cookies.Clear(c.Writer)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Session reports whether the current cookie carries a valid session.
func (h *AuthHandler) Session(c *gin.Context) {
	raw := h.cookies.Read(c.Request)
	if raw == "" || h.verifier == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	claims, err := h.verifier.Verify(c.Request.Context(), raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user":          gin.H{"userId": claims.UserID, "role": claims.Role},
		"expiresAt":     claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
	})
}
