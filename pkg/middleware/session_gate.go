package middleware

import (
	"context"
	"net/http"
	pathpkg "path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/sessions"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/tokens"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/metrics"
)

// ClaimsKey is the gin context key holding *tokens.Claims for verified requests.
const ClaimsKey = "claims"

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (*tokens.Claims, error)
}

// GateConfig names the paths the session gate treats specially.
type GateConfig struct {
	UploadPrefix string
	LoginPath    string
	AdminPrefix  string
	AdminHome    string
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		UploadPrefix: "/api/uploads",
		LoginPath:    "/admin/login",
		AdminPrefix:  "/admin",
		AdminHome:    "/admin",
	}
}

func cleanPath(p string) string {
	return pathpkg.Clean("/" + p)
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, strings.TrimRight(prefix, "/")+"/")
}

// SessionGate protects the admin pages. Per request:
//   - upload paths pass (the upload API authorizes itself)
//   - the login page passes, unless the cookie verifies, then it redirects home
//   - admin paths need a verifying cookie; a bad one is cleared on the redirect
//   - everything else passes
//
// Each request is verified on its own; nothing is cached.
func SessionGate(ver Verifier, cookies sessions.CookiePolicy, gc GateConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// match on the same cleaned path the page server resolves files from
		path := cleanPath(c.Request.URL.Path)

		if underPrefix(path, gc.UploadPrefix) {
			c.Next()
			return
		}

		raw := cookies.Read(c.Request)

		if path == gc.LoginPath {
			if raw == "" {
				metrics.GateDecisions.WithLabelValues("pass").Inc()
				c.Next()
				return
			}
			if _, err := ver.Verify(c.Request.Context(), raw); err == nil {
				metrics.GateDecisions.WithLabelValues("redirect_home").Inc()
				c.Redirect(http.StatusFound, gc.AdminHome)
				c.Abort()
				return
			}
			metrics.GateDecisions.WithLabelValues("pass").Inc()
			c.Next()
			return
		}

		if underPrefix(path, gc.AdminPrefix) {
			if raw == "" {
				metrics.GateDecisions.WithLabelValues("redirect_login").Inc()
				c.Redirect(http.StatusFound, gc.LoginPath)
				c.Abort()
				return
			}
			claims, err := ver.Verify(c.Request.Context(), raw)
			if err != nil {
				logger.Debugf("session gate: rejecting cookie on %s: %v", path, err)
				metrics.GateDecisions.WithLabelValues("redirect_login_cleared").Inc()
				cookies.Clear(c.Writer)
				c.Redirect(http.StatusFound, gc.LoginPath)
				c.Abort()
				return
			}
			metrics.GateDecisions.WithLabelValues("pass").Inc()
			c.Set(ClaimsKey, claims)
			c.Next()
			return
		}

		c.Next()
	}
}

// RequireAdmin guards admin API routes with the same cookie. It answers 401
// JSON instead of redirecting.
func RequireAdmin(ver Verifier, cookies sessions.CookiePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := cookies.Read(c.Request)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		claims, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// IdentifySession stores the claims of a verifying session cookie and never
// rejects. Mount it ahead of middleware that keys on the caller, such as the
// rate limiters.
func IdentifySession(ver Verifier, cookies sessions.CookiePolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := cookies.Read(c.Request); raw != "" {
			if claims, err := ver.Verify(c.Request.Context(), raw); err == nil {
				c.Set(ClaimsKey, claims)
			}
		}
		c.Next()
	}
}

// ClaimsFrom returns the verified claims stored by SessionGate, RequireAdmin
// or IdentifySession.
func ClaimsFrom(c *gin.Context) (*tokens.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*tokens.Claims)
	return claims, ok
}
