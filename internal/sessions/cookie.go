package sessions

import (
	"net/http"
	"time"

	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/config"
)

// CookiePolicy describes how the session cookie is written and cleared.
type CookiePolicy struct {
	Name     string
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
}

// NewCookiePolicy derives the policy from configuration: Secure and
// SameSite=Strict in production, SameSite=Lax otherwise.
func NewCookiePolicy(cfg *config.Config) CookiePolicy {
	p := CookiePolicy{
		Name:     cfg.JWT.CookieName,
		MaxAge:   cfg.JWT.CookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	}
	if p.Name == "" {
		p.Name = "admin-token"
	}
	if p.MaxAge <= 0 {
		p.MaxAge = 24 * time.Hour
	}
	if cfg.IsProduction() {
		p.Secure = true
		p.SameSite = http.SameSiteStrictMode
	}
	return p
}

// Set attaches the session token to the response.
func (p CookiePolicy) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(p.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

// Clear overwrites the cookie with an empty value that is already expired.
func (p CookiePolicy) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

// Read returns the session cookie value, or "" when absent.
func (p CookiePolicy) Read(r *http.Request) string {
	c, err := r.Cookie(p.Name)
	if err != nil {
		return ""
	}
	return c.Value
}
