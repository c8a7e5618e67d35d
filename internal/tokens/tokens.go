package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RoleAdmin is the only role ever issued.
const RoleAdmin = "admin"

var (
	ErrMissingSecret = errors.New("signing secret is not configured")
	ErrInvalidToken  = errors.New("invalid session token")
	ErrRevokedToken  = errors.New("session token revoked")
)

// Claims is the signed session payload: {userId, role, iat, exp} plus a jti
// used by the revocation list.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Issuer signs session tokens with the configured secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer; now may be nil to use the wall clock.
func NewIssuer(secret string, ttl time.Duration, now func() time.Time) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if now == nil {
		now = time.Now
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue creates a signed HS256 token for the admin principal.
func (i *Issuer) Issue(username string) (string, *Claims, error) {
	now := i.now().UTC()
	claims := &Claims{
		UserID: username,
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verifier checks signature, expiry and (optionally) revocation. It keeps no
// per-request state, so one Verifier is safe for concurrent use.
type Verifier struct {
	secret      []byte
	now         func() time.Time
	revocations RevocationChecker
}

// NewVerifier returns a Verifier; revocations and now may be nil.
func NewVerifier(secret string, now func() time.Time, revocations RevocationChecker) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if now == nil {
		now = time.Now
	}
	return &Verifier{secret: []byte(secret), now: now, revocations: revocations}, nil
}

// Verify parses raw and returns its claims when the token is currently valid.
func (v *Verifier) Verify(ctx context.Context, raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role != RoleAdmin || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if v.revocations != nil && claims.ID != "" {
		revoked, err := v.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: revocation lookup: %v", ErrInvalidToken, err)
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}
	return claims, nil
}
