package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Role is a user's rank. Higher roles can do everything lower ones can.
type Role int

// Roles in increasing rank
const (
	RoleNone Role = iota
	RoleEmployee
	RoleAdmin
	RoleSuperAdmin
)

var roleNames = map[string]Role{
	"employee":   RoleEmployee,
	"admin":      RoleAdmin,
	"superadmin": RoleSuperAdmin,
}

func (r Role) String() string {
	for name, role := range roleNames {
		if role == r {
			return name
		}
	}
	return "none"
}

// ParseRole returns the Role named s
func ParseRole(s string) (Role, bool) {
	r, ok := roleNames[strings.ToLower(strings.TrimSpace(s))]
	return r, ok
}

// Claims are the JWT claims issued to incident reporting users
type Claims struct {
	Roles       []string `json:"roles"`
	StoreNumber string   `json:"storeNumber,omitempty"`
	jwt.RegisteredClaims
}

// Highest returns the highest ranked role in the claims
func (c *Claims) Highest() Role {
	best := RoleNone
	for _, name := range c.Roles {
		if r, ok := ParseRole(name); ok && r > best {
			best = r
		}
	}
	return best
}

type claimsKey struct{}

// ClaimsFromContext returns the claims of the authenticated caller
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

// WithClaims stores claims on ctx
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// Auth checks HS256 bearer tokens signed with Secret
type Auth struct {
	Secret []byte
}

// CreateToken signs a token for subject carrying roles
func (a Auth) CreateToken(subject string, roles []string, storeNumber string, ttl time.Duration) (string, error) {
	if len(a.Secret) == 0 {
		return "", errors.New("jwt secret is not set")
	}
	now := time.Now()
	claims := Claims{
		Roles:       roles,
		StoreNumber: storeNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}

// Authenticate parses the bearer token of r
func (a Auth) Authenticate(r *http.Request) (*Claims, error) {
	if len(a.Secret) == 0 {
		return nil, errors.New("jwt secret is not set")
	}
	header := r.Header.Get("Authorization")
	raw := strings.TrimPrefix(header, "Bearer ")
	if header == "" {
		// browsers cannot set headers on websocket upgrades
		raw = r.URL.Query().Get("access_token")
	} else if raw == header {
		raw = ""
	}
	if raw == "" {
		return nil, errors.New("missing bearer token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// RequireRole only lets callers holding at least min through
func (a Auth) RequireRole(min Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		claims, err := a.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL,
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		if claims.Highest() < min {
			zap.S().Warnw("forbidden",
				"url", r.URL,
				"subject", claims.Subject,
				"required", min.String())
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "forbidden"}`))
			return
		}
		zap.S().Debugf("user %s authenticated as %s", claims.Subject, claims.Highest())
		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}
