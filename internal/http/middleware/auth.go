// Package middleware – authentication.
//
// Authenticate resolves the acting principal from a bearer token and stores
// it in the Gin context. It is deliberately non-aborting: an absent or
// invalid credential leaves the request anonymous, and the service layer
// decides per operation whether anonymity is acceptable (public reads are,
// writes are not). This keeps the 401-versus-403 policy in exactly one place.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/atelierhq/go-studio-backend/internal/auth"
)

const (
	// principalKey is the Gin context key holding the *auth.Principal.
	principalKey = "principal"
	// principalIDKey holds the plain user id for the logger and rate limiter.
	principalIDKey = "userID"
	// devUserHeader names the header accepted as identity when header
	// fallback is enabled (local development and tests only).
	devUserHeader = "X-User-ID"
)

// AuthOptions configures Authenticate.
type AuthOptions struct {
	// JWTSecret is the HMAC key used to verify bearer tokens.
	JWTSecret string
	// AllowHeaderFallback accepts X-User-ID as the identity when no valid
	// bearer token is present. Never enable outside development.
	AllowHeaderFallback bool
}

// Authenticate returns a middleware that parses the Authorization header and,
// on success, stores the principal in the context. Token claims: "sub" is the
// user id (required), "email" is informational.
func Authenticate(opt AuthOptions) gin.HandlerFunc {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(opt.JWTSecret), nil
	}

	return func(c *gin.Context) {
		if p := principalFromRequest(c, opt, keyFunc); p != nil {
			c.Set(principalKey, p)
			c.Set(principalIDKey, p.ID)
		}
		c.Next()
	}
}

// principalFromRequest extracts a principal from the bearer token, falling
// back to the dev header when allowed. Returns nil for anonymous requests.
func principalFromRequest(c *gin.Context, opt AuthOptions, keyFunc jwt.Keyfunc) *auth.Principal {
	header := c.GetHeader("Authorization")
	if raw, found := strings.CutPrefix(header, "Bearer "); found && opt.JWTSecret != "" {
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, keyFunc,
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		if err == nil && token.Valid {
			sub, _ := claims["sub"].(string)
			if sub != "" {
				email, _ := claims["email"].(string)
				return &auth.Principal{ID: sub, Email: email}
			}
		}
		// Invalid tokens fall through to anonymous; services return the
		// precise 401/403 for the attempted operation.
	}

	if opt.AllowHeaderFallback {
		if uid := strings.TrimSpace(c.GetHeader(devUserHeader)); uid != "" {
			return &auth.Principal{ID: uid}
		}
	}
	return nil
}

// PrincipalFrom returns the authenticated principal stored by Authenticate,
// or nil when the request is anonymous.
func PrincipalFrom(c *gin.Context) *auth.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(*auth.Principal); ok {
			return p
		}
	}
	return nil
}
