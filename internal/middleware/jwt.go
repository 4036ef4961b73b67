// internal/middleware/jwt.go
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token expiration time - 24 hours
const tokenExpiration = 24 * time.Hour

// Claims represents the JWT claims for our application
type Claims struct {
	UserID  string `json:"user_id"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Authenticator signs and validates tokens with a secret loaded from the
// environment at startup.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// GenerateToken creates a new JWT token for the given user
func (a *Authenticator) GenerateToken(userID string, isAdmin bool) (string, error) {
	expirationTime := time.Now().Add(tokenExpiration)

	claims := &Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "ritmo-vivo-api",
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken validates the provided JWT token
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.secret, nil
		},
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// ApplyJWT wraps a handler function with token authentication. The
// resolved claims land in the request context.
func (a *Authenticator) ApplyJWT(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claimsFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		handler(w, r.WithContext(SetClaimsInContext(r.Context(), claims)))
	}
}

// RequireAdmin wraps a handler function so that only tokens carrying the
// admin capability pass. Pin management and post deletion sit behind it.
func (a *Authenticator) RequireAdmin(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := a.claimsFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin {
			http.Error(w, "Admin capability required", http.StatusForbidden)
			return
		}
		handler(w, r.WithContext(SetClaimsInContext(r.Context(), claims)))
	}
}

func (a *Authenticator) claimsFromRequest(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("Authorization header required")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.New("Invalid authorization format")
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := a.ValidateToken(tokenString)
	if err != nil {
		return nil, errors.New("Invalid token")
	}
	if time.Now().After(claims.ExpiresAt.Time) {
		return nil, errors.New("Token expired")
	}
	return claims, nil
}

// Define a custom context key type to avoid collisions
type contextKey string

// ClaimsKey is the key used to store the resolved claims in the context
const ClaimsKey contextKey = "claims"

// SetClaimsInContext saves the claims in the request context
func SetClaimsInContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// GetClaimsFromContext retrieves the claims from the context
func GetClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}
