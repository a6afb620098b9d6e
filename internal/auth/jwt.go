package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT claims structure. The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// UserClaimsKey is the context key for user claims.
type contextKey string

const UserClaimsKey = contextKey("userClaims")

// TokenService issues and validates signed, time-limited bearer tokens. It is
// constructed once and injected wherever tokens are needed, so the secret and
// TTL live in configuration rather than package globals.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService creates a TokenService. Only HMAC algorithms (HS256, HS384,
// HS512) are supported.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q, expected an HMAC variant", algorithm)
	}
	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// Issue creates a new signed token for the given subject.
func (s *TokenService) Issue(subject string) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string, returning its claims.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Middleware protects routes by requiring a valid bearer token. Claims are
// passed down via the request context.
func (s *TokenService) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, "Bearer ")
				if len(parts) == 2 {
					tokenStr = parts[1]
				}
			}

			if tokenStr == "" {
				unauthorized(w, "Missing auth token")
				return
			}

			claims, err := s.Verify(tokenStr)
			if err != nil {
				unauthorized(w, "Invalid auth token")
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves claims stored by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*Claims)
	return claims, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
