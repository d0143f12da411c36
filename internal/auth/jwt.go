package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Claims defines the JWT claims structure.
type Claims struct {
	Username string `json:"sub"`
	jwt.RegisteredClaims
}

type contextKey string

const userContextKey = contextKey("authUser")

// UserResolver checks that a token subject still maps to a real account.
type UserResolver interface {
	UsernameExists(username string) (bool, error)
}

// Service issues and verifies session tokens. The signing key and token
// lifetime come from startup configuration; rotating the key invalidates
// every outstanding token.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service with the given signing secret and TTL.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// GenerateToken creates a new signed JWT for a given username.
func (s *Service) GenerateToken(username string) (string, error) {
	expirationTime := time.Now().Add(s.ttl)
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken parses and validates a JWT string.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// unauthorized writes the single 401 response every verification failure
// collapses into; the actual reason only goes to the log.
func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
}

// Middleware creates a middleware for protecting routes. A request passes
// only if it carries a well-formed bearer token with a valid signature, an
// unexpired claim set, and a subject that resolves to an existing account.
func (s *Service) Middleware(users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, "Bearer ", 2)
				if len(parts) == 2 {
					tokenStr = strings.TrimSpace(parts[1])
				}
			}
			if tokenStr == "" {
				log.Warn().Str("path", r.URL.Path).Msg("Missing bearer token")
				unauthorized(w)
				return
			}

			claims, err := s.ValidateToken(tokenStr)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Token validation failed")
				unauthorized(w)
				return
			}

			exists, err := users.UsernameExists(claims.Username)
			if err != nil {
				log.Error().Err(err).Str("username", claims.Username).Msg("Failed to resolve token subject")
				unauthorized(w)
				return
			}
			if !exists {
				log.Warn().Str("username", claims.Username).Msg("Token subject no longer exists")
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated username set by Middleware.
func UserFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(userContextKey).(string)
	return username, ok
}
