package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/coopcredit/credit-engine/internal/domain"
	"github.com/coopcredit/credit-engine/pkg/response"
)

type contextKey string

const claimsKey contextKey = "authClaims"

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware issues and validates HS256 tokens. Role checks happen here,
// at the boundary: the evaluation service itself takes no identity.
type AuthMiddleware struct {
	secret     []byte
	expiration time.Duration
}

func NewAuthMiddleware(secret string, expiration time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken creates a signed token for the user.
func (a *AuthMiddleware) GenerateToken(user *domain.User) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Expiration returns the configured token lifetime.
func (a *AuthMiddleware) Expiration() time.Duration {
	return a.expiration
}

// Middleware validates the Bearer token and stores the claims in the
// request context.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(w, "Missing or malformed Authorization header")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims,
			func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return a.secret, nil
			})
		if err != nil || !token.Valid {
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole wraps a handler with a capability check against the caller's
// role claim.
func (a *AuthMiddleware) RequireRole(roles ...string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Authentication required")
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions for this operation")
		}
	}
}

// ClaimsFromContext extracts the authenticated caller's claims.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}
