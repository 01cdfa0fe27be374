package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/saulo-duarte/cyberaware-lambda/internal/config"
)

type contextKey string

const claimsKey contextKey = "claims"

const CookieName = "jwt"

var ErrNoClaims = errors.New("no user claims in context")

// AuthMiddleware accepts an access token from the Authorization header or
// the jwt cookie.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := bearerToken(r)
		if tokenStr == "" {
			if cookie, err := r.Cookie(CookieName); err == nil {
				tokenStr = cookie.Value
			}
		}
		if tokenStr == "" {
			config.Fail(w, http.StatusUnauthorized, "Authentication credentials were not provided.", nil)
			return
		}

		claims, err := ValidateTokenOfType(tokenStr, TokenTypeAccess)
		if err != nil {
			log.WithError(err).Debug("Rejected access token")
			config.Fail(w, http.StatusUnauthorized, "Given token not valid for any token type", nil)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = config.ContextWithUserID(ctx, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetUserClaimsFromContext(r.Context())
			if err != nil || claims.Role != role {
				config.Fail(w, http.StatusForbidden, "You do not have permission to perform this action.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// WithClaims is used by tests and internal callers that bypass the middleware.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return config.ContextWithUserID(ctx, claims.UserID)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
