package auth

import (
	"context"
	"log/slog"
	"net/http"

	"lucy-college/internal/apperr"
	"lucy-college/internal/user"
)

type claimsKey struct{}

type tokenKey struct{}

// AdminRoles may manage faculties and departments.
var AdminRoles = []user.Role{user.RoleSuperAdmin, user.RoleRegistrar}

// Middleware rejects requests without a valid, unrevoked bearer token and
// stores the claims and raw token in the request context.
func (a *Authenticator) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				a.metrics.RecordAuthRejection(r.Context(), string(apperr.KindUnauthorized))
				apperr.Respond(w, r, logger, err)
				return
			}

			claims, err := a.AuthenticateToken(r.Context(), token)
			if err != nil {
				apperr.Respond(w, r, logger, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims, token)))
		})
	}
}

// RequireRoles must run after Middleware.
func RequireRoles(logger *slog.Logger, roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, _ := ClaimsFromContext(r.Context())
			if err := Authorize(claims, roles...); err != nil {
				apperr.Respond(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok && claims != nil
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// WithClaims returns a copy of ctx carrying claims and token.
func WithClaims(ctx context.Context, claims *Claims, token string) context.Context {
	ctx = context.WithValue(ctx, claimsKey{}, claims)
	return context.WithValue(ctx, tokenKey{}, token)
}
