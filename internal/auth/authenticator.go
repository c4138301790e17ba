package auth

import (
	"context"
	"fmt"
	"strings"

	"lucy-college/internal/apperr"
	"lucy-college/internal/metrics"
	"lucy-college/internal/user"
)

// Authenticator validates bearer tokens: presence, then signature and expiry,
// then the revocation ledger. The first failing step decides the error kind.
type Authenticator struct {
	tokens  *TokenManager
	ledger  Ledger
	metrics *metrics.Metrics
}

func NewAuthenticator(tokens *TokenManager, ledger Ledger, m *metrics.Metrics) *Authenticator {
	return &Authenticator{
		tokens:  tokens,
		ledger:  ledger,
		metrics: m,
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperr.ErrUnauthorized
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", apperr.ErrUnauthorized
	}
	return token, nil
}

// Authenticate runs the full pipeline on an Authorization header value.
func (a *Authenticator) Authenticate(ctx context.Context, header string) (*Claims, error) {
	token, err := BearerToken(header)
	if err != nil {
		a.metrics.RecordAuthRejection(ctx, string(apperr.KindUnauthorized))
		return nil, err
	}
	return a.AuthenticateToken(ctx, token)
}

func (a *Authenticator) AuthenticateToken(ctx context.Context, token string) (*Claims, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		a.metrics.RecordAuthRejection(ctx, string(apperr.KindInvalidToken))
		return nil, err
	}

	revoked, err := a.ledger.IsRevoked(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("check revocation ledger: %w", err)
	}
	if revoked {
		a.metrics.RecordAuthRejection(ctx, string(apperr.KindTokenRevoked))
		return nil, apperr.ErrTokenRevoked
	}
	return claims, nil
}

// Authorize passes iff claims.Role is one of allowed.
func Authorize(claims *Claims, allowed ...user.Role) error {
	if claims == nil {
		return apperr.ErrUnauthorized
	}
	for _, role := range allowed {
		if claims.Role == role {
			return nil
		}
	}
	return apperr.ErrForbidden
}
