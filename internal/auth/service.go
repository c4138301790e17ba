package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lucy-college/internal/apperr"
	"lucy-college/internal/events"
	"lucy-college/internal/metrics"
	"lucy-college/internal/user"
)

var ErrInvalidCredentials = apperr.New(apperr.KindUnauthorized, "invalid email or password")

type Service struct {
	users     user.Repository
	hasher    user.PasswordHasher
	tokens    *TokenManager
	ledger    Ledger
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(
	users user.Repository,
	hasher user.PasswordHasher,
	tokens *TokenManager,
	ledger Ledger,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		ledger:    ledger,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Register creates a STUDENT account
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	return s.createUser(ctx, req.Email, req.Password, user.RoleStudent)
}

// CreateUser creates an account with any known role
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*user.User, error) {
	if !req.Role.Valid() {
		return nil, apperr.New(apperr.KindInvalid, fmt.Sprintf("unknown role %q", req.Role))
	}
	return s.createUser(ctx, req.Email, req.Password, req.Role)
}

func (s *Service) createUser(ctx context.Context, email, password string, role user.Role) (*user.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.ErrDuplicateEmail
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	// A concurrent registration can still win; the store's unique index reports it as DuplicateEmail.
	created, err := s.users.Create(ctx, email, digest, role)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordUserRegistered(ctx, string(role))
	events.Emit(ctx, s.publisher, s.logger, events.New(events.UserRegistered, created.Email, map[string]any{
		"id":   created.ID,
		"role": created.Role,
	}))
	return created, nil
}

// Login verifies credentials and issues an access token
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Verify(req.Password, u.Password) {
		s.metrics.RecordLogin(ctx, false)
		return nil, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordLogin(ctx, true)
	return &LoginResponse{
		User:      u,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes token until its natural expiry. Revoking twice is not an error.
func (s *Service) Logout(ctx context.Context, token string, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return apperr.ErrUnauthorized
	}

	err := s.ledger.Revoke(ctx, token, claims.ExpiresAt.Time)
	if errors.Is(err, apperr.ErrDuplicateToken) {
		s.logger.InfoContext(ctx, "token already revoked", "user_id", claims.ID)
		return nil
	}
	if err != nil {
		return err
	}

	s.metrics.RecordTokenRevoked(ctx)
	events.Emit(ctx, s.publisher, s.logger, events.New(events.TokenRevoked, claims.Email, map[string]any{
		"userId":    claims.ID,
		"tokenId":   claims.RegisteredClaims.ID,
		"expiresAt": claims.ExpiresAt.Time,
	}))
	return nil
}

// EnsureBootstrapAdmin creates a SUPERADMIN with the given credentials unless the email is taken.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	if password == "" {
		return fmt.Errorf("bootstrap admin %s: password is required", email)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("bootstrap admin lookup: %w", err)
	}
	if existing != nil {
		s.logger.InfoContext(ctx, "bootstrap admin already present", "email", existing.Email, "role", existing.Role)
		return nil
	}

	created, err := s.createUser(ctx, email, password, user.RoleSuperAdmin)
	if errors.Is(err, apperr.ErrDuplicateEmail) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	s.logger.InfoContext(ctx, "bootstrap admin created", "email", created.Email)
	return nil
}
