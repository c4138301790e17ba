package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"lucy-college/internal/apperr"
	"lucy-college/internal/metrics"
	"lucy-college/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	args := m.Called(ctx, token, expiresAt)
	return args.Error(0)
}

func (m *mockLedger) IsRevoked(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def.ghi", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if !tt.ok {
				assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticator_Pipeline(t *testing.T) {
	c := newClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	tm := newTestTokenManager(c)
	ledger := newMemLedger(c.Now)
	a := NewAuthenticator(tm, ledger, metrics.NewMock())
	ctx := context.Background()

	u := &user.User{ID: 1, Email: "a@b.com", Role: user.RoleRegistrar}
	token, issued, err := tm.Issue(u)
	require.NoError(t, err)

	t.Run("missing header", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "")
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("valid token", func(t *testing.T) {
		claims, err := a.Authenticate(ctx, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.ID)
		assert.Equal(t, u.Email, claims.Email)
		assert.Equal(t, u.Role, claims.Role)
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "Bearer "+token+"x")
		assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
	})

	t.Run("revoked token", func(t *testing.T) {
		require.NoError(t, ledger.Revoke(ctx, token, issued.ExpiresAt.Time))

		_, err := a.Authenticate(ctx, "Bearer "+token)
		assert.Equal(t, apperr.KindTokenRevoked, apperr.KindOf(err))
	})

	t.Run("expired beats revoked", func(t *testing.T) {
		c.Advance(3 * time.Hour)

		_, err := a.Authenticate(ctx, "Bearer "+token)
		assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
	})
}

func TestAuthenticator_LedgerFailureIsInternal(t *testing.T) {
	c := newClock(time.Now())
	tm := newTestTokenManager(c)
	ledger := new(mockLedger)
	a := NewAuthenticator(tm, ledger, metrics.NewMock())

	token, _, err := tm.Issue(&user.User{ID: 2, Email: "c@d.com", Role: user.RoleStudent})
	require.NoError(t, err)

	ledger.On("IsRevoked", mock.Anything, token).Return(false, errors.New("connection refused"))

	_, err = a.AuthenticateToken(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
	ledger.AssertExpectations(t)
}

func TestAuthenticator_InvalidTokenSkipsLedger(t *testing.T) {
	ledger := new(mockLedger)
	a := NewAuthenticator(newTestTokenManager(newClock(time.Now())), ledger, metrics.NewMock())

	_, err := a.AuthenticateToken(context.Background(), "garbage")
	assert.Equal(t, apperr.KindInvalidToken, apperr.KindOf(err))
	ledger.AssertNotCalled(t, "IsRevoked", mock.Anything, mock.Anything)
}

func TestAuthorize(t *testing.T) {
	registrar := &Claims{ID: 1, Email: "a@b.com", Role: user.RoleRegistrar}

	assert.NoError(t, Authorize(registrar, user.RoleSuperAdmin, user.RoleRegistrar))
	assert.True(t, errors.Is(Authorize(registrar, user.RoleSuperAdmin), apperr.ErrForbidden))
	assert.True(t, errors.Is(Authorize(registrar), apperr.ErrForbidden))
	assert.True(t, errors.Is(Authorize(nil, user.RoleSuperAdmin), apperr.ErrUnauthorized))

	for _, role := range user.Roles {
		claims := &Claims{Role: role}
		assert.NoError(t, Authorize(claims, role))
		err := Authorize(claims, AdminRoles...)
		if role == user.RoleSuperAdmin || role == user.RoleRegistrar {
			assert.NoError(t, err)
		} else {
			assert.True(t, errors.Is(err, apperr.ErrForbidden), "role %s", role)
		}
	}
}
