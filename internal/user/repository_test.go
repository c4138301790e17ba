package user_test

import (
	"context"
	"errors"
	"testing"

	"lucy-college/common/metrics"
	"lucy-college/internal/apperr"
	"lucy-college/internal/user"
	"lucy-college/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Shared(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	pg.RunMigrations(t, user.Tables()...)

	repo := user.NewRepository(pg.DB, metrics.NewMock())
	ctx := context.Background()

	t.Run("Create_And_FindByEmail", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "users")

		created, err := repo.Create(ctx, "Registrar@Lucy.edu ", "digest", user.RoleRegistrar)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "registrar@lucy.edu", created.Email)

		found, err := repo.FindByEmail(ctx, "REGISTRAR@lucy.edu")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, user.RoleRegistrar, found.Role)
		assert.Equal(t, "digest", found.Password)
	})

	t.Run("FindByEmail_Missing", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "users")

		found, err := repo.FindByEmail(ctx, "nobody@lucy.edu")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Create_DuplicateEmail", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "users")

		_, err := repo.Create(ctx, "a@b.com", "digest", user.RoleStudent)
		require.NoError(t, err)

		_, err = repo.Create(ctx, "A@B.com", "other", user.RoleStudent)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperr.ErrDuplicateEmail))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "users")

		_, err := repo.GetByID(ctx, 42)
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})
}
