package faculty_test

import (
	"context"
	"errors"
	"testing"

	"lucy-college/common/metrics"
	"lucy-college/internal/apperr"
	"lucy-college/internal/department"
	"lucy-college/internal/faculty"
	"lucy-college/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Shared(t *testing.T) {
	pg := testdb.SetupSharedPostgres(t)
	pg.RunMigrations(t, append(faculty.Tables(), department.Tables()...)...)

	repo := faculty.NewRepository(pg.DB, metrics.NewMock())
	ctx := context.Background()

	seedDepartment := func(t *testing.T, name, code, facultyCode string) {
		t.Helper()
		_, err := pg.DB.NewInsert().Model(&department.Department{
			Name: name, DepartmentCode: code, FacultyCode: facultyCode,
		}).Exec(ctx)
		require.NoError(t, err)
	}

	t.Run("Create_And_GetByCode", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "departments", "faculties")

		created, err := repo.Create(ctx, &faculty.Faculty{Name: "Technology", FacultyCode: "TECH"})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		seedDepartment(t, "Electrical Engineering", "ELEC", "TECH")
		seedDepartment(t, "Computer Science", "COMP", "TECH")

		got, err := repo.GetByCode(ctx, "TECH")
		require.NoError(t, err)
		require.Len(t, got.Departments, 2)
		assert.Equal(t, "COMP", got.Departments[0].DepartmentCode)

		count, err := repo.CountDepartments(ctx, "TECH")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Create_CodeConflict", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "departments", "faculties")

		_, err := repo.Create(ctx, &faculty.Faculty{Name: "Technology", FacultyCode: "TECH"})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &faculty.Faculty{Name: "Technical Studies", FacultyCode: "TECH"})
		assert.True(t, errors.Is(err, apperr.ErrCodeConflict))

		_, err = repo.Create(ctx, &faculty.Faculty{Name: "Technology", FacultyCode: "TS"})
		assert.True(t, errors.Is(err, apperr.ErrConflict))
	})

	t.Run("Update_CascadesToDepartments", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "departments", "faculties")

		f, err := repo.Create(ctx, &faculty.Faculty{Name: "Technology", FacultyCode: "TECH"})
		require.NoError(t, err)
		seedDepartment(t, "Computer Science", "COMP", "TECH")

		f.FacultyCode = "FOT"
		updated, err := repo.Update(ctx, "TECH", f, "faculty_code")
		require.NoError(t, err)
		assert.Equal(t, "FOT", updated.FacultyCode)

		got, err := repo.GetByCode(ctx, "FOT")
		require.NoError(t, err)
		require.Len(t, got.Departments, 1)

		_, err = repo.Update(ctx, "TECH", f, "name")
		assert.True(t, errors.Is(err, apperr.ErrNotFound))
	})

	t.Run("Delete_RestrictedByDepartments", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "departments", "faculties")

		_, err := repo.Create(ctx, &faculty.Faculty{Name: "Technology", FacultyCode: "TECH"})
		require.NoError(t, err)
		seedDepartment(t, "Computer Science", "COMP", "TECH")

		err = repo.Delete(ctx, "TECH")
		assert.True(t, errors.Is(err, apperr.ErrHasDependents))

		exists, err := repo.FacultyCodeExists(ctx, "TECH")
		require.NoError(t, err)
		assert.True(t, exists)

		testdb.CleanupTables(t, pg.DB, "departments")
		require.NoError(t, repo.Delete(ctx, "TECH"))
		assert.True(t, errors.Is(repo.Delete(ctx, "TECH"), apperr.ErrNotFound))
	})

	t.Run("List_OrderedByName", func(t *testing.T) {
		testdb.CleanupTables(t, pg.DB, "departments", "faculties")

		for _, f := range []faculty.Faculty{{Name: "Medicine", FacultyCode: "MEDI"}, {Name: "Arts", FacultyCode: "ARTS"}} {
			f := f
			_, err := repo.Create(ctx, &f)
			require.NoError(t, err)
		}

		list, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Arts", list[0].Name)
	})
}
