package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lucy-college/internal/apperr"
	"lucy-college/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCode(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Technology", "TECH"},
		{"Computer Science", "COMP"},
		{"Electrical Engineering", "ELEC"},
		{"Law", "LAW"},
		{"faculty of science and technology", "FOSA"},
		{"School of Arts & Design", "SOAD"},
		{"  Business   Administration ", "BUSI"},
		{"Bio-Medical Sciences", "BIOM"},
		{"Institute of Health Research Studies", "IOHR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveCode(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveCode_Empty(t *testing.T) {
	for _, name := range []string{"", "   ", "& - !"} {
		_, err := DeriveCode(name)
		assert.True(t, errors.Is(err, apperr.ErrInvalid), "name %q", name)
	}
}

func TestDeriveCode_DistinctDepartmentsDoNotCollide(t *testing.T) {
	cs, err := DeriveCode("Computer Science")
	require.NoError(t, err)
	ee, err := DeriveCode("Electrical Engineering")
	require.NoError(t, err)

	assert.NotEqual(t, cs, ee)
}

func TestCodeFor(t *testing.T) {
	code, err := CodeFor(" cs ", "Computer Science")
	require.NoError(t, err)
	assert.Equal(t, "CS", code)

	code, err = CodeFor("", "Computer Science")
	require.NoError(t, err)
	assert.Equal(t, "COMP", code)

	_, err = CodeFor("C S", "Computer Science")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))

	_, err = CodeFor("ABCDEFGHIJKLMNOPQ", "x")
	assert.True(t, errors.Is(err, apperr.ErrInvalid))
}

// codeSet is an in-memory stand-in for both repositories.
type codeSet struct {
	mu    sync.Mutex
	codes map[string]bool
}

func newCodeSet(codes ...string) *codeSet {
	s := &codeSet{codes: map[string]bool{}}
	for _, c := range codes {
		s.codes[c] = true
	}
	return s
}

func (s *codeSet) add(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code] = true
}

func (s *codeSet) FacultyCodeExists(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[code], nil
}

func (s *codeSet) DepartmentCodeExists(ctx context.Context, code string) (bool, error) {
	return s.FacultyCodeExists(ctx, code)
}

func TestRegisterFacultyCode_SecondRegistrationConflicts(t *testing.T) {
	faculties := newCodeSet()
	r := New(faculties, newCodeSet(), metrics.NewMock())
	ctx := context.Background()

	derived, err := DeriveCode("Technology")
	require.NoError(t, err)

	code, err := r.RegisterFacultyCode(ctx, derived)
	require.NoError(t, err)
	assert.Equal(t, "TECH", code)
	faculties.add(code)

	_, err = r.RegisterFacultyCode(ctx, "tech")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrCodeConflict))
	assert.Contains(t, apperr.Message(err), "Please provide a manual code")
}

func TestRegisterDepartmentCode(t *testing.T) {
	faculties := newCodeSet("TECH")
	departments := newCodeSet()
	r := New(faculties, departments, metrics.NewMock())
	ctx := context.Background()

	t.Run("missing parent", func(t *testing.T) {
		_, err := r.RegisterDepartmentCode(ctx, "COMP", "ARTS")
		assert.True(t, errors.Is(err, apperr.ErrParentNotFound))
	})

	t.Run("success", func(t *testing.T) {
		code, err := r.RegisterDepartmentCode(ctx, "comp", "tech")
		require.NoError(t, err)
		assert.Equal(t, "COMP", code)
		departments.add(code)
	})

	t.Run("conflict", func(t *testing.T) {
		_, err := r.RegisterDepartmentCode(ctx, "COMP", "TECH")
		assert.True(t, errors.Is(err, apperr.ErrCodeConflict))
	})

	t.Run("parent checked before code", func(t *testing.T) {
		_, err := r.RegisterDepartmentCode(ctx, "COMP", "NOPE")
		assert.True(t, errors.Is(err, apperr.ErrParentNotFound))
	})
}

func TestValidateParentLink(t *testing.T) {
	r := New(newCodeSet("TECH"), newCodeSet(), metrics.NewMock())
	ctx := context.Background()

	assert.NoError(t, r.ValidateParentLink(ctx, " tech "))
	assert.True(t, errors.Is(r.ValidateParentLink(ctx, "MED"), apperr.ErrParentNotFound))
	assert.True(t, errors.Is(r.ValidateParentLink(ctx, ""), apperr.ErrInvalid))
}

type failingCodes struct{}

func (failingCodes) FacultyCodeExists(context.Context, string) (bool, error) {
	return false, errors.New("connection reset")
}

func TestRegisterFacultyCode_StoreFailure(t *testing.T) {
	r := New(failingCodes{}, newCodeSet(), metrics.NewMock())

	_, err := r.RegisterFacultyCode(context.Background(), "TECH")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInternal, apperr.KindOf(err))
}
