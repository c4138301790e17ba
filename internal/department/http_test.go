package department

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lucy-college/common/logger"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(t *testing.T, router http.Handler, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_DepartmentRoutes(t *testing.T) {
	svc, _, _ := newTestService()
	h := NewHandler(svc, logger.Discard())
	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		h.RegisterPublicRoutes(r)
		r.Route("/admin", h.RegisterAdminRoutes)
	})

	w := request(t, router, http.MethodPost, "/api/admin/departments", map[string]string{
		"name": "Computer Science", "facultyCode": "TECH",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = request(t, router, http.MethodPost, "/api/admin/departments", map[string]string{
		"name": "Anatomy", "facultyCode": "MED",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = request(t, router, http.MethodPost, "/api/admin/departments", map[string]string{
		"name": "Anatomy",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, router, http.MethodPost, "/api/admin/departments", map[string]string{
		"name": "Computing", "facultyCode": "TECH",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = request(t, router, http.MethodGet, "/api/departments?facultyCode=tech", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []Department
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Len(t, list, 1)

	w = request(t, router, http.MethodGet, "/api/departments/COMP", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = request(t, router, http.MethodPatch, "/api/admin/departments/COMP", map[string]string{"facultyCode": "ARTS"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated Department
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "ARTS", updated.FacultyCode)

	w = request(t, router, http.MethodDelete, "/api/admin/departments/COMP", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = request(t, router, http.MethodGet, "/api/departments/COMP", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
