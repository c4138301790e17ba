package department

import (
	"log/slog"
	"net/http"

	"lucy-college/common/httputil"
	"lucy-college/internal/apperr"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  Service
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/departments", h.ListDepartments)
	r.Get("/departments/{departmentCode}", h.GetDepartment)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.ListDepartments)
		r.Post("/", h.CreateDepartment)
		r.Get("/{departmentCode}", h.GetDepartment)
		r.Put("/{departmentCode}", h.UpdateDepartment)
		r.Patch("/{departmentCode}", h.UpdateDepartment)
		r.Delete("/{departmentCode}", h.DeleteDepartment)
	})
}

// ListDepartments accepts an optional ?facultyCode= filter.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.List(r.Context(), r.URL.Query().Get("facultyCode"))
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, departments)
}

func (h *Handler) GetDepartment(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "departmentCode"))
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, d)
}

func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		apperr.Respond(w, r, h.logger, apperr.BadRequest(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		apperr.Respond(w, r, h.logger, apperr.FromValidation(err))
		return
	}

	h.logger.InfoContext(r.Context(), "creating department", "name", req.Name, "faculty_code", req.FacultyCode)
	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		apperr.Respond(w, r, h.logger, apperr.BadRequest(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		apperr.Respond(w, r, h.logger, apperr.FromValidation(err))
		return
	}

	code := chi.URLParam(r, "departmentCode")
	h.logger.InfoContext(r.Context(), "updating department", "code", code)
	updated, err := h.service.Update(r.Context(), code, req)
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "departmentCode")
	h.logger.InfoContext(r.Context(), "deleting department", "code", code)
	if err := h.service.Delete(r.Context(), code); err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
