package faculty

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

// RegisterPublicRoutes mounts the read-only routes.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/faculties", h.ListFaculties)
	r.Get("/faculties/{facultyCode}", h.GetFaculty)
}

// RegisterAdminRoutes mounts the management routes; the caller applies auth.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/faculties", func(r chi.Router) {
		r.Get("/", h.ListFaculties)
		r.Post("/", h.CreateFaculty)
		r.Get("/{facultyCode}", h.GetFaculty)
		r.Put("/{facultyCode}", h.UpdateFaculty)
		r.Patch("/{facultyCode}", h.UpdateFaculty)
		r.Delete("/{facultyCode}", h.DeleteFaculty)
	})
}

func (h *Handler) ListFaculties(w http.ResponseWriter, r *http.Request) {
	faculties, err := h.service.List(r.Context())
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, faculties)
}

func (h *Handler) GetFaculty(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.Get(r.Context(), chi.URLParam(r, "facultyCode"))
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, f)
}

func (h *Handler) CreateFaculty(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		apperr.Respond(w, r, h.logger, apperr.BadRequest(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		apperr.Respond(w, r, h.logger, apperr.FromValidation(err))
		return
	}

	h.logger.InfoContext(r.Context(), "creating faculty", "name", req.Name)
	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) UpdateFaculty(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		apperr.Respond(w, r, h.logger, apperr.BadRequest(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		apperr.Respond(w, r, h.logger, apperr.FromValidation(err))
		return
	}

	code := chi.URLParam(r, "facultyCode")
	h.logger.InfoContext(r.Context(), "updating faculty", "code", code)
	updated, err := h.service.Update(r.Context(), code, req)
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteFaculty(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "facultyCode")
	h.logger.InfoContext(r.Context(), "deleting faculty", "code", code)
	if err := h.service.Delete(r.Context(), code); err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
