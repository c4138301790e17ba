package auth

import (
	"log/slog"
	"net/http"

	"lucy-college/common/httputil"
	"lucy-college/internal/apperr"
	"lucy-college/internal/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service       *Service
	authenticator *Authenticator
	logger        *slog.Logger
	validator     *validator.Validate
}

func NewHandler(service *Service, authenticator *Authenticator, logger *slog.Logger) *Handler {
	return &Handler{
		service:       service,
		authenticator: authenticator,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticator.Middleware(h.logger))

		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/me", h.Me)

		r.With(RequireRoles(h.logger, user.RoleSuperAdmin)).Post("/api/admin/users", h.CreateUser)
	})
}

// Register creates a new student account
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.bind(w, r, &req) {
		return
	}

	created, err := h.service.Register(r.Context(), req)
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", "user_id", created.ID)
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

// CreateUser lets a SUPERADMIN create an account with any role
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.bind(w, r, &req) {
		return
	}

	created, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user created by admin", "user_id", created.ID, "role", created.Role)
	httputil.RespondWithJSON(w, http.StatusCreated, created)
}

// Login authenticates a user
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.bind(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user logged in", "user_id", resp.User.ID)
	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

// Logout revokes the presented token
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())
	token, _ := TokenFromContext(r.Context())

	if err := h.service.Logout(r.Context(), token, claims); err != nil {
		apperr.Respond(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user logged out", "user_id", claims.ID)
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		apperr.Respond(w, r, h.logger, apperr.ErrUnauthorized)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, MeResponse{
		ID:        claims.ID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (h *Handler) bind(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := httputil.DecodeJSON(r, out); err != nil {
		apperr.Respond(w, r, h.logger, apperr.BadRequest(err))
		return false
	}
	if err := h.validator.Struct(out); err != nil {
		apperr.Respond(w, r, h.logger, apperr.FromValidation(err))
		return false
	}
	return true
}
