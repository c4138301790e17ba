package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"lucy-college/common/httputil"
	"lucy-college/common/metrics"

	"github.com/go-chi/chi/v5"
)

// Checker is a dependency probe used by /ready.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckFunc adapts a function into a Checker.
type CheckFunc struct {
	DependencyName string
	Fn             func(ctx context.Context) error
}

func (c CheckFunc) Name() string                     { return c.DependencyName }
func (c CheckFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

type Handler struct {
	checkers []Checker
	metrics  *metrics.HealthMetrics
	timeout  time.Duration
	logger   *slog.Logger
}

func NewHandler(m *metrics.HealthMetrics, logger *slog.Logger, checkers ...Checker) *Handler {
	return &Handler{
		checkers: checkers,
		metrics:  m,
		timeout:  2 * time.Second,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready reports 503 when any dependency probe fails.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	resp := HealthResponse{Status: "ready", Dependencies: make(map[string]string, len(h.checkers))}
	status := http.StatusOK

	for _, c := range h.checkers {
		start := time.Now()
		err := c.Check(ctx)
		h.metrics.RecordDependencyCheck(ctx, c.Name(), time.Since(start), err)

		if err != nil {
			h.logger.WarnContext(ctx, "readiness check failed", "dependency", c.Name(), "error", err)
			resp.Dependencies[c.Name()] = "down"
			resp.Status = "not ready"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Dependencies[c.Name()] = "up"
	}

	httputil.RespondWithJSON(w, status, resp)
}

// Names lists the registered dependency names.
func (h *Handler) Names() []string {
	names := make([]string, 0, len(h.checkers))
	for _, c := range h.checkers {
		names = append(names, c.Name())
	}
	return names
}
