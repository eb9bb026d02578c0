// Package handler serves the reference catalog used by registration forms.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"legalbooks/internal/catalog"
	"legalbooks/internal/platform/metrics"
	"legalbooks/internal/platform/middleware"
	"legalbooks/internal/transport/http/shared"
	dErrors "legalbooks/pkg/domain-errors"
)

// Service defines the catalog operations the handler depends on.
type Service interface {
	Load(ctx context.Context, role string) *catalog.Catalog
	Invalidate(role string)
}

// Handler handles catalog endpoints.
type Handler struct {
	service Service
	metrics *metrics.Metrics
}

// New creates a catalog Handler.
func New(service Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

// Register registers the catalog routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	catalogRouter := chi.NewRouter()
	catalogRouter.Use(middleware.Timeout(15 * time.Second))
	catalogRouter.Use(middleware.Latency(h.metrics, "catalog"))
	catalogRouter.Get("/fields", h.handleFields)
	catalogRouter.Get("/roles", h.handleRoles)

	r.Mount("/catalog", catalogRouter)
}

// handleFields returns the role-specific form catalog: states with their
// cities, practice areas with specializations, and court types.
func (h *Handler) handleFields(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "role query parameter is required"))
		return
	}

	c := h.service.Load(r.Context(), role)
	shared.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleRoles(w http.ResponseWriter, r *http.Request) {
	c := h.service.Load(r.Context(), "lawyer")
	shared.WriteJSON(w, http.StatusOK, struct {
		Roles any `json:"roles"`
	}{Roles: c.Roles})
}
