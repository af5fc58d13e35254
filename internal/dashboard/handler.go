package dashboard

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ripgraphics/bookin-pms/pkg/middleware"
	"github.com/ripgraphics/bookin-pms/pkg/response"
)

// Handler handles HTTP requests for the role dashboards
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register attaches the dashboard endpoints to the given router
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.ForUser)
	r.Get("/owner/dashboard", h.Owner)
	r.Get("/host/dashboard", h.Host)
	r.Get("/guest/dashboard", h.Guest)
}

// ForUser handles GET /pms/dashboard
// @Summary      Resolve and return the caller's dashboard
// @Description  Dispatches to admin, owner, host or guest view by resolved role
// @Tags         dashboards
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Dashboard}
// @Failure      403 {object} response.APIResponse
// @Router       /pms/dashboard [get]
func (h *Handler) ForUser(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.ForUser)
}

// Owner handles GET /pms/owner/dashboard
// @Summary      Owner dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Dashboard}
// @Failure      403 {object} response.APIResponse
// @Router       /pms/owner/dashboard [get]
func (h *Handler) Owner(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.Owner)
}

// Host handles GET /pms/host/dashboard
// @Summary      Host dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Dashboard}
// @Failure      403 {object} response.APIResponse
// @Router       /pms/host/dashboard [get]
func (h *Handler) Host(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.Host)
}

// Guest handles GET /pms/guest/dashboard
// @Summary      Guest dashboard
// @Tags         dashboards
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Dashboard}
// @Failure      403 {object} response.APIResponse
// @Router       /pms/guest/dashboard [get]
func (h *Handler) Guest(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.service.Guest)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, build func(context.Context, int64) (*Dashboard, error)) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	dashboard, err := build(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoDashboard) || errors.Is(err, ErrWrongRole) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to build dashboard")
		return
	}

	response.JSON(w, http.StatusOK, dashboard)
}
