package statement

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ripgraphics/bookin-pms/pkg/middleware"
	"github.com/ripgraphics/bookin-pms/pkg/response"
)

// Handler handles HTTP requests for owner statements
type Handler struct {
	service *Service
}

// NewHandler creates a new statement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register attaches the statement endpoints to the given router
func (h *Handler) Register(r chi.Router) {
	r.Get("/owner/statements", h.Generate)
}

// Generate handles GET /pms/owner/statements
// @Summary      Generate owner financial statements
// @Description  Per-property revenue, expenses and net over the period
// @Tags         statements
// @Produce      json
// @Param        period query string false "Statement period" Enums(all_time, monthly, quarterly, yearly)
// @Success      200 {object} response.APIResponse{data=Statement}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /pms/owner/statements [get]
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	stmt, err := h.service.Generate(r.Context(), userID, period)
	if err != nil {
		if errors.Is(err, ErrNotOwner) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to generate statement")
		return
	}

	response.JSON(w, http.StatusOK, stmt)
}
