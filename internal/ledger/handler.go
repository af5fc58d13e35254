package ledger

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ripgraphics/bookin-pms/pkg/middleware"
	"github.com/ripgraphics/bookin-pms/pkg/response"
)

// Handler handles HTTP requests for the transaction ledger
type Handler struct {
	service *Service
}

// NewHandler creates a new ledger handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for ledger endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	return r
}

// List handles GET /transactions
// @Summary      List financial transactions
// @Description  List ledger entries for an owned property, filterable by type and date range
// @Tags         transactions
// @Produce      json
// @Param        property_id query int true "Property ID"
// @Param        type query string false "Transaction type (income or expense)"
// @Param        from query string false "Start date (RFC 3339)"
// @Param        to query string false "End date (RFC 3339)"
// @Success      200 {object} response.APIResponse{data=[]Transaction}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /pms/transactions [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	filter := Filter{}

	if v := r.URL.Query().Get("property_id"); v != "" {
		propertyID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid property ID")
			return
		}
		filter.PropertyID = &propertyID
	}

	if v := r.URL.Query().Get("type"); v != "" {
		t := Type(v)
		if !t.Valid() {
			response.BadRequest(w, "Invalid transaction type. Must be income or expense")
			return
		}
		filter.Type = &t
	}

	if v := r.URL.Query().Get("from"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(w, "Invalid from date")
			return
		}
		filter.From = &from
	}

	if v := r.URL.Query().Get("to"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(w, "Invalid to date")
			return
		}
		filter.To = &to
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	txs, total, err := h.service.ListForUser(r.Context(), userID, filter, page, perPage)
	if err != nil {
		if errors.Is(err, ErrPropertyRequired) {
			response.BadRequest(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotAuthorized) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list transactions")
		return
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, txs, meta)
}
