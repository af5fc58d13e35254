package invoice

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ripgraphics/bookin-pms/pkg/middleware"
	"github.com/ripgraphics/bookin-pms/pkg/response"
)

// Handler handles HTTP requests for invoice operations.
// The clock feeds the derived-overdue rendering.
type Handler struct {
	service *Service

	now func() time.Time
}

// NewHandler creates a new invoice handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// Routes returns the router for invoice endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Get("/{id}/pdf", h.GetPdfData)
	r.Get("/property/{propertyId}", h.ListByProperty)

	r.Post("/{id}/send", h.Send)
	r.Post("/{id}/mark-paid", h.MarkPaid)
	r.Post("/{id}/cancel", h.Cancel)

	return r
}

// Create handles POST /invoices
// @Summary      Create a draft invoice
// @Description  Build an invoice from line items; totals are computed server-side
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice creation request"
// @Success      201 {object} response.APIResponse{data=InvoiceResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /pms/invoices [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	inv, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			response.Forbidden(w, err.Error())
			return
		}
		if errors.Is(err, ErrInvalidType) || errors.Is(err, ErrInvalidCurrency) ||
			errors.Is(err, ErrInvalidRecipient) || errors.Is(err, ErrNoLineItems) ||
			errors.Is(err, ErrInvalidLineItem) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create invoice")
		return
	}

	response.JSON(w, http.StatusCreated, inv.ToResponse(h.now()))
}

// GetByID handles GET /invoices/{id}
// @Summary      Get invoice by ID
// @Description  Returns the invoice with its line items; status reflects overdue at read time
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} response.APIResponse{data=InvoiceResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pms/invoices/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid invoice ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	inv, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotParty) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get invoice")
		return
	}

	response.JSON(w, http.StatusOK, inv.ToResponse(h.now()))
}

// ListByProperty handles GET /invoices/property/{propertyId}
// @Summary      List invoices by property
// @Tags         invoices
// @Produce      json
// @Param        propertyId path int true "Property ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]InvoiceResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /pms/invoices/property/{propertyId} [get]
func (h *Handler) ListByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(chi.URLParam(r, "propertyId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	invoices, total, err := h.service.ListByProperty(r.Context(), propertyID, userID, page, perPage)
	if err != nil {
		if errors.Is(err, ErrNotAuthorized) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list invoices")
		return
	}

	now := h.now()
	invoiceResponses := make([]*InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		invoiceResponses[i] = inv.ToResponse(now)
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, invoiceResponses, meta)
}

// Send handles POST /invoices/{id}/send
// @Summary      Send an invoice
// @Description  One-way transition from draft to sent
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} response.APIResponse{data=InvoiceResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /pms/invoices/{id}/send [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid invoice ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	inv, err := h.service.Send(r.Context(), id, userID)
	if err != nil {
		h.writeTransitionError(w, err, "Failed to send invoice")
		return
	}

	response.JSON(w, http.StatusOK, inv.ToResponse(h.now()))
}

// MarkPaid handles POST /invoices/{id}/mark-paid
// @Summary      Mark an invoice paid
// @Description  Settles the invoice in full, creating a payment record and a ledger entry
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Param        request body MarkPaidRequest true "Payment details"
// @Success      200 {object} response.APIResponse{data=InvoiceResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /pms/invoices/{id}/mark-paid [post]
func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid invoice ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req MarkPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	inv, err := h.service.MarkPaid(r.Context(), id, userID, &req)
	if err != nil {
		if errors.Is(err, ErrMethodRequired) {
			response.BadRequest(w, err.Error())
			return
		}
		h.writeTransitionError(w, err, "Failed to mark invoice paid")
		return
	}

	response.JSON(w, http.StatusOK, inv.ToResponse(h.now()))
}

// Cancel handles POST /invoices/{id}/cancel
// @Summary      Cancel an invoice
// @Description  Terminal transition, allowed from draft or sent only
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} response.APIResponse{data=InvoiceResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /pms/invoices/{id}/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid invoice ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	inv, err := h.service.Cancel(r.Context(), id, userID)
	if err != nil {
		h.writeTransitionError(w, err, "Failed to cancel invoice")
		return
	}

	response.JSON(w, http.StatusOK, inv.ToResponse(h.now()))
}

// GetPdfData handles GET /invoices/{id}/pdf
// @Summary      Get invoice data for rendering
// @Description  Fully joined invoice for an external PDF renderer; rendering itself is out of scope
// @Tags         invoices
// @Produce      json
// @Param        id path int true "Invoice ID"
// @Success      200 {object} response.APIResponse{data=PdfData}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pms/invoices/{id}/pdf [get]
func (h *Handler) GetPdfData(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid invoice ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	data, err := h.service.GetPdfData(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotParty) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get invoice data")
		return
	}

	response.JSON(w, http.StatusOK, data)
}

func (h *Handler) writeTransitionError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, ErrInvoiceNotFound) {
		response.NotFound(w, err.Error())
		return
	}
	if errors.Is(err, ErrNotIssuer) {
		response.Forbidden(w, err.Error())
		return
	}
	if errors.Is(err, ErrInvalidStatusChange) {
		response.Conflict(w, err.Error())
		return
	}
	response.InternalError(w, fallback)
}
