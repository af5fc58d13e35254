package property

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ripgraphics/bookin-pms/pkg/middleware"
	"github.com/ripgraphics/bookin-pms/pkg/response"
)

// Handler handles HTTP requests for property operations
type Handler struct {
	service *Service
}

// NewHandler creates a new property handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for property endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Onboard)
	r.Get("/", h.ListMine)
	r.Get("/{id}", h.GetByID)

	r.Post("/{id}/assignments", h.CreateAssignment)
	r.Get("/{id}/assignments", h.ListAssignments)
	r.Post("/assignments/{assignmentId}/deactivate", h.DeactivateAssignment)

	return r
}

// Onboard handles POST /properties
// @Summary      Onboard a property
// @Description  Bring a listing under management; the caller becomes the owner
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body OnboardPropertyRequest true "Property onboarding request"
// @Success      201 {object} response.APIResponse{data=PropertyResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /pms/properties [post]
func (h *Handler) Onboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req OnboardPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	property, err := h.service.Onboard(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidName) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to onboard property")
		return
	}

	response.JSON(w, http.StatusCreated, property.ToResponse())
}

// ListMine handles GET /properties
// @Summary      List managed properties
// @Description  List the caller's owned properties
// @Tags         properties
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]PropertyResponse}
// @Router       /pms/properties [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	properties, err := h.service.ListByOwner(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list properties")
		return
	}

	propertyResponses := make([]*PropertyResponse, len(properties))
	for i, p := range properties {
		propertyResponses[i] = p.ToResponse()
	}

	response.JSON(w, http.StatusOK, propertyResponses)
}

// GetByID handles GET /properties/{id}
// @Summary      Get property by ID
// @Tags         properties
// @Produce      json
// @Param        id path int true "Property ID"
// @Success      200 {object} response.APIResponse{data=PropertyResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pms/properties/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	property, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotAuthorized) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get property")
		return
	}

	response.JSON(w, http.StatusOK, property.ToResponse())
}

// CreateAssignment handles POST /properties/{id}/assignments
// @Summary      Assign a host or co-host
// @Description  Owner assigns operational responsibility with a commission rate
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path int true "Property ID"
// @Param        request body CreateAssignmentRequest true "Assignment request"
// @Success      201 {object} response.APIResponse{data=AssignmentResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pms/properties/{id}/assignments [post]
func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	assignment, err := h.service.CreateAssignment(r.Context(), propertyID, userID, &req)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotOwner) {
			response.Forbidden(w, err.Error())
			return
		}
		if errors.Is(err, ErrInvalidRole) || errors.Is(err, ErrInvalidCommission) || errors.Is(err, ErrCannotAssignSelf) {
			response.BadRequest(w, err.Error())
			return
		}
		if errors.Is(err, ErrAlreadyAssigned) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create assignment")
		return
	}

	response.JSON(w, http.StatusCreated, assignment.ToResponse())
}

// ListAssignments handles GET /properties/{id}/assignments
// @Summary      List assignments for a property
// @Tags         properties
// @Produce      json
// @Param        id path int true "Property ID"
// @Success      200 {object} response.APIResponse{data=[]AssignmentResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pms/properties/{id}/assignments [get]
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid property ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	assignments, err := h.service.ListAssignments(r.Context(), propertyID, userID)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotAuthorized) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list assignments")
		return
	}

	assignmentResponses := make([]*AssignmentResponse, len(assignments))
	for i, a := range assignments {
		assignmentResponses[i] = a.ToResponse()
	}

	response.JSON(w, http.StatusOK, assignmentResponses)
}

// DeactivateAssignment handles POST /properties/assignments/{assignmentId}/deactivate
// @Summary      Deactivate an assignment
// @Description  Flips an assignment to inactive; history is preserved
// @Tags         properties
// @Produce      json
// @Param        assignmentId path int true "Assignment ID"
// @Success      200 {object} response.APIResponse{data=AssignmentResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /pms/properties/assignments/{assignmentId}/deactivate [post]
func (h *Handler) DeactivateAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := strconv.ParseInt(chi.URLParam(r, "assignmentId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid assignment ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	assignment, err := h.service.DeactivateAssignment(r.Context(), assignmentID, userID)
	if err != nil {
		if errors.Is(err, ErrAssignmentNotFound) || errors.Is(err, ErrPropertyNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrNotOwner) {
			response.Forbidden(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to deactivate assignment")
		return
	}

	response.JSON(w, http.StatusOK, assignment.ToResponse())
}
