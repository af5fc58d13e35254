package property

import (
	"context"
	"errors"
	"strings"

	"github.com/ripgraphics/bookin-pms/internal/role"
)

// Common errors
var (
	ErrPropertyNotFound   = errors.New("property not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrNotOwner           = errors.New("only the property owner can perform this action")
	ErrNotAuthorized      = errors.New("not authorized to view this property")
	ErrAlreadyAssigned    = errors.New("user already has an active assignment on this property")
	ErrInvalidRole        = errors.New("assignment role must be host or co_host")
	ErrInvalidCommission  = errors.New("commission rate must be between 0 and 100")
	ErrInvalidName        = errors.New("property name is required")
	ErrCannotAssignSelf   = errors.New("owner cannot assign themselves")
)

// RoleResolver resolves a caller's role on a property
type RoleResolver interface {
	Resolve(ctx context.Context, userID, propertyID int64) (role.Role, error)
}

// Service handles property and assignment business logic
type Service struct {
	repo  *Repository
	roles RoleResolver
}

// NewService creates a new property service
func NewService(repo *Repository, roles RoleResolver) *Service {
	return &Service{repo: repo, roles: roles}
}

// Onboard brings a listing under management, creating a property owned
// by the caller.
func (s *Service) Onboard(ctx context.Context, ownerID int64, req *OnboardPropertyRequest) (*Property, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidName
	}

	return s.repo.Create(ctx, ownerID, req)
}

// GetByID retrieves a property, visible to its owner, assignees,
// guests with a reservation, and admins.
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	resolved, err := s.roles.Resolve(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if resolved == role.RoleNone {
		return nil, ErrNotAuthorized
	}

	return property, nil
}

// ListByOwner retrieves the caller's managed properties
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]*Property, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// CreateAssignment assigns a host or co-host to a property.
// Only the owner may assign.
func (s *Service) CreateAssignment(ctx context.Context, propertyID, actorID int64, req *CreateAssignmentRequest) (*Assignment, error) {
	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	if property.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	if req.Role != role.RoleHost && req.Role != role.RoleCoHost {
		return nil, ErrInvalidRole
	}
	if req.CommissionRate < 0 || req.CommissionRate > 100 {
		return nil, ErrInvalidCommission
	}
	if req.UserID == actorID {
		return nil, ErrCannotAssignSelf
	}

	exists, err := s.repo.HasActiveAssignment(ctx, propertyID, req.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyAssigned
	}

	return s.repo.CreateAssignment(ctx, propertyID, req)
}

// ListAssignments retrieves the assignments of a property the caller
// owns or manages.
func (s *Service) ListAssignments(ctx context.Context, propertyID, userID int64) ([]*Assignment, error) {
	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}

	resolved, err := s.roles.Resolve(ctx, userID, propertyID)
	if err != nil {
		return nil, err
	}
	if !resolved.Manages() && resolved != role.RoleAdmin {
		return nil, ErrNotAuthorized
	}

	return s.repo.ListAssignments(ctx, propertyID)
}

// DeactivateAssignment flips an assignment to inactive, preserving
// history. Only the property owner may deactivate.
func (s *Service) DeactivateAssignment(ctx context.Context, assignmentID, actorID int64) (*Assignment, error) {
	assignment, err := s.repo.GetAssignmentByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, ErrAssignmentNotFound
	}

	property, err := s.repo.GetByID(ctx, assignment.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, ErrPropertyNotFound
	}
	if property.OwnerID != actorID {
		return nil, ErrNotOwner
	}

	return s.repo.DeactivateAssignment(ctx, assignmentID)
}
